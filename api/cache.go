package api

/*
Cache defines the management surface shared by the blocking and the
suspending front-ends.

Reading goes through the generic cache.GetOrCompute and cache.Do functions,
since Go interfaces cannot carry type parameters on methods. Everything else
is here, so collaborators that only invalidate or observe the cache can
depend on this interface instead of a concrete front-end.
*/
type Cache interface {

	/*
		Remove deletes a key from the cache immediately.

		BEHAVIOR:
		---------
		- Removes the key from resident storage
		- Forgets that the key was ever seen, so its next computation is
		  eligible for ordinary admission instead of being bypassed
		- Does NOT disturb a computation currently in flight for the key

		This operation is idempotent:
		- Removing a non-existing key is safe
	*/
	Remove(key string)

	/*
		Clear evicts all entries and forgets all seen keys.
		In-flight computations finish normally and are admitted as new keys.
	*/
	Clear()

	// Count returns the number of resident entries, never more than the configured maximum.
	Count() int

	// ID returns the per-instance identifier attached to log records.
	ID() string
}
