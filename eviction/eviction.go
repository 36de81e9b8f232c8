package eviction

/*
This file defines how the store decides what to remove when it runs out of space.
*/

/*
Policy is the interface an eviction strategy must follow.

The store does NOT care how eviction works internally. It only calls these
methods, always while holding exclusivity, so implementations need no locking.
*/
type Policy interface {

	// OnGet is called whenever a resident key is read (a hit).
	OnGet(string)

	// OnPut is called whenever a key is inserted or refreshed.
	OnPut(string)

	// Remove is called when a key is explicitly removed from the store (not evicted).
	Remove(string)

	// Evict picks the next victim, forgets it and returns it.
	// It returns "" when nothing is tracked.
	Evict() string

	// Reset forgets every tracked key.
	Reset()

	// Len returns how many keys are tracked.
	Len() int
}
