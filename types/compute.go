package types

import "context"

/*
ComputeFunc is the contract between the cache and the caller's computation.

It is called on a miss, at most once per key while no fresh entry exists.
The cache never holds its own lock while a ComputeFunc runs, so it is free
to block, perform I/O or take as long as it needs.

A non-nil error means the result is discarded: it is handed to every
caller waiting on the key and is never cached.
*/
type ComputeFunc func(ctx context.Context) (any, error)
