package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/krisalay/computation-cache/api"
	"github.com/krisalay/computation-cache/types"
)

/*
Cache is the blocking front-end.

It is the orchestrator that connects:
- the bounded LRU store
- the seen-key admission ledger
- the engine (expiration, metrics, logging, panic recovery)
- the table of computations currently in flight

One mutex guards all of that metadata. User computations always run with the
mutex released, so a slow computation for one key never stalls another key.

Waiters for an in-flight key block their goroutine until the leader publishes.
There is no timeout: a leader that blocks forever stalls every waiter for that key.
*/
type Cache struct {
	mu sync.Mutex

	memo *memo

	// calls holds at most one in-flight computation per key.
	calls map[string]*call
}

// call is the in-flight record for one key. It exists only while the leader
// computes; done is closed once val and err are published.
type call struct {
	done chan struct{}

	val types.Value
	err error
}

var _ api.Cache = (*Cache)(nil)

// New returns an empty blocking cache.
func New(cfg Config) (*Cache, error) {
	m, err := newMemo(cfg)
	if err != nil {
		return nil, err
	}
	return &Cache{
		memo:  m,
		calls: make(map[string]*call),
	}, nil
}

/*
GetOrCompute returns the cached result for key, computing it at most once.

BEHAVIOR:
---------
1. A fresh entry of type V is returned immediately (hit) and its recency bumped.
2. If another caller is already computing key, this call waits for it and
   returns the same value or the same error.
3. Otherwise this caller becomes the leader: compute runs without any lock held,
   then the result is admitted (or bypasses the cache under scan resistance)
   and handed to every waiter.

ERRORS:
-------
- A failed or panicking compute is returned to the leader and every waiter
  and is never cached.
- ErrComputeAborted when compute exits its goroutine without returning
  (runtime.Goexit, e.g. t.FailNow); waiters are released with it.
- ErrTypeMismatch when key holds (or is computing) a result of another type.
  Types are compared by identity, so two distinct types that print the same
  name still mismatch.

compute runs with ctx detached from its cancellation, because its result is
shared with every waiter. Values carried by ctx stay visible.
*/
func GetOrCompute[V any](ctx context.Context, c *Cache, key string, compute func(context.Context) (V, error)) (V, error) {
	v, err := c.getOrCompute(ctx, key, types.TypeOf[V](), func(ctx context.Context) (any, error) {
		return compute(ctx)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return unbox[V](key, v)
}

func (c *Cache) getOrCompute(ctx context.Context, key string, typ reflect.Type, fn types.ComputeFunc) (types.Value, error) {
	eng := c.memo.engine

	c.mu.Lock()

	// Fast path.
	if v, ok := c.memo.lookup(key); ok {
		err := checkType(key, v, typ)
		if err == nil {
			eng.Metrics.Hit()
		}
		c.mu.Unlock()
		if err != nil {
			return types.Value{}, err
		}
		return v, nil
	}

	// Someone else is computing key: wait for them.
	if cl, ok := c.calls[key]; ok {
		eng.Metrics.Coalesce()
		c.mu.Unlock()

		<-cl.done
		return c.afterWait(key, typ, cl)
	}

	// Become the leader.
	cl := &call{done: make(chan struct{})}
	c.calls[key] = cl
	eng.Metrics.Miss()
	c.mu.Unlock()

	c.lead(ctx, key, typ, cl, fn)

	if cl.err != nil {
		return types.Value{}, cl.err
	}
	return cl.val, nil
}

// lead runs the computation and publishes its outcome. Publishing is deferred
// so the call is released even if fn never returns.
func (c *Cache) lead(ctx context.Context, key string, typ reflect.Type, cl *call, fn types.ComputeFunc) {
	eng := c.memo.engine
	returned := false

	defer func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if !returned {
			cl.err = fmt.Errorf("%w: key %q", ErrComputeAborted, key)
			eng.Metrics.Failure()
		} else if cl.err == nil {
			c.memo.admit(key, cl.val)
		}
		delete(c.calls, key)
		close(cl.done)
	}()

	val, err := eng.Compute(ctx, key, fn)
	cl.val, cl.err = types.Value{Type: typ, Payload: val}, err
	returned = true
}

// afterWait resolves a waiter: the store first, then the leader's raw outcome,
// which covers values that bypassed admission and failures.
func (c *Cache) afterWait(key string, typ reflect.Type, cl *call) (types.Value, error) {
	c.mu.Lock()
	v, ok := c.memo.lookup(key)
	c.mu.Unlock()

	if !ok {
		if cl.err != nil {
			return types.Value{}, cl.err
		}
		v = cl.val
	}
	if err := checkType(key, v, typ); err != nil {
		return types.Value{}, err
	}
	return v, nil
}

/*
Remove deletes key and forgets that it was ever seen, so the next computation
for it is admitted like a brand new key. A computation in flight is not disturbed.

This operation is idempotent.
*/
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memo.remove(key)
}

// Clear removes every entry and forgets every seen key.
// Computations in flight are not disturbed.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memo.clear()
}

// Count returns the number of resident entries. It never exceeds MaxSize.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.memo.count()
}

// ID returns the instance id carried by every log record of this cache.
func (c *Cache) ID() string {
	return c.memo.id
}
