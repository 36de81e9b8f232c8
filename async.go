package cache

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/krisalay/computation-cache/api"
	"github.com/krisalay/computation-cache/types"
)

/*
Async is the suspending front-end.

It offers the same contract as Cache, but the metadata is owned by a single
event-loop goroutine instead of guarded by a mutex. Callers post requests to
the loop; a caller that has to wait parks on its own continuation channel and
gives its goroutine back to the scheduler. The leader computes on its own
goroutine, outside the loop, and posts the outcome back; the loop admits it
and resumes every waiter in arrival order.

Keys are augmented with the result type internally, so the same textual key
used by call sites expecting different types never collides. Each type gets a
loop-assigned id, so distinct types sharing a printed name stay apart.
*/
type Async struct {
	memo *memo

	reqs chan func()
	quit chan struct{}
	done chan struct{}

	closeOnce sync.Once

	// Owned by the loop goroutine.
	flights map[string]*flight
	typeIDs map[reflect.Type]int
}

// flight is the in-flight record for one typed key.
type flight struct {
	conts []chan outcome
}

type outcome struct {
	val  types.Value
	err  error
	lead bool
	key  string // typed key, set for the leader
}

var _ api.Cache = (*Async)(nil)

// NewAsync returns an empty suspending cache with its loop running.
// Call Close to stop the loop.
func NewAsync(cfg Config) (*Async, error) {
	m, err := newMemo(cfg)
	if err != nil {
		return nil, err
	}

	a := &Async{
		memo:    m,
		reqs:    make(chan func()),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		flights: make(map[string]*flight),
		typeIDs: make(map[reflect.Type]int),
	}
	go a.run()
	return a, nil
}

func (a *Async) run() {
	defer close(a.done)

	for {
		select {
		case fn := <-a.reqs:
			fn()
		case <-a.quit:
			a.shutdown()
			return
		}
	}
}

// shutdown resumes every parked waiter with ErrClosed and drops all entries.
func (a *Async) shutdown() {
	for k, f := range a.flights {
		for _, cont := range f.conts {
			cont <- outcome{err: ErrClosed}
		}
		delete(a.flights, k)
	}
	a.memo.clear()
}

// exec runs fn on the loop. It fails only once the loop has stopped.
func (a *Async) exec(fn func()) error {
	select {
	case a.reqs <- fn:
		return nil
	case <-a.done:
		return ErrClosed
	}
}

/*
Do is the suspending GetOrCompute.

BEHAVIOR:
---------
1. A fresh entry for (key, V) is returned immediately.
2. If (key, V) is being computed, the caller parks until the leader publishes
   and receives the same value or the same error.
3. Otherwise the caller leads: compute runs on the caller's goroutine, outside
   the loop, and the outcome is admitted and handed to every waiter.

Waiting is never cancelled. compute receives ctx detached from its
cancellation, since its result is shared. After Close, Do returns ErrClosed.
A compute that exits its goroutine without returning releases its waiters
with ErrComputeAborted.
*/
func Do[V any](ctx context.Context, a *Async, key string, compute func(context.Context) (V, error)) (V, error) {
	v, err := a.do(ctx, key, types.TypeOf[V](), func(ctx context.Context) (any, error) {
		return compute(ctx)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return unbox[V](key, v)
}

func (a *Async) do(ctx context.Context, key string, typ reflect.Type, fn types.ComputeFunc) (types.Value, error) {
	cont := make(chan outcome, 1)
	if err := a.exec(func() { a.join(typ, key, cont) }); err != nil {
		return types.Value{}, err
	}

	o := <-cont
	if !o.lead {
		return o.val, o.err
	}
	return a.lead(ctx, key, typ, o.key, fn)
}

// lead computes for typed key k and posts the outcome to the loop. Posting is
// deferred so waiters are resumed even if fn never returns.
func (a *Async) lead(ctx context.Context, key string, typ reflect.Type, k string, fn types.ComputeFunc) (types.Value, error) {
	eng := a.memo.engine
	var res outcome
	returned := false

	defer func() {
		if !returned {
			res = outcome{err: fmt.Errorf("%w: key %q", ErrComputeAborted, key)}
			eng.Metrics.Failure()
		}
		o := res
		// If the loop already stopped, shutdown has resumed our waiters.
		_ = a.exec(func() { a.publish(k, o) })
	}()

	val, err := eng.Compute(ctx, key, fn)
	res = outcome{val: types.Value{Type: typ, Payload: val}, err: err}
	returned = true

	if err != nil {
		return types.Value{}, err
	}
	return res.val, nil
}

// join runs on the loop. It answers cont right away for a hit or a new
// leader, and parks it on the flight otherwise.
func (a *Async) join(typ reflect.Type, key string, cont chan outcome) {
	eng := a.memo.engine
	k := a.typedKey(typ, key)

	if v, ok := a.memo.lookup(k); ok {
		eng.Metrics.Hit()
		cont <- outcome{val: v}
		return
	}

	if f, ok := a.flights[k]; ok {
		eng.Metrics.Coalesce()
		f.conts = append(f.conts, cont)
		return
	}

	a.flights[k] = &flight{}
	eng.Metrics.Miss()
	cont <- outcome{lead: true, key: k}
}

// publish runs on the loop once the leader for k finishes.
func (a *Async) publish(k string, o outcome) {
	f, ok := a.flights[k]
	if !ok {
		return
	}
	delete(a.flights, k)

	if o.err == nil {
		a.memo.admit(k, o.val)
	}
	for _, cont := range f.conts {
		cont <- o
	}
}

/*
Remove deletes every typed variant of key and forgets that they were seen.
After Close it does nothing.
*/
func (a *Async) Remove(key string) {
	_ = a.call(func() {
		for _, id := range a.typeIDs {
			a.memo.remove(typedKeyFor(id, key))
		}
	})
}

// Clear removes every entry and forgets every seen key.
// Computations in flight are not disturbed.
func (a *Async) Clear() {
	_ = a.call(a.memo.clear)
}

// Count returns the number of resident entries. It is zero after Close.
func (a *Async) Count() int {
	var n int
	_ = a.call(func() { n = a.memo.count() })
	return n
}

func (a *Async) ID() string {
	return a.memo.id
}

/*
Close stops the loop. Parked waiters resume with ErrClosed, resident entries
are dropped, and later calls fail with ErrClosed. Leaders already computing
still return their own result. Close is idempotent.
*/
func (a *Async) Close() error {
	a.closeOnce.Do(func() { close(a.quit) })
	<-a.done
	return nil
}

// call runs fn on the loop and waits for it to finish.
func (a *Async) call(fn func()) error {
	ack := make(chan struct{})
	if err := a.exec(func() { fn(); close(ack) }); err != nil {
		return err
	}
	<-ack
	return nil
}

// typedKey runs on the loop. It assigns typ an id the first time it is seen.
func (a *Async) typedKey(typ reflect.Type, key string) string {
	id, ok := a.typeIDs[typ]
	if !ok {
		id = len(a.typeIDs)
		a.typeIDs[typ] = id
	}
	return typedKeyFor(id, key)
}

func typedKeyFor(id int, key string) string {
	return strconv.Itoa(id) + "\x00" + key
}

/*
Future is the result of a call started with Submit.

Select on Done alongside your own context to stop waiting early; the
computation itself keeps going and its result is still cached.
*/
type Future[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Submit starts Do on a new goroutine and returns immediately.
func Submit[V any](ctx context.Context, a *Async, key string, compute func(context.Context) (V, error)) *Future[V] {
	f := &Future[V]{done: make(chan struct{})}
	go func() {
		// Stays set if compute exits the goroutine without returning.
		f.err = ErrComputeAborted
		defer close(f.done)
		f.val, f.err = Do(ctx, a, key, compute)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Wait parks until the result is available and returns it.
func (f *Future[V]) Wait() (V, error) {
	<-f.done
	return f.val, f.err
}
