package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/krisalay/computation-cache/expiration"
	"github.com/krisalay/computation-cache/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- What time it is (injectable for tests)
- When data is expired
- Whether a freshly computed value may be admitted
- How user computations are run and how their panics are reported
- How metrics and logs are recorded

It does NOT:
- Store data
- Handle locking
- Decide eviction order
*/
type CacheEngine struct {

	// Expiration controls when a cache entry is considered too old.
	// If this is nil, entries never expire based on time.
	Expiration expiration.Strategy

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics

	// Logger receives debug records for eviction and bypass decisions, and
	// warnings for recovered panics.
	Logger *slog.Logger

	// Clock returns the current time.
	Clock func() time.Time
}

/*
NewCacheEngine creates a CacheEngine. Nil collaborators are replaced with
do-nothing defaults so the rest of the code never has to nil-check them.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	metrics types.Metrics,
	logger *slog.Logger,
	clock func() time.Time,
) *CacheEngine {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if clock == nil {
		clock = time.Now
	}

	return &CacheEngine{
		Expiration: exp,
		Metrics:    metrics,
		Logger:     logger,
		Clock:      clock,
	}
}

func (e *CacheEngine) Now() time.Time {
	return e.Clock()
}

/*
ShouldAdmit is the scan-resistance rule applied when a leader finishes.

BEHAVIOR:
---------
- A resident key (a stale entry being refreshed) is always admitted; it takes no new slot.
- If the store has room, the value is admitted.
- If the store is full, only a key the ledger has never seen may evict a resident.
  A key that was seen before bypasses the cache: its value is returned but not stored.
*/
func (e *CacheEngine) ShouldAdmit(resident, full, seen bool) bool {
	return resident || !full || !seen
}

/*
Compute runs the user's computation.

A panic is recovered and turned into an error wrapping types.ErrComputePanic,
so the leader can still publish an outcome and no waiter is left hanging.
Failures are counted but never cached.

fn receives ctx detached from its cancellation: the result is shared with
every waiter, so one caller giving up must not fail the others. Values
carried by ctx are still visible.
*/
func (e *CacheEngine) Compute(ctx context.Context, key string, fn types.ComputeFunc) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.Logger.Warn("compute panicked",
				slog.String("key", key),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			val, err = nil, fmt.Errorf("%w: key %q: %v", types.ErrComputePanic, key, r)
		}
		if err != nil {
			e.Metrics.Failure()
		}
	}()

	val, err = fn(context.WithoutCancel(ctx))
	if err != nil {
		// never hand out both a value and an error
		val = nil
	}
	return val, err
}

// OnEvict records keys evicted to make room for key.
func (e *CacheEngine) OnEvict(key string, evicted []string) {
	for _, k := range evicted {
		e.Metrics.Eviction()
		e.Logger.Debug("evicted", slog.String("key", k), slog.String("admitted", key))
	}
}

// OnBypass records a computed value that was returned without being cached.
func (e *CacheEngine) OnBypass(key string) {
	e.Metrics.Bypass()
	e.Logger.Debug("admission bypassed", slog.String("key", key))
}
