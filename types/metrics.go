package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. Methods may be called
while the cache holds its lock, so implementations must be fast and must not
call back into the cache.
*/
type Metrics interface {

	// Hit is called when a fresh entry is returned without computing.
	Hit()

	// Miss is called when a caller becomes the leader and runs the computation.
	Miss()

	// Coalesce is called when a caller joins a computation already in flight.
	Coalesce()

	// Eviction is called when a key is removed because the cache is full and needs space.
	Eviction()

	// Expire is called when a key is dropped on read because it has passed its TTL.
	Expire()

	// Bypass is called when a computed value is returned without being cached
	// because admitting it would displace a resident entry.
	Bypass()

	// Failure is called when a computation returns an error or panics.
	Failure()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

If someone does not care about metrics, the cache still works without
nil checks everywhere.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Coalesce() {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Expire()   {}
func (NoopMetrics) Bypass()   {}
func (NoopMetrics) Failure()  {}
