// Package metrics provides a Prometheus implementation of types.Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/krisalay/computation-cache/types"
)

// Prometheus counts cache events with Prometheus counters.
type Prometheus struct {
	Hits      prometheus.Counter
	Misses    prometheus.Counter
	Coalesced prometheus.Counter
	Evictions prometheus.Counter
	Expired   prometheus.Counter
	Bypassed  prometheus.Counter
	Failures  prometheus.Counter
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the counters under namespace and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		})
	}

	return &Prometheus{
		Hits:      counter("hits_total", "Lookups answered from a fresh resident entry"),
		Misses:    counter("misses_total", "Lookups that ran the computation as leader"),
		Coalesced: counter("coalesced_total", "Lookups that waited on a computation already in flight"),
		Evictions: counter("evictions_total", "Entries evicted to make room"),
		Expired:   counter("expired_total", "Entries dropped on read after their TTL"),
		Bypassed:  counter("bypassed_total", "Computed values returned without being cached by the admission filter"),
		Failures:  counter("failures_total", "Computations that returned an error or panicked"),
	}
}

func (p *Prometheus) Hit()      { p.Hits.Inc() }
func (p *Prometheus) Miss()     { p.Misses.Inc() }
func (p *Prometheus) Coalesce() { p.Coalesced.Inc() }
func (p *Prometheus) Eviction() { p.Evictions.Inc() }
func (p *Prometheus) Expire()   { p.Expired.Inc() }
func (p *Prometheus) Bypass()   { p.Bypassed.Inc() }
func (p *Prometheus) Failure()  { p.Failures.Inc() }
