package cache

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/krisalay/computation-cache/admission"
	"github.com/krisalay/computation-cache/engine"
	"github.com/krisalay/computation-cache/eviction"
	"github.com/krisalay/computation-cache/expiration"
	"github.com/krisalay/computation-cache/store"
	"github.com/krisalay/computation-cache/types"
)

/*
memo is the metadata shared by both front-ends: the store, the seen-key
ledger and the engine. It does no locking of its own; the front-end that owns
it serializes every call.
*/
type memo struct {
	id     string
	store  *store.Store
	seen   *admission.Ledger
	engine *engine.CacheEngine
}

func newMemo(cfg Config) (*memo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("cache_id", id))

	var exp expiration.Strategy
	if cfg.TTL > 0 {
		exp = expiration.ExpireAfterWrite{TTL: cfg.TTL}
	}

	eng := engine.NewCacheEngine(exp, cfg.Metrics, logger, cfg.Clock)

	return &memo{
		id:     id,
		store:  store.New(cfg.MaxSize, eviction.NewLRU(), exp),
		seen:   admission.New(cfg.seenKeysCapacity()),
		engine: eng,
	}, nil
}

// lookup returns the fresh resident value for key and bumps its recency.
func (m *memo) lookup(key string) (types.Value, bool) {
	ent, expired := m.store.Get(key, m.engine.Now())
	if expired {
		m.engine.Metrics.Expire()
	}
	if ent == nil {
		return types.Value{}, false
	}
	return ent.Value, true
}

/*
admit stores a freshly computed value unless the admission filter refuses it.
It reports whether the value was stored.
*/
func (m *memo) admit(key string, v types.Value) bool {
	if !m.engine.ShouldAdmit(m.store.Contains(key), m.store.Full(), m.seen.Seen(key)) {
		m.engine.OnBypass(key)
		return false
	}

	m.seen.RecordSeenIfNew(key)
	m.engine.OnEvict(key, m.store.Put(key, v, m.engine.Now()))
	return true
}

// remove drops key and forgets that it was ever seen.
func (m *memo) remove(key string) {
	m.store.Delete(key)
	m.seen.Forget(key)
}

func (m *memo) clear() {
	m.store.Clear()
	m.seen.Reset()
}

func (m *memo) count() int {
	return m.store.Len()
}

func checkType(key string, v types.Value, want reflect.Type) error {
	if v.Type != want {
		return mismatch(key, v.Type, want)
	}
	return nil
}

// unbox returns the payload of v as V, or ErrTypeMismatch if it is not one.
func unbox[V any](key string, v types.Value) (V, error) {
	out, ok := types.Unbox[V](v)
	if !ok {
		return out, mismatch(key, reflect.TypeOf(v.Payload), types.TypeOf[V]())
	}
	return out, nil
}

func mismatch(key string, have, want reflect.Type) error {
	return fmt.Errorf("%w: key %q holds %v, requested %v", ErrTypeMismatch, key, have, want)
}
