package cache

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/krisalay/computation-cache/admission"
	"github.com/krisalay/computation-cache/types"
)

var (
	ErrTypeMismatch        = types.ErrTypeMismatch
	ErrComputePanic        = types.ErrComputePanic
	ErrComputeAborted      = types.ErrComputeAborted
	ErrInvalidCapacity     = types.ErrInvalidCapacity
	ErrInvalidSeenCapacity = types.ErrInvalidSeenCapacity
	ErrClosed              = types.ErrClosed
)

/*
Config is the construction-time configuration shared by both front-ends.

Only MaxSize is required. Everything else has a usable zero value.
*/
type Config struct {
	// MaxSize is the maximum number of resident entries. Must be positive.
	MaxSize int

	// TTL is how long a computed value stays fresh. Zero means forever.
	TTL time.Duration

	// SeenKeysCapacity bounds the admission ledger.
	// Zero means max(MaxSize, MaxSize*10).
	SeenKeysCapacity int

	// Metrics receives cache events. Nil means no instrumentation.
	Metrics types.Metrics

	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger

	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
}

// Validate rejects configurations the cache cannot honor.
func (c Config) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c.MaxSize)
	}
	if c.SeenKeysCapacity < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSeenCapacity, c.SeenKeysCapacity)
	}
	return nil
}

func (c Config) seenKeysCapacity() int {
	if c.SeenKeysCapacity > 0 {
		return c.SeenKeysCapacity
	}
	return admission.DefaultCapacity(c.MaxSize)
}
