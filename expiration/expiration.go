// This file defines how cache entries expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/computation-cache/types"
)

/*
Strategy decides whether a resident entry is still fresh.

Expiration is lazy: the store asks on every read and drops stale entries
there. There is no background sweeper.
*/
type Strategy interface {

	// IsExpired reports whether ent is stale at now.
	IsExpired(ent *types.CacheEntry, now time.Time) bool
}
