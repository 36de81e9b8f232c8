package expiration

import (
	"time"

	"github.com/krisalay/computation-cache/types"
)

/*
ExpireAfterWrite is a fixed freshness window measured from when the value was
computed. Reads do NOT extend it: a memoized result is only as good as the
inputs it was computed from, however often it is used.

An entry is stale once strictly more than TTL has passed since CreatedAt.
A non-positive TTL means entries never expire.
*/
type ExpireAfterWrite struct {
	TTL time.Duration
}

func (e ExpireAfterWrite) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return e.TTL > 0 && now.Sub(ent.CreatedAt) > e.TTL
}
