package types

import "time"

// CacheEntry is one resident value. It is owned by the store and only
// touched while the owner holds exclusivity.
type CacheEntry struct {
	Key       string
	Value     Value
	CreatedAt time.Time

	// Stamp is the recency stamp. It is bumped on every hit and is strictly
	// increasing across the whole store; it never affects value correctness.
	Stamp uint64
}
