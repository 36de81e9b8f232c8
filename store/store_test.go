package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/computation-cache/eviction"
	"github.com/krisalay/computation-cache/expiration"
	"github.com/krisalay/computation-cache/types"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestStore(maxSize int, ttl time.Duration) *Store {
	return New(maxSize, eviction.NewLRU(), expiration.ExpireAfterWrite{TTL: ttl})
}

func TestPutAndGet(t *testing.T) {
	s := newTestStore(2, 0)
	s.Put("a", types.Box(1), t0)

	ent, expired := s.Get("a", t0)
	require.NotNil(t, ent)
	assert.False(t, expired)
	got, ok := types.Unbox[int](ent.Value)
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	ent, expired = s.Get("missing", t0)
	assert.Nil(t, ent)
	assert.False(t, expired)
}

func TestStampsStrictlyIncrease(t *testing.T) {
	s := newTestStore(4, 0)
	s.Put("a", types.Box(1), t0)
	s.Put("b", types.Box(2), t0)

	a, _ := s.Get("a", t0)
	first := a.Stamp
	b, _ := s.Get("b", t0)
	assert.Greater(t, b.Stamp, first)

	a, _ = s.Get("a", t0)
	assert.Greater(t, a.Stamp, b.Stamp)
}

func TestPutEvictsLRUWhenFull(t *testing.T) {
	s := newTestStore(2, 0)
	s.Put("A", types.Box(1), t0)
	s.Put("B", types.Box(2), t0)
	s.Get("A", t0)

	evicted := s.Put("C", types.Box(3), t0)
	assert.Equal(t, []string{"B"}, evicted)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("A"))
	assert.False(t, s.Contains("B"))
}

func TestRefreshNeverEvicts(t *testing.T) {
	s := newTestStore(2, 0)
	s.Put("A", types.Box(1), t0)
	s.Put("B", types.Box(2), t0)

	assert.Empty(t, s.Put("A", types.Box(10), t0.Add(time.Second)))
	ent, _ := s.Get("A", t0)
	got, _ := types.Unbox[int](ent.Value)
	assert.Equal(t, 10, got)
	assert.Equal(t, t0.Add(time.Second), ent.CreatedAt)
}

func TestLenNeverExceedsMaxSize(t *testing.T) {
	s := newTestStore(3, 0)
	for i := 0; i < 50; i++ {
		s.Put(fmt.Sprintf("k%d", i), types.Box(i), t0)
		require.LessOrEqual(t, s.Len(), 3)
	}
	assert.True(t, s.Full())
}

func TestGetDropsExpiredEntries(t *testing.T) {
	s := newTestStore(2, time.Minute)
	s.Put("a", types.Box(1), t0)

	ent, expired := s.Get("a", t0.Add(time.Minute))
	assert.NotNil(t, ent, "exactly TTL old is still fresh")
	assert.False(t, expired)

	ent, expired = s.Get("a", t0.Add(time.Minute+time.Nanosecond))
	assert.Nil(t, ent)
	assert.True(t, expired)
	assert.Equal(t, 0, s.Len())
}

func TestNoExpirationStrategy(t *testing.T) {
	s := New(1, eviction.NewLRU(), nil)
	s.Put("a", types.Box(1), t0)

	ent, _ := s.Get("a", t0.Add(1000*time.Hour))
	assert.NotNil(t, ent)
}

func TestDeleteAndClear(t *testing.T) {
	s := newTestStore(3, 0)
	s.Put("a", types.Box(1), t0)
	s.Put("b", types.Box(2), t0)

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.Equal(t, 1, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Full())

	// eviction bookkeeping was reset too
	s.Put("x", types.Box(1), t0)
	s.Put("y", types.Box(1), t0)
	s.Put("z", types.Box(1), t0)
	assert.Equal(t, []string{"x"}, s.Put("w", types.Box(1), t0))
}
