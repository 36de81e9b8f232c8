package eviction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	l := NewLRU()
	l.OnPut("A")
	l.OnPut("B")
	l.OnGet("A")
	l.OnPut("C")

	assert.Equal(t, "B", l.Evict())
	assert.Equal(t, "A", l.Evict())
	assert.Equal(t, "C", l.Evict())
	assert.Equal(t, "", l.Evict())
}

func TestLRURefreshCountsAsUse(t *testing.T) {
	l := NewLRU()
	l.OnPut("A")
	l.OnPut("B")
	l.OnPut("A")

	assert.Equal(t, "B", l.Evict())
	assert.Equal(t, 1, l.Len())
}

func TestLRURemoveAndReset(t *testing.T) {
	l := NewLRU()
	for _, k := range []string{"A", "B", "C"} {
		l.OnPut(k)
	}

	l.Remove("A")
	l.Remove("missing")
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "B", l.Evict())

	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, "", l.Evict())

	l.OnGet("C") // no longer tracked
	l.OnPut("D")
	assert.Equal(t, "D", l.Evict())
}

func TestLRUGetOnHeadAndTail(t *testing.T) {
	l := NewLRU()
	l.OnPut("A")
	l.OnPut("B")
	l.OnPut("C")

	l.OnGet("C") // already head
	l.OnGet("A") // tail moves to head

	assert.Equal(t, "B", l.Evict())
	assert.Equal(t, "C", l.Evict())
	assert.Equal(t, "A", l.Evict())
}
