// This file implements the seen-key ledger behind scan resistance.

package admission

import "container/list"

/*
Ledger is a FIFO-bounded set of keys that have been admitted into the store.

It is independent of the store's capacity: an evicted key stays "seen" until
the ledger trims it for being the oldest, or until it is explicitly forgotten.
When the store is full, a key that is already in the ledger is not allowed to
displace a resident entry. A workload that probes many distinct keys once each
therefore cannot keep cycling the working set out.

Ledger is not safe for concurrent use; the owner serializes access.
*/
type Ledger struct {
	capacity int

	// order keeps keys in the order they were first recorded.
	// The front is the oldest key.
	order *list.List

	// index maps keys to their position in order.
	index map[string]*list.Element
}

// DefaultCapacity is the ledger bound used when none is configured.
func DefaultCapacity(maxSize int) int {
	return max(maxSize, maxSize*10)
}

// New returns a ledger holding at most capacity keys.
// A non-positive capacity keeps at least one key.
func New(capacity int) *Ledger {
	return &Ledger{
		capacity: max(capacity, 1),
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

// RecordSeenIfNew records k if it is not tracked yet and trims the oldest key
// once over capacity. It reports whether k was already seen.
func (l *Ledger) RecordSeenIfNew(k string) bool {
	if _, ok := l.index[k]; ok {
		return true
	}
	l.index[k] = l.order.PushBack(k)

	for l.order.Len() > l.capacity {
		oldest := l.order.Front()
		delete(l.index, l.order.Remove(oldest).(string))
	}
	return false
}

// Seen reports whether k is tracked.
func (l *Ledger) Seen(k string) bool {
	_, ok := l.index[k]
	return ok
}

// Forget drops k so a future computation for it counts as brand new.
func (l *Ledger) Forget(k string) {
	if e, ok := l.index[k]; ok {
		l.order.Remove(e)
		delete(l.index, k)
	}
}

// Reset forgets every key.
func (l *Ledger) Reset() {
	l.order.Init()
	l.index = make(map[string]*list.Element)
}

func (l *Ledger) Len() int {
	return l.order.Len()
}

func (l *Ledger) Capacity() int {
	return l.capacity
}
