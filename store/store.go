package store

import (
	"time"

	"github.com/krisalay/computation-cache/eviction"
	"github.com/krisalay/computation-cache/expiration"
	"github.com/krisalay/computation-cache/types"
)

/*
This file defines how resident entries are actually held.

Store is a bounded key → entry table. It is NOT safe for concurrent use:
every front-end owns exactly one Store and only touches it inside its own
exclusivity scope (a mutex, or the event loop goroutine).
*/
type Store struct {
	maxSize int

	entries map[string]*types.CacheEntry

	// eviction picks victims when the store is full.
	eviction eviction.Policy

	// expiration decides freshness on read. Nil means entries never expire.
	expiration expiration.Strategy

	// stamp is the last recency stamp handed out.
	stamp uint64
}

// New returns an empty store holding at most maxSize entries.
func New(maxSize int, ev eviction.Policy, exp expiration.Strategy) *Store {
	return &Store{
		maxSize:    maxSize,
		entries:    make(map[string]*types.CacheEntry),
		eviction:   ev,
		expiration: exp,
	}
}

/*
Get returns the fresh entry for key and bumps its recency.

If the entry exists but is stale at now it is dropped and expired is true.
*/
func (s *Store) Get(key string, now time.Time) (ent *types.CacheEntry, expired bool) {
	ent, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	if s.expiration != nil && s.expiration.IsExpired(ent, now) {
		s.Delete(key)
		return nil, true
	}

	ent.Stamp = s.nextStamp()
	s.eviction.OnGet(key)
	return ent, false
}

// Contains reports whether key is resident, fresh or not, without touching recency.
func (s *Store) Contains(key string) bool {
	_, ok := s.entries[key]
	return ok
}

/*
Put inserts or refreshes key and returns the keys evicted to make room.

Refreshing a resident key never evicts. Inserting while full removes
max(1, size-maxSize) least recently used entries first, so the store never
grows past maxSize.
*/
func (s *Store) Put(key string, value types.Value, now time.Time) (evicted []string) {
	if ent, ok := s.entries[key]; ok {
		ent.Value = value
		ent.CreatedAt = now
		ent.Stamp = s.nextStamp()
		s.eviction.OnPut(key)
		return nil
	}

	evicted = s.evictIfNeeded()

	s.entries[key] = &types.CacheEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		Stamp:     s.nextStamp(),
	}
	s.eviction.OnPut(key)
	return evicted
}

func (s *Store) evictIfNeeded() []string {
	if len(s.entries) < s.maxSize {
		return nil
	}

	n := max(1, len(s.entries)-s.maxSize)
	evicted := make([]string, 0, n)
	for range n {
		victim := s.eviction.Evict()
		if victim == "" {
			break
		}
		delete(s.entries, victim)
		evicted = append(evicted, victim)
	}
	return evicted
}

// Delete removes key. It reports whether the key was resident.
func (s *Store) Delete(key string) bool {
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	s.eviction.Remove(key)
	return true
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.entries = make(map[string]*types.CacheEntry)
	s.eviction.Reset()
}

// Len returns how many entries are resident, including stale ones not read yet.
func (s *Store) Len() int {
	return len(s.entries)
}

// Full reports whether an insert of a new key would have to evict.
func (s *Store) Full() bool {
	return len(s.entries) >= s.maxSize
}

func (s *Store) MaxSize() int {
	return s.maxSize
}

func (s *Store) nextStamp() uint64 {
	s.stamp++
	return s.stamp
}
