// Package history keeps a short-lived, in-memory log of calculations so that
// recent conversions and simulations can be listed again.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/logger"
)

// Kind identifies the calculation an entry records.
type Kind string

const (
	KindConversion Kind = "conversion"
	KindUsage      Kind = "usage"
	KindSimulation Kind = "simulation"
)

// DefaultMaxEntries bounds the store when no limit is configured.
const DefaultMaxEntries = 100

// Entry is one recorded calculation.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Input     any       `json:"input"`
	Result    any       `json:"result"`

	seq uint64
}

// Options configures a Store.
type Options struct {
	// Retention is how long entries are kept. Zero keeps them until evicted.
	Retention time.Duration
	// MaxEntries caps the number of entries. Oldest entries are evicted first.
	MaxEntries int
}

// Store is a bounded, expiring calculation log. It is safe for concurrent use.
type Store struct {
	cache      *cache.Cache
	maxEntries int

	mu  sync.Mutex
	seq uint64

	// overridable in tests
	now   func() time.Time
	newID func() string
}

// New creates a Store. Expired entries are swept by the cache janitor only
// when a retention is set.
func New(opts Options) *Store {
	expiration := cache.NoExpiration
	var cleanup time.Duration
	if opts.Retention > 0 {
		expiration = opts.Retention
		cleanup = opts.Retention * 2
	}

	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &Store{
		cache:      cache.New(expiration, cleanup),
		maxEntries: maxEntries,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Record adds an entry and returns it.
func (s *Store) Record(kind Kind, input, result any) (Entry, error) {
	if kind == "" {
		return Entry{}, errors.Newf("history entry kind is required").
			Component("history").
			Category(errors.CategoryValidation).
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	entry := Entry{
		ID:        s.newID(),
		Timestamp: s.now(),
		Kind:      kind,
		Input:     input,
		Result:    result,
		seq:       s.seq,
	}
	s.cache.SetDefault(entry.ID, entry)
	s.evictLocked()

	logger.Global().Module("history").Debug("Recorded calculation",
		logger.String("id", entry.ID),
		logger.String("kind", string(kind)))

	return entry, nil
}

// evictLocked drops the oldest entries above the cap. Expired entries the
// janitor has not swept yet are removed first so they do not count.
func (s *Store) evictLocked() {
	s.cache.DeleteExpired()
	entries := s.entries()
	excess := len(entries) - s.maxEntries
	if excess <= 0 {
		return
	}
	for _, e := range entries[len(entries)-excess:] {
		s.cache.Delete(e.ID)
	}
}

// entries returns unexpired entries, newest first.
func (s *Store) entries() []Entry {
	items := s.cache.Items()
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if e, ok := item.Object.(Entry); ok {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq > entries[j].seq
	})
	return entries
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns everything. An optional kind filter narrows the result.
func (s *Store) List(limit int, kind Kind) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries()
	if kind != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Kind == kind {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (Entry, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return Entry{}, errors.Newf("history entry not found").
			Component("history").
			Category(errors.CategoryNotFound).
			Context("id", id).
			Build()
	}
	return v.(Entry), nil
}

// Len reports the number of stored entries, including expired ones not yet swept.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Flush()
}
