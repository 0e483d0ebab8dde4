// Package store keeps the history of toasts that have left the screen.
package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/toast"
)

// ChangeType indicates the type of store change.
type ChangeType int

const (
	// ChangeTypeAdd indicates records were added.
	ChangeTypeAdd ChangeType = iota
	// ChangeTypeClear indicates all records were cleared.
	ChangeTypeClear
	// ChangeTypePrune indicates records were pruned.
	ChangeTypePrune
)

// ChangeEvent signals store content changes.
type ChangeEvent struct {
	Type  ChangeType
	Count int
}

// Store manages the toast history with thread-safe operations.
// Records are kept in removal order, oldest first.
type Store struct {
	mu      sync.RWMutex
	records []Record
	index   map[string]int // toast id -> slice index
	limit   int
	logger  *slog.Logger

	persistence Persistence

	subscribers []chan ChangeEvent
	closed      bool
}

// Option configures a Store.
type Option func(*Store)

// WithLimit caps the number of records kept. Zero keeps everything.
func WithLimit(n int) Option {
	return func(s *Store) {
		s.limit = max(n, 0)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a new Store.
// If persistence is not nil, it will be used to persist records.
func NewStore(persistence Persistence, opts ...Option) *Store {
	s := &Store{
		index:       make(map[string]int),
		logger:      slog.Default(),
		persistence: persistence,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add adds a record to the store. Records already present are skipped.
func (s *Store) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if _, exists := s.index[r.ID]; exists {
		return nil
	}

	// The file is written first so a failed append leaves memory untouched.
	if s.persistence != nil {
		if err := s.persistence.Append(r); err != nil {
			return fmt.Errorf("append history record %s: %w", r.ID, err)
		}
	}

	s.index[r.ID] = len(s.records)
	s.records = append(s.records, r)

	s.notifyChange(ChangeEvent{Type: ChangeTypeAdd, Count: 1})
	return s.enforceLimit()
}

// Observe records removal events. It is a toast.Observer.
func (s *Store) Observe(ev toast.Event) {
	if ev.Kind != toast.EventRemoved {
		return
	}
	if err := s.Add(NewRecord(ev)); err != nil {
		s.logger.Warn("failed to record toast history", "id", ev.Toast.ID, "error", err)
	}
}

// enforceLimit drops the oldest records once the store is a tenth over its
// limit. The caller holds s.mu.
func (s *Store) enforceLimit() error {
	if s.limit <= 0 || len(s.records) <= s.limit+s.limit/10 {
		return nil
	}

	dropped := len(s.records) - s.limit
	s.records = slices.Clone(s.records[dropped:])
	s.reindex()
	s.logger.Debug("trimmed toast history", "dropped", dropped, "limit", s.limit)

	if s.persistence != nil {
		if err := s.persistence.Rewrite(s.records); err != nil {
			return err
		}
	}
	s.notifyChange(ChangeEvent{Type: ChangeTypePrune, Count: dropped})
	return nil
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.records))
	for i, r := range s.records {
		s.index[r.ID] = i
	}
}

// All returns all records, most recently removed first.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Record, len(s.records))
	for i, r := range s.records {
		result[len(s.records)-1-i] = r
	}
	return result
}

// Get returns the record of the toast with id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.records[idx], true
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Prune removes records of toasts removed before cutoff and returns how many
// were dropped.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	kept := s.records[:0:0]
	for _, r := range s.records {
		if !r.RemovedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	pruned := len(s.records) - len(kept)
	if pruned == 0 {
		return 0, nil
	}

	s.records = kept
	s.reindex()

	if s.persistence != nil {
		if err := s.persistence.Rewrite(s.records); err != nil {
			return pruned, err
		}
	}

	s.notifyChange(ChangeEvent{Type: ChangeTypePrune, Count: pruned})
	return pruned, nil
}

// Subscribe returns a channel that receives change events.
func (s *Store) Subscribe() <-chan ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan ChangeEvent, 10)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription.
func (s *Store) Unsubscribe(ch <-chan ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close releases resources and closes all subscriber channels.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil

	if s.persistence != nil {
		return s.persistence.Close()
	}
	return nil
}

// Hydrate loads records from persistence into the store.
func (s *Store) Hydrate() error {
	if s.persistence == nil {
		return nil
	}

	records, err := s.persistence.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, r := range records {
		if _, exists := s.index[r.ID]; exists {
			continue
		}
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r)
		added++
	}

	if added > 0 {
		s.notifyChange(ChangeEvent{Type: ChangeTypeAdd, Count: added})
	}
	return s.enforceLimit()
}

// Clear removes all records from the store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	count := len(s.records)
	s.records = nil
	s.index = make(map[string]int)

	if s.persistence != nil {
		if err := s.persistence.Clear(); err != nil {
			return err
		}
	}

	s.notifyChange(ChangeEvent{Type: ChangeTypeClear, Count: count})
	return nil
}

// notifyChange sends a change event to all subscribers (non-blocking).
func (s *Store) notifyChange(event ChangeEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// Errors
var (
	ErrStoreClosed = storeError("store is closed")
)

type storeError string

func (e storeError) Error() string {
	return string(e)
}
