// Package memory provides the in-memory store used for development and
// tests. It implements the same interfaces as the postgres store so the
// rest of the module never notices the difference.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"schoolbooks/internal/books"
	"schoolbooks/internal/errs"
)

// EventKind labels a change-stream event.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Event is one change notification for a book.
type Event struct {
	Kind  EventKind
	Book  books.Book
	Entry books.Entry
}

// entryKey tracks ordering for entries per book: sorted asc by (Date, ID).
type entryKey struct {
	Date time.Time
	ID   uuid.UUID
}

// Store is an in-memory implementation of the repository and writer
// interfaces, guarded by an RWMutex for concurrent reads/writes.
type Store struct {
	mu         sync.RWMutex
	entries    map[books.Book]map[uuid.UUID]books.Entry
	keysByBook map[books.Book][]entryKey
	// Rules and customers keep insertion order: rule resolution is
	// first-match-wins and customer sequences follow creation order.
	rules     []books.Rule
	customers []books.Customer
	seq       map[string]int64
	subs      map[books.Book][]chan Event
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		entries:    make(map[books.Book]map[uuid.UUID]books.Entry),
		keysByBook: make(map[books.Book][]entryKey),
		seq:        make(map[string]int64),
		subs:       make(map[books.Book][]chan Event),
	}
}

// Reset drops all data; used between tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[books.Book]map[uuid.UUID]books.Entry)
	s.keysByBook = make(map[books.Book][]entryKey)
	s.rules = nil
	s.customers = nil
	s.seq = make(map[string]int64)
}

// Ready satisfies the readiness probe interface.
func (s *Store) Ready(context.Context) error { return nil }

// --- Entries ---

// ListEntries returns a book's entries ordered asc by (date, id).
func (s *Store) ListEntries(_ context.Context, book books.Book) ([]books.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(book), nil
}

func (s *Store) listLocked(book books.Book) []books.Entry {
	keys := s.keysByBook[book]
	byID := s.entries[book]
	out := make([]books.Entry, 0, len(keys))
	for _, k := range keys {
		if e, ok := byID[k.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// GetEntry returns a single entry.
func (s *Store) GetEntry(_ context.Context, book books.Book, id uuid.UUID) (books.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[book][id]
	if !ok {
		return books.Entry{}, errs.ErrNotFound
	}
	return e, nil
}

// InsertEntry persists a new entry, assigning the record id. The id, not
// the voucher number, is the uniqueness key.
func (s *Store) InsertEntry(_ context.Context, e books.Entry) (books.Entry, error) {
	s.mu.Lock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	byID, ok := s.entries[e.Book]
	if !ok {
		byID = make(map[uuid.UUID]books.Entry)
		s.entries[e.Book] = byID
	}
	if _, exists := byID[e.ID]; exists {
		s.mu.Unlock()
		return books.Entry{}, errs.ErrConflict
	}
	byID[e.ID] = e
	s.insertKeyLocked(e.Book, entryKey{Date: e.Date, ID: e.ID})
	s.mu.Unlock()
	s.notify(Event{Kind: EventInsert, Book: e.Book, Entry: e})
	return e, nil
}

// UpdateEntry replaces an existing entry by id.
func (s *Store) UpdateEntry(_ context.Context, e books.Entry) (books.Entry, error) {
	s.mu.Lock()
	byID, ok := s.entries[e.Book]
	if !ok {
		s.mu.Unlock()
		return books.Entry{}, errs.ErrNotFound
	}
	old, ok := byID[e.ID]
	if !ok {
		s.mu.Unlock()
		return books.Entry{}, errs.ErrNotFound
	}
	byID[e.ID] = e
	if !old.Date.Equal(e.Date) {
		s.removeKeyLocked(e.Book, old.Date, e.ID)
		s.insertKeyLocked(e.Book, entryKey{Date: e.Date, ID: e.ID})
	}
	s.mu.Unlock()
	s.notify(Event{Kind: EventUpdate, Book: e.Book, Entry: e})
	return e, nil
}

// DeleteEntry removes an entry by id.
func (s *Store) DeleteEntry(_ context.Context, book books.Book, id uuid.UUID) error {
	s.mu.Lock()
	byID, ok := s.entries[book]
	if !ok {
		s.mu.Unlock()
		return errs.ErrNotFound
	}
	e, ok := byID[id]
	if !ok {
		s.mu.Unlock()
		return errs.ErrNotFound
	}
	delete(byID, id)
	s.removeKeyLocked(book, e.Date, id)
	s.mu.Unlock()
	s.notify(Event{Kind: EventDelete, Book: book, Entry: e})
	return nil
}

// Snapshot returns a consistent copy of every book's entries, taken under a
// single read lock so the aggregator never sees torn totals.
func (s *Store) Snapshot(context.Context) (map[books.Book][]books.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[books.Book][]books.Entry, len(s.entries))
	for _, b := range books.All() {
		if entries := s.listLocked(b); len(entries) > 0 {
			out[b] = entries
		}
	}
	return out, nil
}

// --- Rules ---

// ListRules returns the fee-schedule rows in insertion order.
func (s *Store) ListRules(context.Context) ([]books.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]books.Rule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

// GetRule returns one rule by id.
func (s *Store) GetRule(_ context.Context, id uuid.UUID) (books.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return books.Rule{}, errs.ErrNotFound
}

// InsertRule appends a rule, assigning its id.
func (s *Store) InsertRule(_ context.Context, r books.Rule) (books.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	s.rules = append(s.rules, r)
	return r, nil
}

// UpdateRule replaces a rule in place, keeping its position.
func (s *Store) UpdateRule(_ context.Context, r books.Rule) (books.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == r.ID {
			s.rules[i] = r
			return r, nil
		}
	}
	return books.Rule{}, errs.ErrNotFound
}

// DeleteRule removes a rule by id.
func (s *Store) DeleteRule(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

// --- Customers ---

// ListCustomers returns registry records in insertion order.
func (s *Store) ListCustomers(context.Context) ([]books.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]books.Customer, len(s.customers))
	copy(out, s.customers)
	return out, nil
}

// InsertCustomer appends a registry record, assigning its id.
func (s *Store) InsertCustomer(_ context.Context, c books.Customer) (books.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.customers = append(s.customers, c)
	return c, nil
}

// --- Sequences ---

// NextSequence atomically increments and returns the named counter. It
// mirrors the postgres store's transactional allocation for deployments
// that want collision-free sequence numbers.
func (s *Store) NextSequence(_ context.Context, scope string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[scope]++
	return s.seq[scope], nil
}

// --- Change stream ---

// Subscribe returns a change-event channel for a book and a cancel func.
// Slow subscribers drop events rather than blocking writers.
func (s *Store) Subscribe(book books.Book) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs[book] = append(s.subs[book], ch)
	s.mu.Unlock()
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		chans := s.subs[book]
		for i := range chans {
			if chans[i] == ch {
				s.subs[book] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	chans := s.subs[ev.Book]
	s.mu.RUnlock()
	for _, ch := range chans {
		select {
		case ch <- ev:
		default:
		}
	}
}

// --- Seed helpers for local dev/tests ---

func (s *Store) SeedEntry(e books.Entry) books.Entry {
	saved, _ := s.InsertEntry(context.Background(), e)
	return saved
}

func (s *Store) SeedRule(r books.Rule) books.Rule {
	saved, _ := s.InsertRule(context.Background(), r)
	return saved
}

func (s *Store) SeedCustomer(c books.Customer) books.Customer {
	saved, _ := s.InsertCustomer(context.Background(), c)
	return saved
}

// insertKeyLocked inserts k into the per-book sorted index, asc by
// (Date, ID). Caller must hold the write lock.
func (s *Store) insertKeyLocked(book books.Book, k entryKey) {
	keys := s.keysByBook[book]
	i := sort.Search(len(keys), func(i int) bool {
		if keys[i].Date.After(k.Date) {
			return true
		}
		if keys[i].Date.Equal(k.Date) {
			return keys[i].ID.String() > k.ID.String()
		}
		return false
	})
	if i == len(keys) {
		s.keysByBook[book] = append(keys, k)
		return
	}
	keys = append(keys, entryKey{})
	copy(keys[i+1:], keys[i:])
	keys[i] = k
	s.keysByBook[book] = keys
}

// removeKeyLocked drops the (date, id) key from the index. Caller must hold
// the write lock.
func (s *Store) removeKeyLocked(book books.Book, date time.Time, id uuid.UUID) {
	keys := s.keysByBook[book]
	for i := range keys {
		if keys[i].ID == id && keys[i].Date.Equal(date) {
			s.keysByBook[book] = append(keys[:i], keys[i+1:]...)
			return
		}
	}
}
