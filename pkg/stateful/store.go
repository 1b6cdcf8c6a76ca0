package stateful

import (
	"slices"
	"sync"
	"time"
)

// Record is the constraint every stored entity satisfies. WithID returns a
// copy of the record carrying the given id; the store uses it to stamp ids on
// create and to keep them fixed across updates.
type Record[T any] interface {
	GetID() int
	WithID(id int) T
}

// uniqueKey extracts a value that must not repeat across records.
type uniqueKey[T any] struct {
	field string
	key   func(T) string
}

// Store is a concurrency-safe in-memory collection of one record kind.
// Ids start at 1, increase by one per successful create and are never reused,
// not even after Clear.
type Store[T Record[T]] struct {
	mu       sync.RWMutex
	name     string
	nextID   int
	records  map[int]T
	unique   []uniqueKey[T]
	observer Observer
}

// Option configures a Store.
type Option[T Record[T]] func(*Store[T])

// WithUnique rejects creates whose key collides with an existing record.
func WithUnique[T Record[T]](field string, key func(T) string) Option[T] {
	return func(s *Store[T]) {
		s.unique = append(s.unique, uniqueKey[T]{field: field, key: key})
	}
}

// WithObserver attaches an observer that is notified after every operation.
func WithObserver[T Record[T]](obs Observer) Option[T] {
	return func(s *Store[T]) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// New creates an empty store. name is the singular resource name ("item")
// used in errors and metrics.
func New[T Record[T]](name string, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:     name,
		nextID:   1,
		records:  make(map[int]T),
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the resource name.
func (s *Store[T]) Name() string {
	return s.name
}

// Create assigns the next id to rec and stores it. A unique-key collision
// returns a *ConflictError and consumes no id.
func (s *Store[T]) Create(rec T) (T, error) {
	start := time.Now()

	s.mu.Lock()
	for _, u := range s.unique {
		want := u.key(rec)
		for _, existing := range s.records {
			if u.key(existing) == want {
				s.mu.Unlock()
				err := &ConflictError{Resource: s.name, Field: u.field, Value: want}
				s.observer.OnError(s.name, "create", err)
				var zero T
				return zero, err
			}
		}
	}

	id := s.nextID
	s.nextID++
	rec = rec.WithID(id)
	s.records[id] = rec
	s.mu.Unlock()

	s.observer.OnCreate(s.name, id, time.Since(start))
	return rec, nil
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id int) (T, bool) {
	start := time.Now()

	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if ok {
		s.observer.OnRead(s.name, id, time.Since(start))
	}
	return rec, ok
}

// List returns every record in creation order. The result is never nil.
func (s *Store[T]) List() []T {
	start := time.Now()

	s.mu.RLock()
	out := make([]T, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	// Ids are handed out in increasing order, so id order is creation order.
	slices.SortFunc(out, func(a, b T) int { return a.GetID() - b.GetID() })

	s.observer.OnList(s.name, len(out), time.Since(start))
	return out
}

// Update replaces the record with apply(current). apply runs under the write
// lock and must not call back into the store. The id is preserved whatever
// apply returns.
func (s *Store[T]) Update(id int, apply func(T) T) (T, error) {
	start := time.Now()

	s.mu.Lock()
	cur, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		err := &NotFoundError{Resource: s.name, ID: id}
		s.observer.OnError(s.name, "update", err)
		var zero T
		return zero, err
	}
	next := apply(cur).WithID(id)
	s.records[id] = next
	s.mu.Unlock()

	s.observer.OnUpdate(s.name, id, time.Since(start))
	return next, nil
}

// Delete removes the record with the given id and returns it.
func (s *Store[T]) Delete(id int) (T, error) {
	start := time.Now()

	s.mu.Lock()
	rec, ok := s.records[id]
	if ok {
		delete(s.records, id)
	}
	s.mu.Unlock()

	if !ok {
		err := &NotFoundError{Resource: s.name, ID: id}
		s.observer.OnError(s.name, "delete", err)
		var zero T
		return zero, err
	}
	s.observer.OnDelete(s.name, id, time.Since(start))
	return rec, nil
}

// Clear removes every record and returns how many were removed. The id
// counter keeps running.
func (s *Store[T]) Clear() int {
	start := time.Now()

	s.mu.Lock()
	n := len(s.records)
	s.records = make(map[int]T)
	s.mu.Unlock()

	s.observer.OnClear(s.name, n, time.Since(start))
	return n
}

// Count returns the number of stored records.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
