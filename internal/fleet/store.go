package fleet

import (
	"context"
	"errors"
	"sync"
)

// ErrStoreClosed is returned by operations started after Close. Completions
// of requests already in flight are silently dropped instead.
var ErrStoreClosed = errors.New("store is closed")

// StoreFuncs binds a Store to one resource's endpoints.
type StoreFuncs[T Entity] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, payload any) (T, error)
	Update func(ctx context.Context, id string, partial Partial) (T, error)
	Remove func(ctx context.Context, id string) error
}

// Store holds one resource collection plus its CRUD operations with uniform
// loading/error semantics. Each instance owns an independent copy of server
// state; two stores over the same resource can diverge until each reloads.
//
// Mutations reconcile the local collection from the server response only
// after it arrives; nothing is applied optimistically, so a failed call
// leaves the collection byte-for-byte as it was. Overlapping operations are
// not queued or coalesced: responses apply in arrival order, last write wins.
type Store[T Entity] struct {
	name  string
	funcs StoreFuncs[T]
	log   Logger

	mu       sync.Mutex
	items    []T
	inflight int
	err      error
	closed   bool
}

// NewStore creates a store bound to the given endpoint functions.
// name identifies the resource in logs.
func NewStore[T Entity](name string, funcs StoreFuncs[T], log Logger) *Store[T] {
	if log == nil {
		log = NewNopLogger()
	}
	return &Store[T]{name: name, funcs: funcs, log: log}
}

// Items returns a snapshot of the collection in insertion order: server
// response order after a load, then append order for creates.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items currently held.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Find returns the item with the given id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Loading reports whether at least one operation owned by this store is
// still in flight.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Err returns the failure of the most recent failed operation, or nil.
// A successful operation clears it.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close detaches the store from its owner. In-flight completions become
// no-ops: a late-arriving response never mutates a closed store.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// begin marks an operation as in flight. Returns false if the store is
// already closed.
func (s *Store[T]) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.inflight++
	return true
}

// settle records the outcome of an operation and applies the reconciliation
// under the lock. apply is skipped when the store closed mid-flight or when
// the operation failed.
func (s *Store[T]) settle(opErr error, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.closed {
		return
	}
	if opErr != nil {
		s.err = opErr
		return
	}
	s.err = nil
	if apply != nil {
		apply()
	}
}

// Load fetches the collection and replaces the items wholesale.
// A failed load keeps the previous items, so a broken refresh never blanks
// an already-rendered list.
func (s *Store[T]) Load(ctx context.Context) error {
	if !s.begin() {
		return ErrStoreClosed
	}
	fetched, err := s.funcs.List(ctx)
	s.settle(err, func() {
		s.items = fetched
	})
	if err != nil {
		s.log.Error("load failed", "resource", s.name, "error", err)
		return err
	}
	s.log.Debug("loaded", "resource", s.name, "count", len(fetched))
	return nil
}

// Create posts the payload and appends the server-returned record (which
// carries the server-assigned id) to the collection. The error is both
// stored and returned so a form can keep its own submission state.
func (s *Store[T]) Create(ctx context.Context, payload any) (T, error) {
	var zero T
	if !s.begin() {
		return zero, ErrStoreClosed
	}
	created, err := s.funcs.Create(ctx, payload)
	s.settle(err, func() {
		s.items = append(s.items, created)
	})
	if err != nil {
		s.log.Error("create failed", "resource", s.name, "error", err)
		return zero, err
	}
	s.log.Info("created", "resource", s.name, "id", created.EntityID())
	return created, nil
}

// Update puts the partial payload and replaces the matching item (by id)
// with the server-returned record. All other items are untouched.
func (s *Store[T]) Update(ctx context.Context, id string, partial Partial) (T, error) {
	var zero T
	if !s.begin() {
		return zero, ErrStoreClosed
	}
	updated, err := s.funcs.Update(ctx, id, partial)
	s.settle(err, func() {
		for i, it := range s.items {
			if it.EntityID() == id {
				s.items[i] = updated
			}
		}
	})
	if err != nil {
		s.log.Error("update failed", "resource", s.name, "id", id, "error", err)
		return zero, err
	}
	s.log.Info("updated", "resource", s.name, "id", id)
	return updated, nil
}

// Remove deletes by id and filters the item out of the collection.
// Deleting an id the server no longer knows is a terminal error and leaves
// the collection unchanged.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	if !s.begin() {
		return ErrStoreClosed
	}
	err := s.funcs.Remove(ctx, id)
	s.settle(err, func() {
		kept := s.items[:0]
		for _, it := range s.items {
			if it.EntityID() != id {
				kept = append(kept, it)
			}
		}
		s.items = kept
	})
	if err != nil {
		s.log.Error("remove failed", "resource", s.name, "id", id, "error", err)
		return err
	}
	s.log.Info("removed", "resource", s.name, "id", id)
	return nil
}
