// Package memory provides an in-process transaction journal.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ledger/internal/core"
)

type Store struct {
	mu    sync.Mutex
	seen  map[uuid.UUID]struct{}
	items []core.Transaction
}

func New() *Store {
	return &Store{seen: make(map[uuid.UUID]struct{})}
}

// Record appends txn in arrival order. Repeated ids are ignored.
func (s *Store) Record(_ context.Context, txn core.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[txn.ID]; ok {
		return nil
	}
	s.seen[txn.ID] = struct{}{}
	s.items = append(s.items, txn)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (s *Store) Entries() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.items...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Close() error { return nil }
