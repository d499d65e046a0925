package storage

import (
	"context"
	"sync"

	"fintrack/internal/core"
)

// MemoryStore keeps the document in process memory. It backs the "memory"
// backend and the tests; nothing survives a restart.
type MemoryStore struct {
	mu  sync.Mutex
	doc core.Document
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: core.EmptyDocument()}
}

// NewMemoryStoreWith returns a store seeded with the given document.
func NewMemoryStoreWith(doc core.Document) *MemoryStore {
	return &MemoryStore{doc: clone(doc)}
}

// Load returns a copy of the current document.
func (s *MemoryStore) Load(_ context.Context) (core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.doc), nil
}

// Save replaces the current document.
func (s *MemoryStore) Save(_ context.Context, doc core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = clone(doc)
	return nil
}

// clone copies slices so callers cannot mutate stored state through aliases.
func clone(doc core.Document) core.Document {
	out := doc
	out.IncomeCat = append([]core.Category{}, doc.IncomeCat...)
	out.ExpenseCat = append([]core.Category{}, doc.ExpenseCat...)
	out.Transactions = append([]core.Transaction{}, doc.Transactions...)
	return out
}
