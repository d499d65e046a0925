package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"fintrack/internal/core"
)

// JSONFileStore persists the document as one pretty-printed JSON file with
// top-level keys incomeCat, expenseCat and transactions. Saves go through a
// temp file and rename so a crash mid-write never leaves a truncated
// document behind.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*JSONFileStore)(nil)

// NewJSONFileStore creates a store backed by the given file path, creating
// the parent directory if needed.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &JSONFileStore{path: path}, nil
}

// Load reads and parses the backing file. A missing file is the normal
// first-run state; an unparsable one is logged and treated the same way.
// Either way the caller gets the empty default document and a nil error.
func (s *JSONFileStore) Load(ctx context.Context) (core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Data file unreadable, starting from empty document",
				"path", s.path, "error", err)
		}
		return core.EmptyDocument(), nil
	}

	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.WarnContext(ctx, "Data file unparsable, starting from empty document",
			"path", s.path, "error", err)
		return core.EmptyDocument(), nil
	}

	if doc.IncomeCat == nil {
		doc.IncomeCat = []core.Category{}
	}
	if doc.ExpenseCat == nil {
		doc.ExpenseCat = []core.Category{}
	}
	if doc.Transactions == nil {
		doc.Transactions = []core.Transaction{}
	}
	return doc, nil
}

// Save replaces the backing file with the given document.
func (s *JSONFileStore) Save(ctx context.Context, doc core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = core.SchemaVersion
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
