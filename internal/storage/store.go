package storage

import (
	"context"

	"fintrack/internal/core"
)

// Store is the whole-document persistence contract. Implementations load and
// replace the full document as one unit; there is no partial update. The
// ledger service serializes load-mutate-save sequences, so implementations
// only need to be safe against concurrent readers.
type Store interface {
	// Load returns the current document. File-backed implementations fail
	// soft: a missing or unparsable backing file yields the empty default
	// document, never an error the caller has to handle.
	Load(ctx context.Context) (core.Document, error)

	// Save replaces the persisted document.
	Save(ctx context.Context, doc core.Document) error
}
