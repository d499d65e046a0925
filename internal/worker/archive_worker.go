// Package worker consumes transaction change events and maintains the
// SQLite archive, with optional spreadsheet export.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// Exporter mirrors archived transactions somewhere external. Optional.
type Exporter interface {
	Append(ctx context.Context, t core.ResolvedTransaction) error
}

// ArchiveWorker applies change events to the archive database.
type ArchiveWorker struct {
	store    storage.Store
	archive  *storage.SQLiteArchive
	exporter Exporter
}

// NewArchiveWorker creates a worker. exporter may be nil.
func NewArchiveWorker(store storage.Store, archive *storage.SQLiteArchive, exporter Exporter) *ArchiveWorker {
	return &ArchiveWorker{store: store, archive: archive, exporter: exporter}
}

// HandleEvent processes one change event. The document is re-read on every
// event so the archive always reflects current state even when events arrive
// out of order.
func (w *ArchiveWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldOperation, event.Op,
		applog.FieldTransactionID, event.ID)

	if event.Op == ledger.EventDeleted {
		if err := w.archive.Delete(ctx, event.ID); err != nil {
			return fmt.Errorf("archive delete %d: %w", event.ID, err)
		}
		return nil
	}

	doc, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	txn, found := findTransaction(doc, event.ID)
	if !found {
		// Created then deleted before we got here. Drop any stale row.
		if err := w.archive.Delete(ctx, event.ID); err != nil {
			return fmt.Errorf("archive delete %d: %w", event.ID, err)
		}
		return nil
	}

	resolved := doc.Resolve(txn)
	if err := w.archive.Upsert(ctx, resolved); err != nil {
		return fmt.Errorf("archive upsert %d: %w", event.ID, err)
	}

	if w.exporter != nil && event.Op == ledger.EventCreated {
		if err := w.exporter.Append(ctx, resolved); err != nil {
			// Export is best effort. The archive row is already written.
			slog.WarnContext(ctx, "Failed exporting transaction",
				applog.FieldComponent, applog.ComponentSheets,
				applog.FieldError, err,
				applog.FieldTransactionID, event.ID)
		}
	}
	return nil
}

// Reconcile makes the archive match the document: missing transactions are
// inserted, rows for removed transactions are deleted. Run at startup to
// recover from events missed while the worker was down.
func (w *ArchiveWorker) Reconcile(ctx context.Context) error {
	doc, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	archived, err := w.archive.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list archived ids: %w", err)
	}
	current := make(map[int64]bool, len(doc.Transactions))

	var upserts, deletes int
	for _, t := range doc.Transactions {
		current[t.ID] = true
		if err := w.archive.Upsert(ctx, doc.Resolve(t)); err != nil {
			return fmt.Errorf("archive upsert %d: %w", t.ID, err)
		}
		upserts++
	}
	for _, id := range archived {
		if current[id] {
			continue
		}
		if err := w.archive.Delete(ctx, id); err != nil {
			return fmt.Errorf("archive delete %d: %w", id, err)
		}
		deletes++
	}

	slog.InfoContext(ctx, "Archive reconciled",
		applog.FieldComponent, applog.ComponentWorker,
		"upserts", upserts,
		"deletes", deletes)
	return nil
}

func findTransaction(doc core.Document, id int64) (core.Transaction, bool) {
	for _, t := range doc.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}
