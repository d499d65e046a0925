package worker

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/storage"
)

func newTestArchive(t *testing.T) *storage.SQLiteArchive {
	t.Helper()
	archive, err := storage.NewSQLiteArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { archive.Close() })
	return archive
}

func workerDoc() core.Document {
	return core.Document{
		IncomeCat:  []core.Category{{ID: 1, CatName: "Salary"}},
		ExpenseCat: []core.Category{{ID: 2, CatName: "Food"}},
		Transactions: []core.Transaction{
			{ID: 100, Type: core.TypeIncome, CategoryID: 1, Amount: 1000, Date: "2024-01-01", Description: "January"},
			{ID: 200, Type: core.TypeExpense, CategoryID: 2, Amount: 50, Date: "2024-01-02", Description: core.DefaultDescription},
		},
	}
}

func TestHandleEvent_CreatedArchivesResolvedRecord(t *testing.T) {
	archive := newTestArchive(t)
	store := storage.NewMemoryStoreWith(workerDoc())
	w := NewArchiveWorker(store, archive, nil)
	ctx := context.Background()

	event := amqp.NewTransactionEvent(ledger.EventCreated, 100)
	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	n, err := archive.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("archived rows = %d, want 1", n)
	}
}

func TestHandleEvent_DeletedRemovesRow(t *testing.T) {
	archive := newTestArchive(t)
	store := storage.NewMemoryStoreWith(workerDoc())
	w := NewArchiveWorker(store, archive, nil)
	ctx := context.Background()

	if err := w.HandleEvent(ctx, amqp.NewTransactionEvent(ledger.EventCreated, 100)); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := w.HandleEvent(ctx, amqp.NewTransactionEvent(ledger.EventDeleted, 100)); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	n, _ := archive.Count(ctx)
	if n != 0 {
		t.Errorf("archived rows = %d, want 0", n)
	}
}

func TestHandleEvent_VanishedTransactionIsDropped(t *testing.T) {
	archive := newTestArchive(t)
	store := storage.NewMemoryStoreWith(workerDoc())
	w := NewArchiveWorker(store, archive, nil)
	ctx := context.Background()

	// Event references an id the document no longer contains.
	if err := w.HandleEvent(ctx, amqp.NewTransactionEvent(ledger.EventUpdated, 999)); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	n, _ := archive.Count(ctx)
	if n != 0 {
		t.Errorf("archived rows = %d, want 0", n)
	}
}

func TestReconcile_SyncsBothDirections(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	// A stale row for a transaction the document no longer has.
	stale := core.ResolvedTransaction{
		Transaction: core.Transaction{ID: 999, Type: core.TypeExpense, Amount: 1, Date: "2023-01-01"},
		Category:    core.UncategorizedName,
	}
	if err := archive.Upsert(ctx, stale); err != nil {
		t.Fatalf("seed stale row: %v", err)
	}

	store := storage.NewMemoryStoreWith(workerDoc())
	w := NewArchiveWorker(store, archive, nil)
	if err := w.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	ids, err := archive.ListIDs(ctx)
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	got := map[int64]bool{}
	for _, id := range ids {
		got[id] = true
	}
	if !got[100] || !got[200] || got[999] {
		t.Errorf("archived ids = %v, want [100 200]", ids)
	}
}

// captureExporter records appended transactions.
type captureExporter struct {
	appended []core.ResolvedTransaction
}

func (e *captureExporter) Append(_ context.Context, t core.ResolvedTransaction) error {
	e.appended = append(e.appended, t)
	return nil
}

func TestHandleEvent_ExportsOnCreateOnly(t *testing.T) {
	archive := newTestArchive(t)
	store := storage.NewMemoryStoreWith(workerDoc())
	exp := &captureExporter{}
	w := NewArchiveWorker(store, archive, exp)
	ctx := context.Background()

	if err := w.HandleEvent(ctx, amqp.NewTransactionEvent(ledger.EventCreated, 100)); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := w.HandleEvent(ctx, amqp.NewTransactionEvent(ledger.EventUpdated, 100)); err != nil {
		t.Fatalf("update event: %v", err)
	}

	if len(exp.appended) != 1 {
		t.Fatalf("exported = %d, want 1", len(exp.appended))
	}
	if exp.appended[0].Category != "Salary" {
		t.Errorf("exported category = %q, want Salary", exp.appended[0].Category)
	}
}
