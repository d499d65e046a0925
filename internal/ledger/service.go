// Package ledger implements the transaction service: CRUD over the persisted
// document, category resolution at read time, and change-event publishing.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// ErrNotFound is returned when a referenced transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// Event operations published after successful mutations.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventPublisher receives change notifications after a mutation has been
// applied. Publish failures must never fail the originating request.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, op string, id int64) error
}

// Service is the transaction service. Every mutating operation runs a full
// load-mutate-save sequence under one mutex, so concurrent requests cannot
// lose updates to the shared document.
type Service struct {
	mu     sync.Mutex
	store  storage.Store
	events EventPublisher

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a service over the given store. events may be nil.
func NewService(store storage.Store, events EventPublisher) *Service {
	return &Service{store: store, events: events, now: time.Now}
}

// List returns every transaction passing the filter, in storage order, with
// category ids resolved to display names.
func (s *Service) List(ctx context.Context, f core.Filter) ([]core.ResolvedTransaction, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.ResolvedTransaction, 0, len(doc.Transactions))
	for _, t := range doc.Transactions {
		r := doc.Resolve(t)
		if f.IsZero() || f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Get returns one resolved transaction or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (core.ResolvedTransaction, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return core.ResolvedTransaction{}, err
	}
	for _, t := range doc.Transactions {
		if t.ID == id {
			return doc.Resolve(t), nil
		}
	}
	return core.ResolvedTransaction{}, ErrNotFound
}

// Create normalizes the input, assigns a millisecond-timestamp id and appends
// the record. The id is bumped while it collides with an existing one, which
// keeps ids unique even under rapid successive creates.
func (s *Service) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	txn := in.Normalize(core.Transaction{})
	txn.ID = s.now().UnixMilli()
	for doc.HasTransaction(txn.ID) {
		txn.ID++
	}

	doc.Transactions = append(doc.Transactions, txn)
	s.save(ctx, doc, log.OpCreate)
	s.publish(ctx, EventCreated, txn.ID)

	slog.InfoContext(ctx, "Transaction created",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, txn.ID,
		log.FieldTxnType, txn.Type,
		log.FieldCategoryID, txn.CategoryID,
		log.FieldAmount, txn.Amount)
	return txn, nil
}

// Update merges the input onto the stored record. Fields absent from the
// payload keep their stored value, except that type and description re-apply
// the create defaults. The id never changes.
func (s *Service) Update(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	for i, t := range doc.Transactions {
		if t.ID != id {
			continue
		}
		updated := in.Normalize(t)
		updated.ID = t.ID
		doc.Transactions[i] = updated
		s.save(ctx, doc, log.OpUpdate)
		s.publish(ctx, EventUpdated, id)

		slog.InfoContext(ctx, "Transaction updated",
			log.FieldComponent, log.ComponentLedger,
			log.FieldOperation, log.OpUpdate,
			log.FieldTransactionID, id)
		return updated, nil
	}
	return core.Transaction{}, ErrNotFound
}

// Delete removes the record by id and returns it, or ErrNotFound.
func (s *Service) Delete(ctx context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	for i, t := range doc.Transactions {
		if t.ID != id {
			continue
		}
		doc.Transactions = append(doc.Transactions[:i], doc.Transactions[i+1:]...)
		s.save(ctx, doc, log.OpDelete)
		s.publish(ctx, EventDeleted, id)

		slog.InfoContext(ctx, "Transaction deleted",
			log.FieldComponent, log.ComponentLedger,
			log.FieldOperation, log.OpDelete,
			log.FieldTransactionID, id)
		return t, nil
	}
	return core.Transaction{}, ErrNotFound
}

// IncomeCategories returns the income category collection verbatim.
func (s *Service) IncomeCategories(ctx context.Context) ([]core.Category, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.IncomeCat, nil
}

// ExpenseCategories returns the expense category collection verbatim.
func (s *Service) ExpenseCategories(ctx context.Context) ([]core.Category, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.ExpenseCat, nil
}

// Summarize aggregates transactions over the window.
func (s *Service) Summarize(ctx context.Context, w core.Window) (core.Summary, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(doc, w, s.now()), nil
}

// Counts reports collection sizes for readiness checks.
func (s *Service) Counts(ctx context.Context) (transactions, incomeCats, expenseCats int, err error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	return len(doc.Transactions), len(doc.IncomeCat), len(doc.ExpenseCat), nil
}

// save persists the mutated document. Write failures are logged and
// swallowed: the caller has already applied the mutation in memory and the
// HTTP response still reports the in-memory result.
func (s *Service) save(ctx context.Context, doc core.Document, op string) {
	if err := s.store.Save(ctx, doc); err != nil {
		slog.ErrorContext(ctx, "Failed to persist document",
			log.FieldComponent, log.ComponentLedger,
			log.FieldOperation, op,
			log.FieldError, err)
	}
}

func (s *Service) publish(ctx context.Context, op string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldComponent, log.ComponentLedger,
			log.FieldOperation, op,
			log.FieldTransactionID, id,
			log.FieldError, err)
	}
}
