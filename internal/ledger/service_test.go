package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int64) *int64       { return &i }
func floatPtr(f float64) *float64 { return &f }

func seededDoc() core.Document {
	return core.Document{
		IncomeCat:  []core.Category{{ID: 1, CatName: "Salary"}},
		ExpenseCat: []core.Category{{ID: 2, CatName: "Food"}},
	}
}

func newTestService(doc core.Document) *Service {
	svc := NewService(storage.NewMemoryStoreWith(doc), nil)
	base := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	return svc
}

func TestCreate_AppliesDefaults(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	txn, err := svc.Create(ctx, core.TransactionInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.Type != core.TypeExpense {
		t.Errorf("type = %q, want %q", txn.Type, core.TypeExpense)
	}
	if txn.Description != core.DefaultDescription {
		t.Errorf("description = %q, want %q", txn.Description, core.DefaultDescription)
	}
	if txn.ID == 0 {
		t.Error("id should be assigned")
	}
}

// Income round trip: create with an uppercase type and empty note, then
// read it back resolved against the income category list.
func TestCreateGet_IncomeRoundTrip(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	created, err := svc.Create(ctx, core.TransactionInput{
		TxnType:  strPtr("INCOME"),
		TxnCatID: intPtr(1),
		TxnAmt:   floatPtr(1000),
		TxnDate:  strPtr("2024-01-01"),
		TxnNote:  strPtr(""),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Type != core.TypeIncome {
		t.Errorf("type = %q, want %q", created.Type, core.TypeIncome)
	}
	if created.Description != core.DefaultDescription {
		t.Errorf("description = %q, want %q", created.Description, core.DefaultDescription)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category != "Salary" {
		t.Errorf("category = %q, want Salary", got.Category)
	}
	if got.Amount != 1000 || got.Date != "2024-01-01" {
		t.Errorf("unexpected round trip: %+v", got)
	}
}

func TestCreate_CollidingIDsAreBumped(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	// Frozen clock: every create sees the same millisecond.
	a, err := svc.Create(ctx, core.TransactionInput{})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := svc.Create(ctx, core.TransactionInput{})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.ID == b.ID {
		t.Errorf("ids collide: %d", a.ID)
	}
	if b.ID != a.ID+1 {
		t.Errorf("second id = %d, want %d", b.ID, a.ID+1)
	}
}

func TestGet_UnknownID(t *testing.T) {
	svc := newTestService(seededDoc())
	if _, err := svc.Get(context.Background(), 12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate_MergesOntoStored(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	created, err := svc.Create(ctx, core.TransactionInput{
		TxnType:  strPtr("expense"),
		TxnCatID: intPtr(2),
		TxnAmt:   floatPtr(50),
		TxnDate:  strPtr("2024-02-01"),
		TxnNote:  strPtr("groceries"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, core.TransactionInput{
		TxnType: strPtr("expense"),
		TxnAmt:  floatPtr(75),
		TxnNote: strPtr("groceries"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed: %d -> %d", created.ID, updated.ID)
	}
	if updated.Amount != 75 {
		t.Errorf("amount = %v, want 75", updated.Amount)
	}
	if updated.CategoryID != 2 || updated.Date != "2024-02-01" {
		t.Errorf("absent fields should keep stored values: %+v", updated)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	svc := newTestService(seededDoc())
	_, err := svc.Update(context.Background(), 99, core.TransactionInput{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete_ReturnsRemovedAndIsIdempotentlyNotFound(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	created, err := svc.Create(ctx, core.TransactionInput{TxnAmt: floatPtr(10)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := svc.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != created.ID {
		t.Errorf("removed id = %d, want %d", removed.ID, created.ID)
	}

	// Second delete and subsequent get both report not found.
	if _, err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
}

func TestList_PreservesInsertionOrderAcrossDeletes(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	a, _ := svc.Create(ctx, core.TransactionInput{TxnNote: strPtr("a")})
	b, _ := svc.Create(ctx, core.TransactionInput{TxnNote: strPtr("b")})
	if _, err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c, _ := svc.Create(ctx, core.TransactionInput{TxnNote: strPtr("c")})

	list, err := svc.List(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != b.ID || list[1].ID != c.ID {
		t.Errorf("order = [%d, %d], want [%d, %d]", list[0].ID, list[1].ID, b.ID, c.ID)
	}
}

func TestList_ResolvesUncategorized(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	if _, err := svc.Create(ctx, core.TransactionInput{TxnCatID: intPtr(777)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Category != core.UncategorizedName {
		t.Errorf("category = %q, want %q", list[0].Category, core.UncategorizedName)
	}
}

func TestList_AppliesFilter(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	svc.Create(ctx, core.TransactionInput{TxnType: strPtr("income"), TxnAmt: floatPtr(1000)})
	svc.Create(ctx, core.TransactionInput{TxnType: strPtr("expense"), TxnAmt: floatPtr(50)})

	list, err := svc.List(ctx, core.Filter{Type: core.TypeIncome})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Type != core.TypeIncome {
		t.Errorf("filtered list = %+v, want one income", list)
	}
}

func TestCategories(t *testing.T) {
	svc := newTestService(seededDoc())
	ctx := context.Background()

	income, err := svc.IncomeCategories(ctx)
	if err != nil {
		t.Fatalf("income categories: %v", err)
	}
	if len(income) != 1 || income[0].CatName != "Salary" {
		t.Errorf("income = %+v", income)
	}

	expense, err := svc.ExpenseCategories(ctx)
	if err != nil {
		t.Fatalf("expense categories: %v", err)
	}
	if len(expense) != 1 || expense[0].CatName != "Food" {
		t.Errorf("expense = %+v", expense)
	}
}

// failingStore saves fail; mutations must still succeed from the caller's
// point of view because persistence errors are logged, not surfaced.
type failingStore struct {
	doc core.Document
}

func (s *failingStore) Load(context.Context) (core.Document, error) { return s.doc, nil }
func (s *failingStore) Save(context.Context, core.Document) error {
	return errors.New("disk full")
}

func TestCreate_SurvivesSaveFailure(t *testing.T) {
	svc := NewService(&failingStore{doc: core.EmptyDocument()}, nil)

	txn, err := svc.Create(context.Background(), core.TransactionInput{TxnAmt: floatPtr(5)})
	if err != nil {
		t.Fatalf("create should swallow save failures, got %v", err)
	}
	if txn.Amount != 5 {
		t.Errorf("amount = %v, want 5", txn.Amount)
	}
}

// recordingPublisher captures events; failures must not surface either.
type recordingPublisher struct {
	ops []string
	ids []int64
	err error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, op string, id int64) error {
	p.ops = append(p.ops, op)
	p.ids = append(p.ids, id)
	return p.err
}

func TestMutations_PublishEvents(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(storage.NewMemoryStoreWith(seededDoc()), pub)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.TransactionInput{TxnAmt: floatPtr(1)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, created.ID, core.TransactionInput{TxnAmt: floatPtr(2)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{EventCreated, EventUpdated, EventDeleted}
	if len(pub.ops) != len(want) {
		t.Fatalf("published %d events, want %d", len(pub.ops), len(want))
	}
	for i, op := range want {
		if pub.ops[i] != op {
			t.Errorf("event[%d] = %q, want %q", i, pub.ops[i], op)
		}
		if pub.ids[i] != created.ID {
			t.Errorf("event[%d] id = %d, want %d", i, pub.ids[i], created.ID)
		}
	}
}

func TestMutations_SurvivePublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(storage.NewMemoryStoreWith(seededDoc()), pub)

	if _, err := svc.Create(context.Background(), core.TransactionInput{}); err != nil {
		t.Fatalf("create should swallow publish failures, got %v", err)
	}
}
