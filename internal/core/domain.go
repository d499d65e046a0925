package core

import "strings"

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

const (
	// DefaultDescription is stored when a payload carries no note.
	DefaultDescription = "No notes"
	// UncategorizedName is the display name resolved for a category id
	// that does not exist in the matching category list.
	UncategorizedName = "Uncategorized"
	// SchemaVersion of the persisted document layout.
	SchemaVersion = 1
)

type (
	// Category is a named bucket transactions are classified under,
	// scoped to income or expense. Categories are seeded externally and
	// read-only from this service's perspective.
	Category struct {
		ID      int64  `json:"id"`
		CatName string `json:"catName"`
	}

	// Transaction is one recorded income or expense event.
	Transaction struct {
		ID          int64   `json:"id"`
		Type        string  `json:"type"`
		CategoryID  int64   `json:"categoryId"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"` // YYYY-MM-DD
		Description string  `json:"description"`
	}

	// ResolvedTransaction is a transaction with its category id resolved
	// to a display name, the shape returned by list and get endpoints.
	ResolvedTransaction struct {
		Transaction
		Category string `json:"category"`
	}

	// Document is the full persisted state, loaded and replaced as one unit.
	Document struct {
		SchemaVersion int           `json:"schemaVersion,omitempty"`
		IncomeCat     []Category    `json:"incomeCat"`
		ExpenseCat    []Category    `json:"expenseCat"`
		Transactions  []Transaction `json:"transactions"`
	}

	// TransactionInput is the wire payload for create and update.
	// Pointer fields distinguish absent from zero so updates can merge.
	TransactionInput struct {
		TxnType  *string  `json:"txnType"`
		TxnCatID *int64   `json:"txnCatId"`
		TxnAmt   *float64 `json:"txnAmt"`
		TxnDate  *string  `json:"txnDate"`
		TxnNote  *string  `json:"txnNote"`
	}
)

// EmptyDocument returns the default document used when the backing file is
// missing or unreadable.
func EmptyDocument() Document {
	return Document{
		SchemaVersion: SchemaVersion,
		IncomeCat:     []Category{},
		ExpenseCat:    []Category{},
		Transactions:  []Transaction{},
	}
}

// CategoryName looks up the category of the given type by id and returns its
// display name, or UncategorizedName if no match exists.
func (d Document) CategoryName(categoryID int64, txnType string) string {
	list := d.ExpenseCat
	if txnType == TypeIncome {
		list = d.IncomeCat
	}
	for _, c := range list {
		if c.ID == categoryID {
			return c.CatName
		}
	}
	return UncategorizedName
}

// Resolve attaches the display name of the transaction's category.
func (d Document) Resolve(t Transaction) ResolvedTransaction {
	return ResolvedTransaction{
		Transaction: t,
		Category:    d.CategoryName(t.CategoryID, t.Type),
	}
}

// HasTransaction reports whether a transaction with the given id exists.
func (d Document) HasTransaction(id int64) bool {
	for _, t := range d.Transactions {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Normalize merges the input onto an existing record and applies the default
// rules shared by create and update: a missing type falls back to "expense"
// (and is lowercased otherwise), an absent or empty note becomes
// DefaultDescription. Category id, amount and date keep the stored value when
// absent from the payload. The id is always taken from existing.
//
// Amount sign, date format and category existence are deliberately not
// validated here; unresolvable category ids surface as UncategorizedName at
// read time instead of rejecting the write.
func (in TransactionInput) Normalize(existing Transaction) Transaction {
	out := existing

	if in.TxnType != nil && strings.TrimSpace(*in.TxnType) != "" {
		out.Type = strings.ToLower(strings.TrimSpace(*in.TxnType))
	} else {
		out.Type = TypeExpense
	}

	if in.TxnCatID != nil {
		out.CategoryID = *in.TxnCatID
	}
	if in.TxnAmt != nil {
		out.Amount = *in.TxnAmt
	}
	if in.TxnDate != nil {
		out.Date = strings.TrimSpace(*in.TxnDate)
	}

	if in.TxnNote != nil && strings.TrimSpace(*in.TxnNote) != "" {
		out.Description = strings.TrimSpace(*in.TxnNote)
	} else {
		out.Description = DefaultDescription
	}

	return out
}
