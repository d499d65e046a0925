package core

import (
	"strconv"
	"strings"
)

// Filter narrows a transaction list with O(n) predicate scans. The zero
// value matches everything. Dates are compared lexically, which orders
// correctly for YYYY-MM-DD strings; malformed stored dates simply fail the
// range checks they cannot satisfy.
type Filter struct {
	Search    string
	MinAmount *float64
	MaxAmount *float64
	StartDate string
	EndDate   string
	Type      string
}

// IsZero reports whether the filter matches every transaction.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.MinAmount == nil && f.MaxAmount == nil &&
		f.StartDate == "" && f.EndDate == "" && f.Type == ""
}

// Matches reports whether the resolved transaction passes every criterion.
// The free-text search matches the resolved category name, the date string,
// or the amount rendered as text.
func (f Filter) Matches(t ResolvedTransaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.MinAmount != nil && t.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
		return false
	}
	if f.StartDate != "" && t.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && t.Date > f.EndDate {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Category), q) &&
			!strings.Contains(t.Date, f.Search) &&
			!strings.Contains(strconv.FormatFloat(t.Amount, 'f', -1, 64), f.Search) {
			return false
		}
	}
	return true
}
