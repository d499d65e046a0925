package core

import (
	"sort"
	"time"
)

// Window selects the time span a summary covers.
type Window string

const (
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowAll     Window = "all"
)

// Valid reports whether w is a known window.
func (w Window) Valid() bool {
	switch w {
	case WindowWeekly, WindowMonthly, WindowAll:
		return true
	}
	return false
}

// CategoryAmount is an amount aggregated by resolved category name.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Summary is the aggregate view over a window: per-type totals, category
// breakdowns and a spending recommendation. Expense categories are ranked
// by amount, highest first; income categories keep first-seen order.
type Summary struct {
	Window       Window           `json:"window"`
	TotalIncome  float64          `json:"totalIncome"`
	TotalExpense float64          `json:"totalExpense"`
	Net          float64          `json:"net"`
	Income       []CategoryAmount `json:"income"`
	Expense      []CategoryAmount `json:"expense"`
	Recommendation string         `json:"recommendation"`
}

// windowStart returns the inclusive YYYY-MM-DD lower bound for the window,
// or "" for WindowAll. Weeks start on Sunday.
func windowStart(w Window, now time.Time) string {
	switch w {
	case WindowMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	case WindowWeekly:
		return now.AddDate(0, 0, -int(now.Weekday())).Format("2006-01-02")
	}
	return ""
}

// Summarize aggregates the document's transactions that fall inside the
// window. Category names are resolved against the document, so transactions
// with unknown category ids accumulate under UncategorizedName.
func Summarize(doc Document, w Window, now time.Time) Summary {
	start := windowStart(w, now)

	s := Summary{Window: w}
	incomeIdx := map[string]int{}
	expenseIdx := map[string]int{}

	for _, t := range doc.Transactions {
		if start != "" && t.Date < start {
			continue
		}
		name := doc.CategoryName(t.CategoryID, t.Type)
		switch t.Type {
		case TypeIncome:
			s.TotalIncome += t.Amount
			if i, ok := incomeIdx[name]; ok {
				s.Income[i].Amount += t.Amount
			} else {
				incomeIdx[name] = len(s.Income)
				s.Income = append(s.Income, CategoryAmount{Name: name, Amount: t.Amount})
			}
		default:
			s.TotalExpense += t.Amount
			if i, ok := expenseIdx[name]; ok {
				s.Expense[i].Amount += t.Amount
			} else {
				expenseIdx[name] = len(s.Expense)
				s.Expense = append(s.Expense, CategoryAmount{Name: name, Amount: t.Amount})
			}
		}
	}

	sort.SliceStable(s.Expense, func(i, j int) bool {
		return s.Expense[i].Amount > s.Expense[j].Amount
	})

	s.Net = s.TotalIncome - s.TotalExpense
	s.Recommendation = recommendation(s.TotalIncome, s.TotalExpense)
	return s
}

func recommendation(income, expense float64) string {
	switch {
	case income <= 0:
		return "No income data available."
	case expense > income:
		return "Your spending exceeds your income. Consider reducing expenses."
	default:
		return "You're managing your spending well. Keep it up!"
	}
}
