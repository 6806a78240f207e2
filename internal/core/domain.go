package core

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// CollectionTransactions and CollectionBudgets are the names of the
	// persisted collections in the document store.
	CollectionTransactions = "transactions"
	CollectionBudgets      = "budgets"

	MaxCategoryLength = 50
	MaxNotesLength    = 500
)

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

type (
	// Transaction is a dated, signed monetary record. Positive amounts
	// are income, negative amounts are expenses.
	Transaction struct {
		ID       string  `json:"id"`
		Date     string  `json:"date"` // YYYY-MM-DD
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
		Notes    string  `json:"notes,omitempty"`
	}

	// Budget is a spending ceiling for one category in one calendar month.
	Budget struct {
		ID       string  `json:"id"`
		Month    string  `json:"month"` // YYYY-MM
		Category string  `json:"category"`
		Limit    float64 `json:"limit"`
	}

	// BudgetWithRemaining annotates a Budget with the spend figure derived
	// from the live transaction set. It is computed on every read and
	// never persisted.
	BudgetWithRemaining struct {
		Budget
		Spent     float64 `json:"spent"`
		Remaining float64 `json:"remaining"`
	}

	// CategoryTotal is an aggregation output: total expense per category.
	CategoryTotal struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
	}

	// SpendingPoint is one bucket of a spending time series.
	SpendingPoint struct {
		Bucket string  `json:"bucket"` // YYYY-MM-DD or YYYY-MM depending on grouping
		Total  float64 `json:"total"`
	}
)

// IsExpense reports whether the transaction reduces the balance.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// ValidDate reports whether s is a YYYY-MM-DD string naming a real
// calendar day.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidMonth reports whether s is a YYYY-MM string naming a real month.
func ValidMonth(s string) bool {
	if !monthRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// Validate checks the transaction fields in order and returns the first
// violation as a *ValidationError. Length limits are checked on the raw
// input, before any trimming is applied.
func (t Transaction) Validate() error {
	if t.Date == "" {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if !ValidDate(t.Date) {
		return &ValidationError{Field: "date", Message: "date must be a valid YYYY-MM-DD date"}
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return &ValidationError{Field: "amount", Message: "amount must be a finite number"}
	}
	if strings.TrimSpace(t.Category) == "" {
		return &ValidationError{Field: "category", Message: "category is required"}
	}
	if utf8.RuneCountInString(t.Category) > MaxCategoryLength {
		return &ValidationError{Field: "category", Message: "category must be 50 characters or less"}
	}
	if utf8.RuneCountInString(t.Notes) > MaxNotesLength {
		return &ValidationError{Field: "notes", Message: "notes must be 500 characters or less"}
	}
	return nil
}

// Validate checks the budget fields in order and returns the first
// violation as a *ValidationError. The limit must be strictly positive,
// unlike a transaction amount which may carry either sign.
func (b Budget) Validate() error {
	if b.Month == "" {
		return &ValidationError{Field: "month", Message: "month is required"}
	}
	if !ValidMonth(b.Month) {
		return &ValidationError{Field: "month", Message: "month must be a valid YYYY-MM month"}
	}
	if strings.TrimSpace(b.Category) == "" {
		return &ValidationError{Field: "category", Message: "category is required"}
	}
	if utf8.RuneCountInString(b.Category) > MaxCategoryLength {
		return &ValidationError{Field: "category", Message: "category must be 50 characters or less"}
	}
	if math.IsNaN(b.Limit) || math.IsInf(b.Limit, 0) {
		return &ValidationError{Field: "limit", Message: "limit must be a finite number"}
	}
	if b.Limit <= 0 {
		return &ValidationError{Field: "limit", Message: "limit must be greater than zero"}
	}
	return nil
}

// SameBudgetKey reports whether two budgets occupy the same
// (month, category) slot. Categories compare case-insensitively, which
// is the rule the duplicate check applies at write time.
func SameBudgetKey(a, b Budget) bool {
	return a.Month == b.Month && strings.EqualFold(strings.TrimSpace(a.Category), strings.TrimSpace(b.Category))
}
