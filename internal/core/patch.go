package core

// TransactionPatch carries the fields of a partial transaction update.
// Nil means "leave unchanged"; only supplied fields are written back.
type TransactionPatch struct {
	Date     *string  `json:"date,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Category *string  `json:"category,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

func (p TransactionPatch) IsEmpty() bool {
	return p.Date == nil && p.Amount == nil && p.Category == nil && p.Notes == nil
}

// ApplyTo merges the patch over an existing record. The result is used
// to validate the post-update view; it is not what gets persisted.
func (p TransactionPatch) ApplyTo(t Transaction) Transaction {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}

// BudgetPatch carries the fields of a partial budget update.
type BudgetPatch struct {
	Month    *string  `json:"month,omitempty"`
	Category *string  `json:"category,omitempty"`
	Limit    *float64 `json:"limit,omitempty"`
}

func (p BudgetPatch) IsEmpty() bool {
	return p.Month == nil && p.Category == nil && p.Limit == nil
}

// ChangesKey reports whether the patch touches the (month, category)
// uniqueness key, which decides whether the duplicate check runs.
func (p BudgetPatch) ChangesKey() bool {
	return p.Month != nil || p.Category != nil
}

// ApplyTo merges the patch over an existing record for validation.
func (p BudgetPatch) ApplyTo(b Budget) Budget {
	if p.Month != nil {
		b.Month = *p.Month
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Limit != nil {
		b.Limit = *p.Limit
	}
	return b
}
