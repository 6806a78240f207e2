// Package impexp moves transactions in and out as CSV. It is a thin
// serialization wrapper: every imported row goes through the same
// validated service path as a form submission, and one bad row never
// stops the rows after it.
package impexp

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"budgetbook/internal/core"
	"budgetbook/internal/services"
)

// Header is the CSV header for transaction exports.
const Header = "date,amount,category,notes"

const (
	numFields   = 4
	colDate     = 0
	colAmount   = 1
	colCategory = 2
	colNotes    = 3
)

// RowError attributes an import failure to its row. Row numbers are
// 1-based and count the header.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ImportResult summarizes a batched import.
type ImportResult struct {
	Imported int
	Errors   []RowError
}

// ExportTransactions writes all transactions as CSV, sorted by date so
// exports are stable across runs.
func ExportTransactions(ctx context.Context, w io.Writer, svc *services.TransactionService) error {
	transactions, err := svc.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}
	sort.Slice(transactions, func(i, j int) bool {
		if transactions[i].Date != transactions[j].Date {
			return transactions[i].Date < transactions[j].Date
		}
		return transactions[i].ID < transactions[j].ID
	})

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, t := range transactions {
		rec := []string{
			t.Date,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.Category,
			t.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return cw.Error()
}

// ImportTransactions reads CSV rows and adds each through the
// transaction service. Row-level failures are collected, not fatal: the
// batch always runs to the end of the input.
func ImportTransactions(ctx context.Context, r io.Reader, svc *services.TransactionService) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row length errors are per-row, not fatal

	var result ImportResult
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err})
			continue
		}
		if row == 1 && isHeader(rec) {
			continue
		}

		t, err := unmarshalRow(rec)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err})
			continue
		}

		if _, err := svc.Add(ctx, t); err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func unmarshalRow(rec []string) (core.Transaction, error) {
	if len(rec) < numFields-1 {
		return core.Transaction{}, fmt.Errorf("expected at least %d fields, got %d", numFields-1, len(rec))
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(rec[colAmount]), 64)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q", rec[colAmount])
	}

	t := core.Transaction{
		Date:     strings.TrimSpace(rec[colDate]),
		Amount:   amount,
		Category: rec[colCategory],
	}
	if len(rec) > colNotes {
		t.Notes = rec[colNotes]
	}
	return t, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[colDate]), "date")
}
