package impexp

import (
	"context"
	"strings"
	"testing"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/retry"
	"budgetbook/internal/services"
	"budgetbook/internal/storage"
)

func newService() *services.TransactionService {
	policy := retry.Policy{MaxRetries: 2, InitialDelay: time.Millisecond}
	store := storage.NewCollection[core.Transaction](storage.NewMemory(), core.CollectionTransactions, policy)
	return services.NewTransactionService(store, nil)
}

func TestImportTransactions(t *testing.T) {
	svc := newService()
	input := strings.Join([]string{
		"date,amount,category,notes",
		"2025-01-15,-45.50,Groceries,weekly shop",
		"2025-01-16,-12,Transport,",
	}, "\n")

	result, err := ImportTransactions(context.Background(), strings.NewReader(input), svc)
	if err != nil {
		t.Fatalf("ImportTransactions: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("imported = %d, want 2", result.Imported)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v, want none", result.Errors)
	}

	all, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("persisted %d records, want 2", len(all))
	}
}

func TestImportCollectsRowErrorsAndContinues(t *testing.T) {
	svc := newService()
	input := strings.Join([]string{
		"date,amount,category,notes",
		"2025-01-15,-45.50,Groceries,ok",
		"2025-01-16,not-a-number,Transport,bad amount",
		"not-a-date,-10,Transport,bad date",
		"2025-01-17,-8.20,Coffee,ok",
	}, "\n")

	result, err := ImportTransactions(context.Background(), strings.NewReader(input), svc)
	if err != nil {
		t.Fatalf("ImportTransactions: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("imported = %d, want 2", result.Imported)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("errors = %v, want 2", result.Errors)
	}
	// Row numbers are 1-based and count the header.
	if result.Errors[0].Row != 3 || result.Errors[1].Row != 4 {
		t.Errorf("error rows = %d, %d, want 3, 4", result.Errors[0].Row, result.Errors[1].Row)
	}
}

func TestImportWithoutHeader(t *testing.T) {
	svc := newService()
	input := "2025-01-15,-45.50,Groceries,weekly shop\n"

	result, err := ImportTransactions(context.Background(), strings.NewReader(input), svc)
	if err != nil {
		t.Fatalf("ImportTransactions: %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 0 {
		t.Errorf("result = %+v, want one clean import", result)
	}
}

func TestImportEmptyInput(t *testing.T) {
	svc := newService()

	result, err := ImportTransactions(context.Background(), strings.NewReader(""), svc)
	if err != nil {
		t.Fatalf("ImportTransactions: %v", err)
	}
	if result.Imported != 0 || len(result.Errors) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestExportTransactions(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	// Added out of date order; the export sorts.
	seed := []core.Transaction{
		{Date: "2025-01-16", Amount: -12, Category: "Transport"},
		{Date: "2025-01-15", Amount: -45.50, Category: "Groceries", Notes: "weekly shop"},
	}
	for _, tx := range seed {
		if _, err := svc.Add(ctx, tx); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	var buf strings.Builder
	if err := ExportTransactions(ctx, &buf, svc); err != nil {
		t.Fatalf("ExportTransactions: %v", err)
	}

	want := strings.Join([]string{
		"date,amount,category,notes",
		"2025-01-15,-45.5,Groceries,weekly shop",
		"2025-01-16,-12,Transport,",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("export =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newService()
	ctx := context.Background()
	if _, err := src.Add(ctx, core.Transaction{Date: "2025-01-15", Amount: -45.50, Category: "Groceries", Notes: "weekly shop"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	var buf strings.Builder
	if err := ExportTransactions(ctx, &buf, src); err != nil {
		t.Fatalf("ExportTransactions: %v", err)
	}

	dst := newService()
	result, err := ImportTransactions(ctx, strings.NewReader(buf.String()), dst)
	if err != nil {
		t.Fatalf("ImportTransactions: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("imported = %d, want 1", result.Imported)
	}

	all, _ := dst.GetAll(ctx)
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
	got := all[0]
	if got.Date != "2025-01-15" || got.Amount != -45.50 || got.Category != "Groceries" || got.Notes != "weekly shop" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
