package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"budgetbook/internal/core"
	"budgetbook/internal/retry"
)

func testPolicy() retry.Policy {
	return retry.Policy{MaxRetries: 2, InitialDelay: time.Millisecond}
}

func newTestCollection(t *testing.T) *Collection[core.Transaction] {
	t.Helper()
	return NewCollection[core.Transaction](NewMemory(), core.CollectionTransactions, testPolicy())
}

func TestCollectionAddGeneratesV4UUID(t *testing.T) {
	c := newTestCollection(t)

	id, err := c.Add(context.Background(), core.Transaction{Date: "2025-01-15", Amount: -45.50, Category: "Groceries"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("id %q is not a UUID: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Errorf("UUID version = %d, want 4", parsed.Version())
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	in := core.Transaction{Date: "2025-01-15", Amount: -45.50, Category: "Groceries", Notes: "weekly shop"}
	id, err := c.Add(ctx, in)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, ok, err := c.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !ok {
		t.Fatal("record not found after Add")
	}

	in.ID = id
	if got != in {
		t.Errorf("got %+v, want %+v", got, in)
	}
}

func TestCollectionGetByIDUnknown(t *testing.T) {
	c := newTestCollection(t)

	_, ok, err := c.GetByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("unknown id should not be an error, got %v", err)
	}
	if ok {
		t.Error("ok = true for unknown id")
	}
}

func TestCollectionGetAll(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	for _, amount := range []float64{-1, -2, -3} {
		if _, err := c.Add(ctx, core.Transaction{Date: "2025-01-15", Amount: amount, Category: "c"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	all, err := c.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}
}

func TestCollectionUpdatePartial(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	id, err := c.Add(ctx, core.Transaction{Date: "2025-01-15", Amount: -45.50, Category: "Groceries", Notes: "weekly"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := c.Update(ctx, id, map[string]any{"amount": -60.0}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _, err := c.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Amount != -60.0 {
		t.Errorf("amount = %v, want -60", got.Amount)
	}
	// Unspecified fields are untouched.
	if got.Date != "2025-01-15" || got.Category != "Groceries" || got.Notes != "weekly" {
		t.Errorf("unchanged fields were modified: %+v", got)
	}
	if got.ID != id {
		t.Errorf("id changed to %q", got.ID)
	}
}

func TestCollectionUpdateCannotChangeID(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	id, _ := c.Add(ctx, core.Transaction{Date: "2025-01-15", Amount: -1, Category: "c"})
	if err := c.Update(ctx, id, map[string]any{"id": "hijacked"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, ok, _ := c.GetByID(ctx, id)
	if !ok || got.ID != id {
		t.Errorf("id = %q, want %q", got.ID, id)
	}
}

func TestCollectionUpdateUnknownID(t *testing.T) {
	c := newTestCollection(t)

	err := c.Update(context.Background(), "no-such-id", map[string]any{"amount": 1.0})
	var notFound *core.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *core.NotFoundError, got %v", err)
	}
	if notFound.ID != "no-such-id" {
		t.Errorf("ID = %q, want no-such-id", notFound.ID)
	}
}

func TestCollectionDeleteIdempotent(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	id, _ := c.Add(ctx, core.Transaction{Date: "2025-01-15", Amount: -1, Category: "c"})
	if err := c.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, id); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
	if err := c.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete of unknown id should be a no-op, got %v", err)
	}
}

// flakyDriver fails every operation with a transient error until
// failures is exhausted, then delegates.
type flakyDriver struct {
	Driver
	failures int
}

func (d *flakyDriver) Insert(ctx context.Context, collection, id string, doc []byte) error {
	if d.failures > 0 {
		d.failures--
		return errors.New("connection reset by peer")
	}
	return d.Driver.Insert(ctx, collection, id, doc)
}

func TestCollectionRetriesTransientFailures(t *testing.T) {
	driver := &flakyDriver{Driver: NewMemory(), failures: 2}
	c := NewCollection[core.Transaction](driver, core.CollectionTransactions, testPolicy())

	id, err := c.Add(context.Background(), core.Transaction{Date: "2025-01-15", Amount: -1, Category: "c"})
	if err != nil {
		t.Fatalf("Add should survive two transient failures, got %v", err)
	}
	if id == "" {
		t.Error("empty id")
	}
}

func TestCollectionSurfacesExhaustedRetry(t *testing.T) {
	driver := &flakyDriver{Driver: NewMemory(), failures: 10}
	c := NewCollection[core.Transaction](driver, core.CollectionTransactions, testPolicy())

	_, err := c.Add(context.Background(), core.Transaction{Date: "2025-01-15", Amount: -1, Category: "c"})
	var storageErr *core.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected *core.StorageError, got %v", err)
	}
}

func TestCollectionQuotaFailure(t *testing.T) {
	driver := &fullDriver{Driver: NewMemory()}
	c := NewCollection[core.Transaction](driver, core.CollectionTransactions, testPolicy())

	_, err := c.Add(context.Background(), core.Transaction{Date: "2025-01-15", Amount: -1, Category: "c"})
	var storageErr *core.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected *core.StorageError, got %v", err)
	}
	if !storageErr.Quota {
		t.Error("Quota = false, want true")
	}
	if storageErr.Error() != core.QuotaMessage {
		t.Errorf("message = %q, want the quota message", storageErr.Error())
	}
}

type fullDriver struct {
	Driver
}

func (d *fullDriver) Insert(context.Context, string, string, []byte) error {
	return errors.New("database or disk is full")
}
