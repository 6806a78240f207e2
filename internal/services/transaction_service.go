package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// ChangePublisher announces successful writes to interested consumers.
// Publishing is best-effort: a failed publish never fails the write.
type ChangePublisher interface {
	PublishRecordChange(ctx context.Context, collection, id, action string) error
}

// TransactionService validates and sanitizes transaction records before
// delegating to the storage adapter. Validation here is fail-loud: a
// rejected write is never silently dropped.
type TransactionService struct {
	store  *storage.Collection[core.Transaction]
	events ChangePublisher
}

func NewTransactionService(store *storage.Collection[core.Transaction], events ChangePublisher) *TransactionService {
	return &TransactionService{store: store, events: events}
}

// Add validates the transaction, trims category and notes, persists it,
// and returns the record with its generated identifier attached.
func (s *TransactionService) Add(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.ID = ""
	t.Category = strings.TrimSpace(t.Category)
	t.Notes = strings.TrimSpace(t.Notes)

	id, err := s.store.Add(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction created",
		"id", t.ID,
		"date", t.Date,
		"amount", t.Amount,
		"category", t.Category)

	s.publish(ctx, t.ID, amqp.ActionCreated)
	return t, nil
}

// Update merges the patch over the existing record for validation, then
// writes back only the supplied fields. An empty patch is rejected; an
// unknown identifier fails with *core.NotFoundError.
func (s *TransactionService) Update(ctx context.Context, id string, patch core.TransactionPatch) error {
	if patch.IsEmpty() {
		return &core.ValidationError{Message: "no fields to update"}
	}

	existing, ok, err := s.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch transaction: %w", err)
	}
	if !ok {
		return &core.NotFoundError{Kind: "transaction", ID: id}
	}

	if err := patch.ApplyTo(existing).Validate(); err != nil {
		return err
	}

	fields := make(map[string]any)
	if patch.Date != nil {
		fields["date"] = *patch.Date
	}
	if patch.Amount != nil {
		fields["amount"] = *patch.Amount
	}
	if patch.Category != nil {
		fields["category"] = strings.TrimSpace(*patch.Category)
	}
	if patch.Notes != nil {
		fields["notes"] = strings.TrimSpace(*patch.Notes)
	}

	if err := s.store.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id)
	s.publish(ctx, id, amqp.ActionUpdated)
	return nil
}

// Delete removes the transaction. Deleting an unknown identifier is a
// no-op, per the adapter contract; there is no existence pre-check.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

// Get returns the transaction or *core.NotFoundError.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	t, ok, err := s.store.GetByID(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("fetch transaction: %w", err)
	}
	if !ok {
		return core.Transaction{}, &core.NotFoundError{Kind: "transaction", ID: id}
	}
	return t, nil
}

// GetAll returns every transaction. Order is not guaranteed.
func (s *TransactionService) GetAll(ctx context.Context) ([]core.Transaction, error) {
	return s.store.GetAll(ctx)
}

// GetByMonth returns transactions whose date falls in the given YYYY-MM
// month. The month format is validated before any read.
func (s *TransactionService) GetByMonth(ctx context.Context, month string) ([]core.Transaction, error) {
	if !core.ValidMonth(month) {
		return nil, &core.ValidationError{Field: "month", Message: "month must be a valid YYYY-MM month"}
	}

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]core.Transaction, 0)
	for _, t := range all {
		if strings.HasPrefix(t.Date, month) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// GetByCategory returns transactions matching the category,
// case-insensitively, after trimming the input.
func (s *TransactionService) GetByCategory(ctx context.Context, category string) ([]core.Transaction, error) {
	category = strings.TrimSpace(category)

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]core.Transaction, 0)
	for _, t := range all {
		if strings.EqualFold(t.Category, category) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordChange(ctx, core.CollectionTransactions, id, action); err != nil {
		// Best-effort only: the write already succeeded locally.
		slog.ErrorContext(ctx, "Failed to publish record change",
			"collection", core.CollectionTransactions,
			"id", id,
			"action", action,
			"error", err)
	}
}
