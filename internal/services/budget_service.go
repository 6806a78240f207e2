package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"budgetbook/internal/amqp"
	"budgetbook/internal/calc"
	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// BudgetService validates budgets, enforces the one-budget-per-
// (month, category) invariant, and composes the transaction set with
// the calculation engine to annotate budgets with spent/remaining.
//
// The duplicate check is a service-layer scan, not a storage
// constraint: two sessions racing through it can both pass before
// either write lands. Within one process the check-then-act pair is
// safe because the store serializes operations.
type BudgetService struct {
	store        *storage.Collection[core.Budget]
	transactions *TransactionService
	events       ChangePublisher
}

func NewBudgetService(store *storage.Collection[core.Budget], transactions *TransactionService, events ChangePublisher) *BudgetService {
	return &BudgetService{store: store, transactions: transactions, events: events}
}

// Add validates the budget, rejects duplicates, persists it, and
// returns the record with its generated identifier attached.
func (s *BudgetService) Add(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	b.ID = ""
	b.Category = strings.TrimSpace(b.Category)

	if err := s.checkDuplicate(ctx, b, ""); err != nil {
		return core.Budget{}, err
	}

	id, err := s.store.Add(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("add budget: %w", err)
	}
	b.ID = id

	slog.InfoContext(ctx, "Budget created",
		"id", b.ID,
		"month", b.Month,
		"category", b.Category,
		"limit", b.Limit)

	s.publish(ctx, b.ID, amqp.ActionCreated)
	return b, nil
}

// Update merges the patch over the existing record for validation and
// writes back only the supplied fields. The duplicate check runs only
// when the patch touches month or category.
func (s *BudgetService) Update(ctx context.Context, id string, patch core.BudgetPatch) error {
	if patch.IsEmpty() {
		return &core.ValidationError{Message: "no fields to update"}
	}

	existing, ok, err := s.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch budget: %w", err)
	}
	if !ok {
		return &core.NotFoundError{Kind: "budget", ID: id}
	}

	merged := patch.ApplyTo(existing)
	if err := merged.Validate(); err != nil {
		return err
	}

	if patch.ChangesKey() {
		if err := s.checkDuplicate(ctx, merged, id); err != nil {
			return err
		}
	}

	fields := make(map[string]any)
	if patch.Month != nil {
		fields["month"] = *patch.Month
	}
	if patch.Category != nil {
		fields["category"] = strings.TrimSpace(*patch.Category)
	}
	if patch.Limit != nil {
		fields["limit"] = *patch.Limit
	}

	if err := s.store.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("update budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget updated", "id", id)
	s.publish(ctx, id, amqp.ActionUpdated)
	return nil
}

// Delete removes the budget. Deleting an unknown identifier is a no-op.
func (s *BudgetService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

// Get returns the bare budget or *core.NotFoundError.
func (s *BudgetService) Get(ctx context.Context, id string) (core.Budget, error) {
	b, ok, err := s.store.GetByID(ctx, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("fetch budget: %w", err)
	}
	if !ok {
		return core.Budget{}, &core.NotFoundError{Kind: "budget", ID: id}
	}
	return b, nil
}

// GetAll returns every budget without spend annotations.
func (s *BudgetService) GetAll(ctx context.Context) ([]core.Budget, error) {
	return s.store.GetAll(ctx)
}

// GetWithRemaining returns the budget annotated with spent/remaining,
// computed against the live transaction set at call time.
func (s *BudgetService) GetWithRemaining(ctx context.Context, id string) (core.BudgetWithRemaining, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return core.BudgetWithRemaining{}, err
	}

	transactions, err := s.transactions.GetAll(ctx)
	if err != nil {
		return core.BudgetWithRemaining{}, fmt.Errorf("fetch transactions: %w", err)
	}

	return annotate(b, transactions), nil
}

// GetAllWithRemaining annotates every budget, fetching the transaction
// set once and reusing it for all budgets. The two reads run
// concurrently.
func (s *BudgetService) GetAllWithRemaining(ctx context.Context) ([]core.BudgetWithRemaining, error) {
	var budgets []core.Budget
	var transactions []core.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactions.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	annotated := make([]core.BudgetWithRemaining, 0, len(budgets))
	for _, b := range budgets {
		annotated = append(annotated, annotate(b, transactions))
	}
	return annotated, nil
}

// checkDuplicate scans all budgets for another record with the same
// month and case-insensitively equal category, excluding excludeID.
func (s *BudgetService) checkDuplicate(ctx context.Context, candidate core.Budget, excludeID string) error {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("check duplicate budget: %w", err)
	}
	for _, other := range all {
		if other.ID == excludeID {
			continue
		}
		if core.SameBudgetKey(candidate, other) {
			return &core.DuplicateBudgetError{Month: candidate.Month, Category: candidate.Category}
		}
	}
	return nil
}

func annotate(b core.Budget, transactions []core.Transaction) core.BudgetWithRemaining {
	remaining := calc.BudgetRemaining(b, transactions)
	return core.BudgetWithRemaining{
		Budget:    b,
		Spent:     b.Limit - remaining,
		Remaining: remaining,
	}
}

func (s *BudgetService) publish(ctx context.Context, id, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordChange(ctx, core.CollectionBudgets, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			"collection", core.CollectionBudgets,
			"id", id,
			"action", action,
			"error", err)
	}
}
