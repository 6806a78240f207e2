package http

import (
	"net/http"

	"budgetbook/internal/core"
)

// Budget list and single reads return the annotated view (spent and
// remaining), recomputed from the live transaction set on every call.

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	budgets, err := s.budgets.GetAllWithRemaining(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if budgets == nil {
		budgets = []core.BudgetWithRemaining{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var b core.Budget
	if err := decodeBody(r, &b); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := s.budgets.Add(ctx, b)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	b, err := s.budgets.GetWithRemaining(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var patch core.BudgetPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	if err := s.budgets.Update(ctx, id, patch); err != nil {
		writeError(ctx, w, err)
		return
	}

	b, err := s.budgets.GetWithRemaining(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.budgets.Delete(ctx, r.PathValue("id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
