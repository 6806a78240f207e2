package http

import (
	"net/http"
	"strings"

	"budgetbook/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		transactions []core.Transaction
		err          error
	)
	switch {
	case r.URL.Query().Has("month"):
		transactions, err = s.transactions.GetByMonth(ctx, strings.TrimSpace(r.URL.Query().Get("month")))
	case r.URL.Query().Has("category"):
		transactions, err = s.transactions.GetByCategory(ctx, r.URL.Query().Get("category"))
	default:
		transactions, err = s.transactions.GetAll(ctx)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

// createTransactionRequest mirrors core.Transaction with a pointer
// amount so a body that omits the field is distinguishable from an
// explicit zero.
type createTransactionRequest struct {
	Date     string   `json:"date"`
	Amount   *float64 `json:"amount"`
	Category string   `json:"category"`
	Notes    string   `json:"notes"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Amount == nil {
		writeError(ctx, w, &core.ValidationError{Field: "amount", Message: "amount is required"})
		return
	}

	created, err := s.transactions.Add(ctx, core.Transaction{
		Date:     req.Date,
		Amount:   *req.Amount,
		Category: req.Category,
		Notes:    req.Notes,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, err := s.transactions.Get(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var patch core.TransactionPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(ctx, w, err)
		return
	}

	id := r.PathValue("id")
	if err := s.transactions.Update(ctx, id, patch); err != nil {
		writeError(ctx, w, err)
		return
	}

	t, err := s.transactions.Get(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.transactions.Delete(ctx, r.PathValue("id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
