// Package http exposes the services as a JSON API. Handlers stay thin:
// they decode, delegate, and map errors; every invariant lives in the
// services and the calculation engine.
package http

import (
	"net/http"

	"budgetbook/internal/log"
	"budgetbook/internal/services"
)

// Server wires the service layer to HTTP routes.
type Server struct {
	transactions *services.TransactionService
	budgets      *services.BudgetService
	logger       *log.Logger
}

// NewServer builds the http.Server with all routes registered and
// request logging applied.
func NewServer(addr string, transactions *services.TransactionService, budgets *services.BudgetService, logger *log.Logger) *http.Server {
	s := &Server{
		transactions: transactions,
		budgets:      budgets,
		logger:       logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets/{id}", s.handleGetBudget)
	mux.HandleFunc("PATCH /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/dashboard/balance", s.handleBalance)
	mux.HandleFunc("GET /api/dashboard/monthly-spending", s.handleMonthlySpending)
	mux.HandleFunc("GET /api/dashboard/category-totals", s.handleCategoryTotals)
	mux.HandleFunc("GET /api/dashboard/spending-over-time", s.handleSpendingOverTime)

	mux.HandleFunc("GET /api/transactions/export", s.handleExportCSV)
	mux.HandleFunc("POST /api/transactions/import", s.handleImportCSV)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	handler := log.RequestMiddleware(logger)(mux)

	return &http.Server{
		Addr:    addr,
		Handler: handler,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
