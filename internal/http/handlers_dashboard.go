package http

import (
	"net/http"
	"strings"
	"time"

	"budgetbook/internal/calc"
	"budgetbook/internal/core"
)

// Dashboard endpoints run the calculation engine over the full
// transaction set. The engine is fail-soft, so a malformed record can
// never take a chart down; only a storage failure produces an error
// here.

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactions, err := s.transactions.GetAll(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": calc.TotalBalance(transactions)})
}

func (s *Server) handleMonthlySpending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if !core.ValidMonth(month) {
		writeError(ctx, w, &core.ValidationError{Field: "month", Message: "month must be a valid YYYY-MM month"})
		return
	}

	transactions, err := s.transactions.GetAll(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month": month,
		"total": calc.MonthlySpending(transactions, month),
	})
}

func (s *Server) handleCategoryTotals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactions, err := s.transactions.GetAll(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	totals := calc.CategoryTotals(transactions)
	if totals == nil {
		totals = []core.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleSpendingOverTime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groupBy := calc.Granularity(strings.TrimSpace(r.URL.Query().Get("group_by")))
	switch groupBy {
	case "":
		groupBy = calc.ByMonth
	case calc.ByDay, calc.ByWeek, calc.ByMonth:
	default:
		writeError(ctx, w, &core.ValidationError{Field: "group_by", Message: "group_by must be day, week or month"})
		return
	}

	transactions, err := s.transactions.GetAll(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	points := calc.SpendingOverTime(transactions, groupBy)
	if points == nil {
		points = []core.SpendingPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}
