package http

import (
	"net/http"

	"budgetbook/internal/impexp"
)

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := impexp.ExportTransactions(ctx, w, s.transactions); err != nil {
		// Headers may already be out; log rather than attempt a JSON error.
		s.logger.ErrorContext(ctx, "CSV export failed", "error", err)
	}
}

type importResponse struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer r.Body.Close()

	result, err := impexp.ImportTransactions(ctx, r.Body, s.transactions)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := importResponse{
		Imported: result.Imported,
		Failed:   len(result.Errors),
	}
	for _, rowErr := range result.Errors {
		resp.Errors = append(resp.Errors, rowErr.Error())
	}

	s.logger.InfoContext(ctx, "CSV import completed",
		"imported", resp.Imported,
		"failed", resp.Failed)

	writeJSON(w, http.StatusOK, resp)
}
