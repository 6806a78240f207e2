package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budgetbook/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto status codes. Validation
// messages pass through verbatim; storage failures are reduced to a
// short actionable message (the quota message survives unchanged).
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *core.ValidationError
	var notFoundErr *core.NotFoundError
	var duplicateErr *core.DuplicateBudgetError
	var storageErr *core.StorageError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: validationErr.Error()})
	case errors.As(err, &duplicateErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: duplicateErr.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &storageErr):
		slog.ErrorContext(ctx, "Storage failure", "error", err)
		msg := "could not save your changes, please try again"
		if storageErr.Quota {
			msg = core.QuotaMessage
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
	default:
		slog.ErrorContext(ctx, "Unexpected failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &core.ValidationError{Message: "invalid request body"}
	}
	return nil
}
