package core

import (
	"fmt"
	"strings"
)

// QuotaMessage is the user-facing message attached to storage failures
// caused by quota exhaustion. Callers render it verbatim.
const QuotaMessage = "storage quota exceeded: export your data and free up space before adding more records"

// ValidationError reports a problem with user-supplied input. It is
// always synchronous and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError reports a persistence-layer failure, optionally wrapping
// the underlying cause. Quota indicates the quota-exhaustion
// sub-condition, which carries a distinct user-facing message.
type StorageError struct {
	Op    string // e.g. "add transaction"
	Err   error
	Quota bool
}

func (e *StorageError) Error() string {
	if e.Quota {
		return QuotaMessage
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps a driver failure, detecting the quota
// sub-condition from the cause message.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err, Quota: isQuotaError(err)}
}

// NotFoundError reports that a record referenced by identifier no
// longer exists. It is distinct from both validation and storage
// failures and is never retried.
type NotFoundError struct {
	Kind string // "transaction" or "budget"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// DuplicateBudgetError reports a write that would violate the
// one-budget-per-(month, category) invariant.
type DuplicateBudgetError struct {
	Month    string
	Category string
}

func (e *DuplicateBudgetError) Error() string {
	return fmt.Sprintf("a budget for %q in %s already exists", e.Category, e.Month)
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "database or disk is full") ||
		strings.Contains(msg, "no space left")
}
