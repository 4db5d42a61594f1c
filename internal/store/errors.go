package store

import (
	"errors"
	"fmt"

	"github.com/roach88/rdfsql/internal/codec"
	"github.com/roach88/rdfsql/internal/querysql"
)

// Error is returned by every Store operation that fails for a reason the
// caller may want to branch on.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the store operation, e.g. "add" or "remove".
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeInvalidStatement indicates a statement whose terms cannot be
	// encoded, e.g. a Literal subject.
	ErrCodeInvalidStatement ErrorCode = "INVALID_STATEMENT"

	// ErrCodeUnknownTermKind indicates a term outside the supported set.
	ErrCodeUnknownTermKind ErrorCode = "UNKNOWN_TERM_KIND"

	// ErrCodeTransactionFailure indicates a database error inside a write
	// transaction. The transaction was rolled back.
	ErrCodeTransactionFailure ErrorCode = "TRANSACTION_FAILURE"

	// ErrCodeUnsupportedOperation indicates a feature the dialect lacks.
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"

	// ErrCodeStoreState indicates the tables are missing or incomplete.
	ErrCodeStoreState ErrorCode = "STORE_STATE"

	// ErrCodeInvalidPattern indicates a pattern that violates an operation
	// precondition.
	ErrCodeInvalidPattern ErrorCode = "INVALID_PATTERN"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, op, message string, err error) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// classify wraps an encoding or compile error with the matching code.
// Errors that are already *Error pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	switch {
	case errors.Is(err, codec.ErrInvalidStatement):
		return newError(ErrCodeInvalidStatement, op, "statement cannot be encoded", err)
	case errors.Is(err, codec.ErrUnknownTermKind):
		return newError(ErrCodeUnknownTermKind, op, "unsupported term", err)
	case errors.Is(err, querysql.ErrUnsupportedOperation):
		return newError(ErrCodeUnsupportedOperation, op, "query not supported by dialect", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsInvalidStatement reports whether err is an encoding failure.
func IsInvalidStatement(err error) bool { return hasCode(err, ErrCodeInvalidStatement) }

// IsUnknownTermKind reports whether err is an unsupported-term failure.
func IsUnknownTermKind(err error) bool { return hasCode(err, ErrCodeUnknownTermKind) }

// IsTransactionFailure reports whether err is a rolled-back write.
func IsTransactionFailure(err error) bool { return hasCode(err, ErrCodeTransactionFailure) }

// IsUnsupportedOperation reports whether err is a missing dialect feature.
func IsUnsupportedOperation(err error) bool { return hasCode(err, ErrCodeUnsupportedOperation) }

// IsStoreStateError reports whether err is a missing or partial store.
func IsStoreStateError(err error) bool { return hasCode(err, ErrCodeStoreState) }

// IsInvalidPattern reports whether err is a pattern precondition failure.
func IsInvalidPattern(err error) bool { return hasCode(err, ErrCodeInvalidPattern) }
