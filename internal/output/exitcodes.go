// Package output provides structured output and error handling for the quaderno CLI.
package output

import "errors"

// Exit codes:
// 0 = Success (including no-op publishes)
// 1 = User error (bad args, validation failure, missing metadata)
// 2 = System error (git failed, I/O error, API failure)
// 3 = Conflict (stale keyword proposal, unexpected archive state)
// 4 = Cancelled (operator declined a confirmation checkpoint)
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitConflict    = 3
	ExitCancelled   = 4
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
// Use for: bad arguments, malformed dates, failed strict validation.
func NewUserError(message string) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
	}
}

// NewSystemError creates an error for system failures (exit code 2).
// Use for: git operation failures, I/O errors, API failures.
func NewSystemError(message string) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
	}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
		Cause:   cause,
	}
}

// NewConflictError creates an error for conflict situations (exit code 3).
// Use for: keyword proposal staged for a different date, archive state mismatches.
func NewConflictError(message string) *ExitError {
	return &ExitError{
		Code:    ExitConflict,
		Message: message,
	}
}

// NewCancelledError creates an error for declined confirmations (exit code 4).
// Declining a checkpoint is a clean abort, not a failure; the distinct code
// lets wrapping scripts tell "operator said no" from real errors.
func NewCancelledError(message string) *ExitError {
	return &ExitError{
		Code:    ExitCancelled,
		Message: message,
	}
}

// IsCancelled reports whether err is an operator cancellation.
func IsCancelled(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Code == ExitCancelled
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitUserError
}
