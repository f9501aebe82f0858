package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance = 4001
	CodeInvalidAmount       = 4002
	CodeInvalidAccount      = 4003
	CodeInvalidReason       = 4004
	CodeInvalidTime         = 4005
	CodeZeroAmount          = 4006
	CodeAmountOverflow      = 4007
	CodeLengthMismatch      = 4008
	CodeBatchTooLarge       = 4009
	CodeInvalidRequest      = 4010
	CodeUnauthorized        = 4030
	CodeNotFound            = 4040
	CodeAlreadyLocked       = 4090
	CodeNotLocked           = 4091
	CodeWriteConflict       = 4092

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeDatabaseConnection = 5030
)

// Base error types
var (
	// ErrInvalidTime is returned when a release time is not strictly in the future
	// or a validity extension would overflow
	ErrInvalidTime = errors.New("release time must be in the future")

	// ErrAlreadyLocked is returned when the reason already holds an unclaimed lock
	ErrAlreadyLocked = errors.New("tokens already locked for this reason")

	// ErrZeroAmount is returned when locking or increasing a lock by zero
	ErrZeroAmount = errors.New("amount must be greater than zero")

	// ErrNotLocked is returned when extending or increasing a reason without an active lock
	ErrNotLocked = errors.New("no tokens locked for this reason")

	// ErrWriteConflict is returned when a write collides with a row another writer stored first
	ErrWriteConflict = errors.New("conflicting write")

	// ErrInsufficientBalance is returned when the transferable balance cannot cover a debit
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUnauthorized is returned when the caller does not hold the locking role
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrLengthMismatch is returned when batch inputs are empty or differ in length
	ErrLengthMismatch = errors.New("batch inputs must be non-empty and of equal length")

	// ErrBatchTooLarge is returned when a batch exceeds the configured size limit
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrAmountOverflow is returned when an amount would exceed 256 bits
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrInvalidAmount is returned when an amount is not an unsigned decimal integer
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrInvalidAccount is returned when an account is not a valid hex address
	ErrInvalidAccount = errors.New("invalid account address")

	// ErrInvalidReason is returned when a lock reason is empty or longer than 32 bytes
	ErrInvalidReason = errors.New("invalid lock reason")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidAccount):
		return CodeInvalidAccount
	case errors.Is(err, ErrInvalidReason):
		return CodeInvalidReason
	case errors.Is(err, ErrInvalidTime):
		return CodeInvalidTime
	case errors.Is(err, ErrZeroAmount):
		return CodeZeroAmount
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrLengthMismatch):
		return CodeLengthMismatch
	case errors.Is(err, ErrBatchTooLarge):
		return CodeBatchTooLarge
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyLocked):
		return CodeAlreadyLocked
	case errors.Is(err, ErrNotLocked):
		return CodeNotLocked
	case errors.Is(err, ErrWriteConflict):
		return CodeWriteConflict
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// LockError represents a rejected lock ledger operation
type LockError struct {
	Op      string
	Account string
	Reason  string
	Err     error
}

// Error implements the error interface for LockError
func (e *LockError) Error() string {
	return fmt.Sprintf("%s failed for account %s (reason: %s): %v", e.Op, e.Account, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *LockError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LockError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "lock_error",
		"operation":  e.Op,
		"account":    e.Account,
		"reason":     e.Reason,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewLockError creates a detailed lock operation error
func NewLockError(op, account, reason string, err error) error {
	return &LockError{
		Op:      op,
		Account: account,
		Reason:  reason,
		Err:     err,
	}
}

// InsufficientBalanceError provides detailed error information for insufficient balance
type InsufficientBalanceError struct {
	Account   string
	Amount    string
	Available string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for account %s: required %s, available %s",
		e.Account, e.Amount, e.Available)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_balance",
		"account":    e.Account,
		"amount":     e.Amount,
		"available":  e.Available,
		"error_code": CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(account, amount, available string) error {
	return &InsufficientBalanceError{
		Account:   account,
		Amount:    amount,
		Available: available,
	}
}

// BatchError reports the entry that aborted a batch
type BatchError struct {
	Index int
	Err   error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch entry %d rejected: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error
func (e *BatchError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *BatchError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "batch_error",
		"index":      e.Index,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewBatchError wraps the error of the entry at index
func NewBatchError(index int, err error) error {
	return &BatchError{
		Index: index,
		Err:   err,
	}
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsUnauthorizedError checks if the caller was rejected by the authorizer
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError checks if the error is a lock state or write conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyLocked) ||
		errors.Is(err, ErrNotLocked) ||
		errors.Is(err, ErrWriteConflict)
}

// IsValidationError checks if the error is a client-side precondition rejection
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrZeroAmount) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrBatchTooLarge) ||
		errors.Is(err, ErrAmountOverflow) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidAccount) ||
		errors.Is(err, ErrInvalidReason) ||
		errors.Is(err, ErrInvalidRequest)
}
