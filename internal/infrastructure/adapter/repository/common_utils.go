package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
)

// ErrorType is the class of a database failure
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	TransientError    ErrorType = "transient"
	LockError         ErrorType = "lock"
	ConnectionError   ErrorType = "connection"
	ConstraintError   ErrorType = "constraint"
)

// ErrorClassifier sorts driver errors from postgres and sqlite into ErrorTypes
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error, or "" when it matches no known class
func (c *ErrorClassifier) Classify(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case c.IsDuplicateKeyError(err):
		return DuplicateKeyError
	case c.IsLockError(err):
		return LockError
	case c.IsTransientError(err):
		return TransientError
	case c.IsConnectionError(err):
		return ConnectionError
	case c.IsConstraintError(err):
		return ConstraintError
	default:
		return ""
	}
}

func containsAny(err error, fragments ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range fragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// IsDuplicateKeyError checks if a unique or primary key was violated
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		containsAny(err, "duplicate key", "unique constraint", "duplicate entry")
}

// IsTransientError checks if an error is transient and can be retried
func (c *ErrorClassifier) IsTransientError(err error) bool {
	return containsAny(err,
		"connection reset",
		"connection refused",
		"timeout",
		"deadline exceeded",
		"eof",
		"server closed",
		"broken pipe",
	)
}

// IsLockError checks if concurrent writers collided
func (c *ErrorClassifier) IsLockError(err error) bool {
	return containsAny(err,
		"deadlock",
		"lock wait timeout",
		"could not serialize access",
		"serialization failure",
		"database is locked",
	)
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	return containsAny(err, "connection", "dial", "network", "database is closed") ||
		c.IsTransientError(err)
}

// IsConstraintError checks if a row violated a check, not null or foreign key constraint
func (c *ErrorClassifier) IsConstraintError(err error) bool {
	return containsAny(err, "constraint", "violates", "foreign key", "not null") ||
		c.IsDuplicateKeyError(err)
}

// MapError converts a database error into a domain error
func (c *ErrorClassifier) MapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", errs.ErrNotFound, operation)
	}

	switch c.Classify(err) {
	case DuplicateKeyError, ConstraintError:
		return fmt.Errorf("%w: %s: %s", errs.ErrWriteConflict, operation, err.Error())
	case LockError:
		return fmt.Errorf("%w: %s: concurrent update: %s", errs.ErrDatabaseConnection, operation, err.Error())
	case TransientError, ConnectionError:
		return fmt.Errorf("%w: %s: %s", errs.ErrDatabaseConnection, operation, err.Error())
	default:
		return fmt.Errorf("%w: %s: %s", errs.ErrInternalServer, operation, err.Error())
	}
}

// forUpdate locks the selected rows when running inside a transaction
// The sqlite dialect drops the clause, which is fine since it serializes writers.
func forUpdate(db *gorm.DB, locking bool) *gorm.DB {
	if !locking {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func accountKey(account entity.Account) string {
	return account.Hex()
}

func reasonKey(reason entity.Reason) string {
	return reason.Hex()
}

func parseAccountKey(key string) entity.Account {
	return common.HexToAddress(key)
}

func parseReasonKey(key string) entity.Reason {
	return common.HexToHash(key)
}

// parseStoredAmount decodes an amount column
func parseStoredAmount(value string) (*entity.Amount, error) {
	if value == "" {
		return entity.ZeroAmount(), nil
	}
	amount, err := entity.ParseAmount(value)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt amount %q: %s", errs.ErrInternalServer, value, err.Error())
	}
	return amount, nil
}

func formatValidity(validity uint64) string {
	return strconv.FormatUint(validity, 10)
}

// parseValidity decodes a validity column
func parseValidity(value string) (uint64, error) {
	if value == "" {
		return 0, nil
	}
	validity, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: corrupt validity %q: %s", errs.ErrInternalServer, value, err.Error())
	}
	return validity, nil
}
