package database

import (
	"errors"

	domainErr "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/repository"
)

// ErrorMapper maps unit of work errors to domain errors
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps a database error to a domain error
// Errors that already carry a domain sentinel pass through unchanged.
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if domainErr.ErrorCode(err) != domainErr.CodeInternalServer || errors.Is(err, domainErr.ErrInternalServer) {
		return err
	}
	return m.classifier.MapError(operation, err)
}
