package lock

import (
	"fmt"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/usecase"
)

// RequestValidator checks the stateless preconditions of ledger operations
type RequestValidator struct{}

// NewRequestValidator creates a new RequestValidator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// ValidateLock checks a new lock: release time first, then amount
func (v *RequestValidator) ValidateLock(amount *entity.Amount, releaseTime, now uint64) error {
	if err := v.validateReleaseTime(releaseTime, now); err != nil {
		return err
	}
	return v.validateAmount(amount)
}

// ValidateIncrease checks the extra amount of a top-up
func (v *RequestValidator) ValidateIncrease(extraAmount *entity.Amount) error {
	return v.validateAmount(extraAmount)
}

// ExtendValidity returns validity+extraTime or ErrInvalidTime on overflow
func (v *RequestValidator) ExtendValidity(validity, extraTime uint64) (uint64, error) {
	extended := validity + extraTime
	if extended < validity {
		return 0, fmt.Errorf("%w: validity overflow", errs.ErrInvalidTime)
	}
	return extended, nil
}

// ValidateBatch checks the shape of a batch request
func (v *RequestValidator) ValidateBatch(req usecase.BatchTransferLockRequest, maxSize int) error {
	n := req.Len()
	if n <= 0 {
		return fmt.Errorf("%w: recipients=%d reasons=%d amounts=%d times=%d", errs.ErrLengthMismatch,
			len(req.Recipients), len(req.Reasons), len(req.Amounts), len(req.ReleaseTimes))
	}
	if n > maxSize {
		return fmt.Errorf("%w: %d entries, limit %d", errs.ErrBatchTooLarge, n, maxSize)
	}
	return nil
}

// validateReleaseTime requires a release time strictly after now
func (v *RequestValidator) validateReleaseTime(releaseTime, now uint64) error {
	if releaseTime <= now {
		return errs.ErrInvalidTime
	}
	return nil
}

// validateAmount rejects missing and zero amounts
func (v *RequestValidator) validateAmount(amount *entity.Amount) error {
	if amount == nil || amount.IsZero() {
		return errs.ErrZeroAmount
	}
	return nil
}
