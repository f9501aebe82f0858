package lock

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
)

// ExtendLock adds extraTime seconds to the validity of the caller's active lock
func (l *Ledger) ExtendLock(ctx context.Context, caller entity.Account, reason entity.Reason, extraTime uint64) (*entity.LockRecord, error) {
	var result *entity.LockRecord
	account, tag := caller.Hex(), entity.ReasonString(reason)

	err := l.execute(ctx, OpExtendLock, func(ctx context.Context, s *scope) error {
		if err := l.authorize(ctx, caller); err != nil {
			return errs.NewLockError(OpExtendLock, account, tag, err)
		}

		record, err := s.locks.GetLock(ctx, caller, reason)
		if err != nil {
			return fmt.Errorf("failed to load lock: %w", err)
		}
		if !record.IsActive() {
			return errs.NewLockError(OpExtendLock, account, tag, errs.ErrNotLocked)
		}

		validity, err := l.validator.ExtendValidity(record.Validity, extraTime)
		if err != nil {
			return errs.NewLockError(OpExtendLock, account, tag, err)
		}

		record.Validity = validity
		record.UpdatedAt = s.at
		if err := s.locks.SaveLock(ctx, record); err != nil {
			return fmt.Errorf("failed to save lock: %w", err)
		}

		result = record.Clone()
		return s.emit(ctx, entity.NewLockedEvent(record, s.at))
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// IncreaseLockAmount escrows extraAmount more of the caller's tokens under an active lock
func (l *Ledger) IncreaseLockAmount(ctx context.Context, caller entity.Account, reason entity.Reason, extraAmount *entity.Amount) (*entity.LockRecord, error) {
	var result *entity.LockRecord
	account, tag := caller.Hex(), entity.ReasonString(reason)

	err := l.execute(ctx, OpIncreaseLockAmount, func(ctx context.Context, s *scope) error {
		if err := l.authorize(ctx, caller); err != nil {
			return errs.NewLockError(OpIncreaseLockAmount, account, tag, err)
		}
		if caller == l.escrow {
			return errs.NewLockError(OpIncreaseLockAmount, account, tag, errEscrowParty)
		}
		if err := l.validator.ValidateIncrease(extraAmount); err != nil {
			return errs.NewLockError(OpIncreaseLockAmount, account, tag, err)
		}

		record, err := s.locks.GetLock(ctx, caller, reason)
		if err != nil {
			return fmt.Errorf("failed to load lock: %w", err)
		}
		if !record.IsActive() {
			return errs.NewLockError(OpIncreaseLockAmount, account, tag, errs.ErrNotLocked)
		}

		increased, err := entity.AddAmounts(record.Amount, extraAmount)
		if err != nil {
			return errs.NewLockError(OpIncreaseLockAmount, account, tag, err)
		}

		if err := s.balances.Transfer(ctx, caller, l.escrow, extraAmount); err != nil {
			return errs.NewLockError(OpIncreaseLockAmount, account, tag, err)
		}

		record.Amount = increased
		record.UpdatedAt = s.at
		if err := s.locks.SaveLock(ctx, record); err != nil {
			return fmt.Errorf("failed to save lock: %w", err)
		}
		s.locked.Add(s.locked, extraAmount)

		result = record.Clone()
		return s.emit(ctx, entity.NewLockedEvent(record, s.at))
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
