package lock

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/usecase"
)

// Operation names used in errors, logs and metrics
const (
	OpLock                  = "lock"
	OpTransferWithLock      = "transferWithLock"
	OpBatchTransferWithLock = "batchTransferWithLock"
	OpExtendLock            = "extendLock"
	OpIncreaseLockAmount    = "increaseLockAmount"
	OpUnlock                = "unlock"
)

// errEscrowParty rejects the escrow account as a lock owner or as the payer of escrowed funds
var errEscrowParty = fmt.Errorf("%w: escrow account cannot own or fund a lock", errs.ErrInvalidAccount)

// Lock moves the caller's tokens into escrow under reason
func (l *Ledger) Lock(ctx context.Context, caller entity.Account, req usecase.LockRequest) (*entity.LockRecord, error) {
	var record *entity.LockRecord

	err := l.execute(ctx, OpLock, func(ctx context.Context, s *scope) error {
		if err := l.authorize(ctx, caller); err != nil {
			return errs.NewLockError(OpLock, caller.Hex(), entity.ReasonString(req.Reason), err)
		}

		var err error
		record, err = l.openLock(ctx, s, OpLock, caller, caller, req.Reason, req.Amount, req.ReleaseTime)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// TransferWithLock debits the caller and locks the tokens for the recipient
func (l *Ledger) TransferWithLock(ctx context.Context, caller entity.Account, req usecase.TransferLockRequest) (*entity.LockRecord, error) {
	var record *entity.LockRecord

	err := l.execute(ctx, OpTransferWithLock, func(ctx context.Context, s *scope) error {
		if err := l.authorize(ctx, caller); err != nil {
			return errs.NewLockError(OpTransferWithLock, req.To.Hex(), entity.ReasonString(req.Reason), err)
		}

		var err error
		record, err = l.openLock(ctx, s, OpTransferWithLock, caller, req.To, req.Reason, req.Amount, req.ReleaseTime)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// BatchTransferWithLock applies TransferWithLock per index in a single unit of work
// The first failing entry aborts the batch and is reported through errs.BatchError.
func (l *Ledger) BatchTransferWithLock(ctx context.Context, caller entity.Account, req usecase.BatchTransferLockRequest) ([]*entity.LockRecord, error) {
	var records []*entity.LockRecord

	err := l.execute(ctx, OpBatchTransferWithLock, func(ctx context.Context, s *scope) error {
		if err := l.authorize(ctx, caller); err != nil {
			return err
		}
		if err := l.validator.ValidateBatch(req, l.maxBatchSize); err != nil {
			return err
		}

		records = make([]*entity.LockRecord, 0, len(req.Recipients))
		for i := range req.Recipients {
			record, err := l.openLock(ctx, s, OpTransferWithLock, caller, req.Recipients[i], req.Reasons[i], req.Amounts[i], req.ReleaseTimes[i])
			if err != nil {
				return errs.NewBatchError(i, err)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// openLock checks the lock preconditions for owner and escrows amount from payer
func (l *Ledger) openLock(
	ctx context.Context,
	s *scope,
	op string,
	payer, owner entity.Account,
	reason entity.Reason,
	amount *entity.Amount,
	releaseTime uint64,
) (*entity.LockRecord, error) {
	account, tag := owner.Hex(), entity.ReasonString(reason)

	if payer == l.escrow || owner == l.escrow {
		return nil, errs.NewLockError(op, account, tag, errEscrowParty)
	}
	if err := l.validator.ValidateLock(amount, releaseTime, s.now); err != nil {
		return nil, errs.NewLockError(op, account, tag, err)
	}

	record, err := s.locks.GetLock(ctx, owner, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to load lock: %w", err)
	}
	if record.IsActive() {
		return nil, errs.NewLockError(op, account, tag, errs.ErrAlreadyLocked)
	}

	// Claimed records keep their amount, so only a never-used slot is indexed
	if record.IsEmpty() {
		if err := s.locks.AppendReason(ctx, owner, reason); err != nil {
			return nil, fmt.Errorf("failed to index reason: %w", err)
		}
	}

	if err := s.balances.Transfer(ctx, payer, l.escrow, amount); err != nil {
		return nil, errs.NewLockError(op, account, tag, err)
	}

	record.Open(amount, releaseTime, s.at)
	if err := s.locks.SaveLock(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save lock: %w", err)
	}

	if err := s.emit(ctx, entity.NewLockedEvent(record, s.at)); err != nil {
		return nil, err
	}
	s.locked.Add(s.locked, amount)

	return record.Clone(), nil
}
