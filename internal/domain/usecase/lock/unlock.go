package lock

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
)

// Unlock sweeps every expired, unclaimed lock of account back to its balance
// The released total is settled to account in a single transfer, never to the
// caller. Nothing to release is not an error: the result is zero.
func (l *Ledger) Unlock(ctx context.Context, caller, account entity.Account) (*entity.Amount, error) {
	total := entity.ZeroAmount()

	err := l.execute(ctx, OpUnlock, func(ctx context.Context, s *scope) error {
		if err := l.authorize(ctx, caller); err != nil {
			return errs.NewLockError(OpUnlock, account.Hex(), "*", err)
		}

		reasons, err := s.locks.ListReasons(ctx, account)
		if err != nil {
			return fmt.Errorf("failed to list reasons: %w", err)
		}

		for _, reason := range reasons {
			record, err := s.locks.GetLock(ctx, account, reason)
			if err != nil {
				return fmt.Errorf("failed to load lock: %w", err)
			}

			unlockable := record.Unlockable(s.now)
			if unlockable.IsZero() {
				continue
			}

			record.Claim(s.at)
			if err := s.locks.SaveLock(ctx, record); err != nil {
				return fmt.Errorf("failed to save lock: %w", err)
			}

			if total, err = entity.AddAmounts(total, unlockable); err != nil {
				return errs.NewLockError(OpUnlock, account.Hex(), entity.ReasonString(reason), err)
			}

			if err := s.emit(ctx, entity.NewUnlockedEvent(account, reason, unlockable, s.at)); err != nil {
				return err
			}
		}

		if total.IsZero() {
			return nil
		}

		if err := s.balances.Transfer(ctx, l.escrow, account, total); err != nil {
			return fmt.Errorf("failed to release escrow: %w", err)
		}
		s.released.Add(s.released, total)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return total, nil
}
