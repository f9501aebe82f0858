package lock

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
)

// Queries read committed state and require no authorization.

// TokensLocked returns the unclaimed amount locked under reason
func (l *Ledger) TokensLocked(ctx context.Context, account entity.Account, reason entity.Reason) (*entity.Amount, error) {
	record, err := l.GetLock(ctx, account, reason)
	if err != nil {
		return nil, err
	}
	return record.Locked(), nil
}

// TokensLockedAtTime returns the amount whose validity extends beyond at
// The claimed flag is not consulted, so a swept lock still reports its amount
// for times before its validity.
func (l *Ledger) TokensLockedAtTime(ctx context.Context, account entity.Account, reason entity.Reason, at uint64) (*entity.Amount, error) {
	record, err := l.GetLock(ctx, account, reason)
	if err != nil {
		return nil, err
	}
	return record.LockedAt(at), nil
}

// TokensUnlockable returns the amount under reason that Unlock would release now
func (l *Ledger) TokensUnlockable(ctx context.Context, account entity.Account, reason entity.Reason) (*entity.Amount, error) {
	record, err := l.GetLock(ctx, account, reason)
	if err != nil {
		return nil, err
	}
	return record.Unlockable(l.currentTime()), nil
}

// TotalBalanceOf returns the transferable balance plus every unclaimed lock
func (l *Ledger) TotalBalanceOf(ctx context.Context, account entity.Account) (*entity.Amount, error) {
	summary, err := l.BalanceSummary(ctx, account)
	if err != nil {
		return nil, err
	}
	return summary.Total, nil
}

// GetUnlockableTokens returns the sum Unlock would release now
func (l *Ledger) GetUnlockableTokens(ctx context.Context, account entity.Account) (*entity.Amount, error) {
	states, err := l.LockStates(ctx, account)
	if err != nil {
		return nil, err
	}

	total := entity.ZeroAmount()
	for _, state := range states {
		if total, err = entity.AddAmounts(total, state.Unlockable); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// GetLockReasonLength returns the number of reasons ever locked by account
func (l *Ledger) GetLockReasonLength(ctx context.Context, account entity.Account) (int, error) {
	reasons, err := l.LockReasons(ctx, account)
	if err != nil {
		return 0, err
	}
	return len(reasons), nil
}

// LockReasons returns the account's reason index in insertion order
func (l *Ledger) LockReasons(ctx context.Context, account entity.Account) ([]entity.Reason, error) {
	reasons, err := l.uow.GetLockRepository(ctx).ListReasons(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to list reasons: %w", err)
	}
	return reasons, nil
}

// LockReasonAt returns the reason at index of the account's reason index
func (l *Ledger) LockReasonAt(ctx context.Context, account entity.Account, index int) (entity.Reason, error) {
	reasons, err := l.LockReasons(ctx, account)
	if err != nil {
		return entity.Reason{}, err
	}
	if index < 0 || index >= len(reasons) {
		return entity.Reason{}, fmt.Errorf("%w: reason index %d out of range [0, %d)", errs.ErrNotFound, index, len(reasons))
	}
	return reasons[index], nil
}

// GetLock returns the raw record for (account, reason)
func (l *Ledger) GetLock(ctx context.Context, account entity.Account, reason entity.Reason) (*entity.LockRecord, error) {
	record, err := l.uow.GetLockRepository(ctx).GetLock(ctx, account, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to load lock: %w", err)
	}
	return record, nil
}

// TransferableBalanceOf returns the balance held by the base ledger
func (l *Ledger) TransferableBalanceOf(ctx context.Context, account entity.Account) (*entity.Amount, error) {
	balance, err := l.uow.GetBalanceRepository(ctx).BalanceOf(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// EscrowBalance returns the balance of the escrow account
func (l *Ledger) EscrowBalance(ctx context.Context) (*entity.Amount, error) {
	return l.TransferableBalanceOf(ctx, l.escrow)
}

// Events returns the most recent lock events of an account
func (l *Ledger) Events(ctx context.Context, account entity.Account, limit int) ([]*entity.LockEvent, error) {
	events, err := l.uow.GetEventRepository(ctx).ListByAccount(ctx, account, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// LockStates returns the per-reason state of every indexed reason
func (l *Ledger) LockStates(ctx context.Context, account entity.Account) ([]*entity.ReasonState, error) {
	reasons, err := l.LockReasons(ctx, account)
	if err != nil {
		return nil, err
	}

	now := l.currentTime()
	states := make([]*entity.ReasonState, 0, len(reasons))
	for _, reason := range reasons {
		record, err := l.GetLock(ctx, account, reason)
		if err != nil {
			return nil, err
		}
		states = append(states, &entity.ReasonState{
			Reason:     reason,
			Record:     record,
			Locked:     record.Locked(),
			Unlockable: record.Unlockable(now),
		})
	}
	return states, nil
}

// BalanceSummary aggregates transferable, locked and unlockable balances
func (l *Ledger) BalanceSummary(ctx context.Context, account entity.Account) (*entity.BalanceSummary, error) {
	transferable, err := l.TransferableBalanceOf(ctx, account)
	if err != nil {
		return nil, err
	}

	states, err := l.LockStates(ctx, account)
	if err != nil {
		return nil, err
	}

	locked, unlockable := entity.ZeroAmount(), entity.ZeroAmount()
	for _, state := range states {
		if locked, err = entity.AddAmounts(locked, state.Locked); err != nil {
			return nil, err
		}
		if unlockable, err = entity.AddAmounts(unlockable, state.Unlockable); err != nil {
			return nil, err
		}
	}

	total, err := entity.AddAmounts(transferable, locked)
	if err != nil {
		return nil, err
	}

	return &entity.BalanceSummary{
		Account:      account,
		Transferable: transferable,
		Locked:       locked,
		Total:        total,
		Unlockable:   unlockable,
	}, nil
}

func (l *Ledger) currentTime() uint64 {
	return unixSeconds(l.timeProvider.Now())
}
