package usecase

import (
	"context"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
)

// LockRequest locks the caller's own tokens under a reason
type LockRequest struct {
	Reason      entity.Reason
	Amount      *entity.Amount
	ReleaseTime uint64 // Unix seconds, must be in the future
}

// TransferLockRequest moves the caller's tokens into a lock owned by To
type TransferLockRequest struct {
	To          entity.Account
	Reason      entity.Reason
	Amount      *entity.Amount
	ReleaseTime uint64
}

// BatchTransferLockRequest applies TransferLockRequest element-wise
type BatchTransferLockRequest struct {
	Recipients   []entity.Account
	Reasons      []entity.Reason
	Amounts      []*entity.Amount
	ReleaseTimes []uint64
}

// Len returns the batch size when every input has the same length, or -1
func (r BatchTransferLockRequest) Len() int {
	n := len(r.Recipients)
	if n != len(r.Reasons) || n != len(r.Amounts) || n != len(r.ReleaseTimes) {
		return -1
	}
	return n
}

// LockLedger defines the lock-up operations layered over the base token ledger
type LockLedger interface {
	// Lock moves amount of the caller's tokens into escrow under reason until releaseTime
	Lock(ctx context.Context, caller entity.Account, req LockRequest) (*entity.LockRecord, error)

	// TransferWithLock debits the caller and records the lock for the recipient
	TransferWithLock(ctx context.Context, caller entity.Account, req TransferLockRequest) (*entity.LockRecord, error)

	// BatchTransferWithLock applies TransferWithLock per index, all or nothing
	BatchTransferWithLock(ctx context.Context, caller entity.Account, req BatchTransferLockRequest) ([]*entity.LockRecord, error)

	// ExtendLock pushes the validity of the caller's active lock further out
	ExtendLock(ctx context.Context, caller entity.Account, reason entity.Reason, extraTime uint64) (*entity.LockRecord, error)

	// IncreaseLockAmount adds tokens to the caller's active lock
	IncreaseLockAmount(ctx context.Context, caller entity.Account, reason entity.Reason, extraAmount *entity.Amount) (*entity.LockRecord, error)

	// Unlock releases every expired lock of account and returns the released total
	Unlock(ctx context.Context, caller, account entity.Account) (*entity.Amount, error)

	// TokensLocked returns the unclaimed amount locked under reason
	TokensLocked(ctx context.Context, account entity.Account, reason entity.Reason) (*entity.Amount, error)

	// TokensLockedAtTime returns the amount whose validity is still open at the given time
	TokensLockedAtTime(ctx context.Context, account entity.Account, reason entity.Reason, at uint64) (*entity.Amount, error)

	// TokensUnlockable returns the amount under reason that Unlock would release now
	TokensUnlockable(ctx context.Context, account entity.Account, reason entity.Reason) (*entity.Amount, error)

	// TotalBalanceOf returns the transferable balance plus every unclaimed lock
	TotalBalanceOf(ctx context.Context, account entity.Account) (*entity.Amount, error)

	// GetUnlockableTokens returns the sum Unlock would release now
	GetUnlockableTokens(ctx context.Context, account entity.Account) (*entity.Amount, error)

	// GetLockReasonLength returns the size of the account's reason index
	GetLockReasonLength(ctx context.Context, account entity.Account) (int, error)

	// LockReasons returns the account's reason index in insertion order
	LockReasons(ctx context.Context, account entity.Account) ([]entity.Reason, error)

	// LockReasonAt returns the reason stored at index
	LockReasonAt(ctx context.Context, account entity.Account, index int) (entity.Reason, error)

	// GetLock returns the raw record for (account, reason)
	GetLock(ctx context.Context, account entity.Account, reason entity.Reason) (*entity.LockRecord, error)

	// TransferableBalanceOf returns the balance held by the base ledger
	TransferableBalanceOf(ctx context.Context, account entity.Account) (*entity.Amount, error)

	// Escrow returns the account that holds locked tokens
	Escrow() entity.Account

	// EscrowBalance returns the balance of the escrow account
	EscrowBalance(ctx context.Context) (*entity.Amount, error)

	// Events returns the most recent lock events of an account
	Events(ctx context.Context, account entity.Account, limit int) ([]*entity.LockEvent, error)

	// BalanceSummary aggregates transferable, locked and unlockable balances
	BalanceSummary(ctx context.Context, account entity.Account) (*entity.BalanceSummary, error)

	// LockStates returns the per-reason state of every indexed reason
	LockStates(ctx context.Context, account entity.Account) ([]*entity.ReasonState, error)
}
