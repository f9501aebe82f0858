package persistence

import (
	"context"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
)

// BalanceRepository is the base token ledger the lock extension builds on
type BalanceRepository interface {
	// BalanceOf returns the transferable balance of an account
	// Unknown accounts have a zero balance.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	BalanceOf(ctx context.Context, account entity.Account) (*entity.Amount, error)

	// Transfer moves amount from one account to another
	//
	// Possible errors:
	// - ErrInsufficientBalance: If the balance of from cannot cover amount
	// - ErrAmountOverflow: If the balance of to would exceed 256 bits
	// - ErrDatabaseConnection: If database connection fails
	Transfer(ctx context.Context, from, to entity.Account, amount *entity.Amount) error
}
