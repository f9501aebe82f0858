package persistence

import (
	"context"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
)

// LockRepository stores lock records and the per-account reason index
type LockRepository interface {
	// GetLock returns the record for (account, reason)
	// A slot that was never written is returned as an empty record, not an error.
	// Inside a unit of work the record is locked until commit or rollback.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	GetLock(ctx context.Context, account entity.Account, reason entity.Reason) (*entity.LockRecord, error)

	// SaveLock inserts or overwrites a record
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	SaveLock(ctx context.Context, record *entity.LockRecord) error

	// ListReasons returns every reason the account ever locked under, in insertion order
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListReasons(ctx context.Context, account entity.Account) ([]entity.Reason, error)

	// AppendReason adds a reason to the end of the account's index
	// Appending a reason that is already indexed is a no-op.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	AppendReason(ctx context.Context, account entity.Account, reason entity.Reason) error
}
