package persistence

import (
	"context"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
)

// EventRepository keeps the ordered log of Locked and Unlocked events
type EventRepository interface {
	// Append stores the event and assigns its sequence number
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Append(ctx context.Context, event *entity.LockEvent) error

	// ListByAccount returns the most recent events of an account, oldest first
	// A limit of zero or less returns every event.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListByAccount(ctx context.Context, account entity.Account, limit int) ([]*entity.LockEvent, error)
}
