package model

import (
	"time"
)

// LockRecord represents the lock state of one (account, reason) slot
type LockRecord struct {
	Account   string    `gorm:"primaryKey;type:varchar(42)"`
	Reason    string    `gorm:"primaryKey;type:varchar(66)"`
	Amount    string    `gorm:"type:varchar(78);not null"`
	Validity  string    `gorm:"type:varchar(20);not null"` // Unix seconds as decimal text, the full uint64 range
	Claimed   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for LockRecord
func (LockRecord) TableName() string {
	return "lock_records"
}

// LockReason is one entry of an account's append-only reason index
// Position is assigned by the database and orders the index.
type LockReason struct {
	Position  uint64    `gorm:"primaryKey;autoIncrement"`
	Account   string    `gorm:"type:varchar(42);not null;uniqueIndex:idx_lock_reasons_account_reason"`
	Reason    string    `gorm:"type:varchar(66);not null;uniqueIndex:idx_lock_reasons_account_reason"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for LockReason
func (LockReason) TableName() string {
	return "lock_reasons"
}
