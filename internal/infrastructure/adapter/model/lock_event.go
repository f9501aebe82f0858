package model

import (
	"time"
)

// LockEvent represents a durable Locked or Unlocked event
type LockEvent struct {
	Sequence  uint64    `gorm:"primaryKey;autoIncrement"`
	Kind      string    `gorm:"type:varchar(16);not null"`
	Account   string    `gorm:"type:varchar(42);not null;index"`
	Reason    string    `gorm:"type:varchar(66);not null"`
	Amount    string    `gorm:"type:varchar(78);not null"`
	Validity  string    `gorm:"type:varchar(20)"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for LockEvent
func (LockEvent) TableName() string {
	return "lock_events"
}
