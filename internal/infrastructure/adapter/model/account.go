package model

import (
	"time"
)

// Account represents the database model for base ledger balances
type Account struct {
	Address   string    `gorm:"primaryKey;type:varchar(42)"`
	Balance   string    `gorm:"type:varchar(78);not null"` // Unsigned decimal, up to 2^256-1
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
