package dto

import (
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
)

// BalanceResponse represents the API response for an account's balances
type BalanceResponse struct {
	Account      string `json:"account"`
	Transferable string `json:"transferable"`
	Locked       string `json:"locked"`
	Total        string `json:"total"`
	Unlockable   string `json:"unlockable"`
}

// LockStateResponse represents one entry of an account's reason index
type LockStateResponse struct {
	Index      int    `json:"index"`
	Reason     string `json:"reason"`
	Amount     string `json:"amount"`
	Validity   uint64 `json:"validity"`
	Claimed    bool   `json:"claimed"`
	Locked     string `json:"locked"`
	Unlockable string `json:"unlockable"`
}

// LocksResponse lists the locks of an account in reason index order
type LocksResponse struct {
	Account string              `json:"account"`
	Locks   []LockStateResponse `json:"locks"`
}

// ReasonLockResponse represents the lock amounts of a single reason
type ReasonLockResponse struct {
	Account    string  `json:"account"`
	Reason     string  `json:"reason"`
	Locked     string  `json:"locked"`
	Unlockable string  `json:"unlockable"`
	Validity   uint64  `json:"validity"`
	Claimed    bool    `json:"claimed"`
	At         *uint64 `json:"at,omitempty"`
	LockedAt   string  `json:"lockedAt,omitempty"` // Amount locked at the requested time, claimed locks included
}

// EventResponse represents a Locked or Unlocked event
type EventResponse struct {
	Sequence  uint64 `json:"sequence"`
	Kind      string `json:"kind"`
	Account   string `json:"account"`
	Reason    string `json:"reason"`
	Amount    string `json:"amount"`
	Validity  uint64 `json:"validity,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// EventsResponse lists an account's events, oldest first
type EventsResponse struct {
	Account string          `json:"account"`
	Events  []EventResponse `json:"events"`
}

// EscrowResponse represents the escrow account and its balance
type EscrowResponse struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// NewBalanceResponse converts a balance summary to its API representation
func NewBalanceResponse(summary *entity.BalanceSummary) BalanceResponse {
	return BalanceResponse{
		Account:      summary.Account.Hex(),
		Transferable: entity.FormatAmount(summary.Transferable),
		Locked:       entity.FormatAmount(summary.Locked),
		Total:        entity.FormatAmount(summary.Total),
		Unlockable:   entity.FormatAmount(summary.Unlockable),
	}
}

// NewEventResponse converts an event to its API representation
func NewEventResponse(event *entity.LockEvent) EventResponse {
	return EventResponse{
		Sequence:  event.Sequence,
		Kind:      string(event.Kind),
		Account:   event.Account.Hex(),
		Reason:    entity.ReasonString(event.Reason),
		Amount:    entity.FormatAmount(event.Amount),
		Validity:  event.Validity,
		Timestamp: event.CreatedAt.Unix(),
	}
}
