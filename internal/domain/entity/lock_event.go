package entity

import (
	"time"
)

// EventKind represents the kind of lock ledger observation
type EventKind string

// Event kinds
const (
	EventLocked   EventKind = "locked"
	EventUnlocked EventKind = "unlocked"
)

// IsValidEventKind checks if the given string is a known event kind
func IsValidEventKind(kind string) bool {
	switch EventKind(kind) {
	case EventLocked, EventUnlocked:
		return true
	default:
		return false
	}
}

// LockEvent is a durable, ordered record of a lock state change
type LockEvent struct {
	Sequence  uint64 // Assigned by the event repository on append
	Kind      EventKind
	Account   Account
	Reason    Reason
	Amount    *Amount
	Validity  uint64 // Only meaningful for EventLocked
	CreatedAt time.Time
}

// NewLockedEvent records the current state of a record after lock, extend or increase
func NewLockedEvent(record *LockRecord, at time.Time) *LockEvent {
	return &LockEvent{
		Kind:      EventLocked,
		Account:   record.Account,
		Reason:    record.Reason,
		Amount:    record.Amount.Clone(),
		Validity:  record.Validity,
		CreatedAt: at,
	}
}

// NewUnlockedEvent records an amount released from a reason during a sweep
func NewUnlockedEvent(account Account, reason Reason, amount *Amount, at time.Time) *LockEvent {
	return &LockEvent{
		Kind:      EventUnlocked,
		Account:   account,
		Reason:    reason,
		Amount:    amount.Clone(),
		CreatedAt: at,
	}
}

// LogFields returns a map of fields for structured logging
func (e *LockEvent) LogFields() map[string]any {
	fields := map[string]any{
		"event":    string(e.Kind),
		"sequence": e.Sequence,
		"account":  e.Account.Hex(),
		"reason":   ReasonString(e.Reason),
		"amount":   FormatAmount(e.Amount),
	}
	if e.Kind == EventLocked {
		fields["validity"] = e.Validity
	}
	return fields
}
