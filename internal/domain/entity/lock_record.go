package entity

import (
	"time"
)

// LockRecord is the lock state of one (account, reason) slot
type LockRecord struct {
	Account   Account   // Owner of the locked tokens
	Reason    Reason    // Lock slot identifier
	Amount    *Amount   // Units held in escrow; zero means the slot was never used
	Validity  uint64    // Unix seconds after which the amount may be released
	Claimed   bool      // Set once the amount has been swept back to the owner
	UpdatedAt time.Time // When the record was last written
}

// NewLockRecord creates an empty record for the given slot
func NewLockRecord(account Account, reason Reason) *LockRecord {
	return &LockRecord{
		Account: account,
		Reason:  reason,
		Amount:  ZeroAmount(),
	}
}

// IsEmpty reports whether the slot never held a non-zero amount
func (r *LockRecord) IsEmpty() bool {
	return r.Amount == nil || r.Amount.IsZero()
}

// IsActive reports whether the record holds an unclaimed, non-zero amount
func (r *LockRecord) IsActive() bool {
	return !r.IsEmpty() && !r.Claimed
}

// Locked returns the unclaimed locked amount
func (r *LockRecord) Locked() *Amount {
	if r.Claimed || r.IsEmpty() {
		return ZeroAmount()
	}
	return r.Amount.Clone()
}

// LockedAt returns the amount still locked at the given time
// Claimed records still count until their validity ends.
func (r *LockRecord) LockedAt(at uint64) *Amount {
	if r.IsEmpty() || r.Validity <= at {
		return ZeroAmount()
	}
	return r.Amount.Clone()
}

// Unlockable returns the amount that can be swept at now
func (r *LockRecord) Unlockable(now uint64) *Amount {
	if r.Claimed || r.IsEmpty() || r.Validity > now {
		return ZeroAmount()
	}
	return r.Amount.Clone()
}

// Open starts a new lock period in this slot
func (r *LockRecord) Open(amount *Amount, validity uint64, at time.Time) {
	r.Amount = amount.Clone()
	r.Validity = validity
	r.Claimed = false
	r.UpdatedAt = at
}

// Claim marks the record as swept and returns the released amount
func (r *LockRecord) Claim(at time.Time) *Amount {
	released := r.Locked()
	r.Claimed = true
	r.UpdatedAt = at
	return released
}

// Clone returns a deep copy of the record
func (r *LockRecord) Clone() *LockRecord {
	clone := *r
	if r.Amount != nil {
		clone.Amount = r.Amount.Clone()
	} else {
		clone.Amount = ZeroAmount()
	}
	return &clone
}
