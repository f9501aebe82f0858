package dto

import (
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
)

// LockRequest represents the API request for locking the caller's tokens
type LockRequest struct {
	Reason      string `json:"reason" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	ReleaseTime uint64 `json:"releaseTime"` // Unix seconds
}

// TransferLockRequest represents the API request for locking tokens on behalf of another account
type TransferLockRequest struct {
	To          string `json:"to" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	ReleaseTime uint64 `json:"releaseTime"`
}

// BatchTransferLockRequest represents the API request for a batch of transfer locks
// The arrays are applied element-wise and must have equal lengths.
type BatchTransferLockRequest struct {
	Recipients []string `json:"recipients"`
	Reasons    []string `json:"reasons"`
	Amounts    []string `json:"amounts"`
	Times      []uint64 `json:"times"`
}

// ExtendLockRequest represents the API request for extending a lock's validity
type ExtendLockRequest struct {
	Reason    string `json:"reason" binding:"required"`
	ExtraTime uint64 `json:"extraTime"` // Seconds added to the validity
}

// IncreaseLockRequest represents the API request for adding tokens to a lock
type IncreaseLockRequest struct {
	Reason      string `json:"reason" binding:"required"`
	ExtraAmount string `json:"extraAmount" binding:"required"`
}

// LockResponse represents the state of one lock record
type LockResponse struct {
	Account  string `json:"account"`
	Reason   string `json:"reason"`
	Amount   string `json:"amount"`
	Validity uint64 `json:"validity"`
	Claimed  bool   `json:"claimed"`
}

// BatchLockResponse represents the records written by a batch
type BatchLockResponse struct {
	Locks []LockResponse `json:"locks"`
}

// UnlockResponse represents the result of an unlock sweep
type UnlockResponse struct {
	Account  string `json:"account"`
	Released string `json:"released"`
}

// NewLockResponse converts a lock record to its API representation
func NewLockResponse(record *entity.LockRecord) LockResponse {
	return LockResponse{
		Account:  record.Account.Hex(),
		Reason:   entity.ReasonString(record.Reason),
		Amount:   entity.FormatAmount(record.Amount),
		Validity: record.Validity,
		Claimed:  record.Claimed,
	}
}
