package core

// Outcome labels recorded for ledger operations
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics records ledger activity for monitoring
type Metrics interface {
	// ObserveOperation records the outcome and latency of a ledger operation
	ObserveOperation(operation, outcome string, elapsed Duration)
	// AddLocked adds to the total amount moved into escrow
	AddLocked(amount float64)
	// AddReleased adds to the total amount released from escrow
	AddReleased(amount float64)
	// SetEscrowBalance publishes the current escrow balance
	SetEscrowBalance(amount float64)
}
