package entity

// BalanceSummary aggregates the balances of one account
type BalanceSummary struct {
	Account      Account
	Transferable *Amount // Balance held by the base ledger
	Locked       *Amount // Sum of unclaimed locks over the reason index
	Total        *Amount // Transferable + Locked
	Unlockable   *Amount // Portion of Locked whose validity has elapsed
}

// ReasonState is the per-reason view used when listing an account's locks
type ReasonState struct {
	Reason     Reason
	Record     *LockRecord
	Locked     *Amount
	Unlockable *Amount
}
