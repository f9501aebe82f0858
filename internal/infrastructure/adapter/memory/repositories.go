package memory

import (
	"context"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
)

// LockRepository implements persistence.LockRepository over a Store
type LockRepository struct {
	store *Store
	tx    *tx
}

// GetLock returns a copy of the record, or an empty record for an unused slot
func (r *LockRepository) GetLock(_ context.Context, account entity.Account, reason entity.Reason) (*entity.LockRecord, error) {
	var record *entity.LockRecord
	err := r.store.view(r.tx, func(st *state) error {
		if stored, ok := st.locks[lockKey{account, reason}]; ok {
			record = stored.Clone()
			return nil
		}
		record = entity.NewLockRecord(account, reason)
		return nil
	})
	return record, err
}

// SaveLock stores a copy of the record
func (r *LockRepository) SaveLock(_ context.Context, record *entity.LockRecord) error {
	return r.store.update(r.tx, func(st *state) error {
		st.locks[lockKey{record.Account, record.Reason}] = record.Clone()
		return nil
	})
}

// ListReasons returns a copy of the account's reason index
func (r *LockRepository) ListReasons(_ context.Context, account entity.Account) ([]entity.Reason, error) {
	var reasons []entity.Reason
	err := r.store.view(r.tx, func(st *state) error {
		reasons = append([]entity.Reason{}, st.reasons[account]...)
		return nil
	})
	return reasons, err
}

// AppendReason adds reason to the account's index unless already present
func (r *LockRepository) AppendReason(_ context.Context, account entity.Account, reason entity.Reason) error {
	return r.store.update(r.tx, func(st *state) error {
		for _, existing := range st.reasons[account] {
			if existing == reason {
				return nil
			}
		}
		st.reasons[account] = append(st.reasons[account], reason)
		return nil
	})
}

// BalanceRepository implements persistence.BalanceRepository over a Store
type BalanceRepository struct {
	store *Store
	tx    *tx
}

// BalanceOf returns a copy of the account balance
func (r *BalanceRepository) BalanceOf(_ context.Context, account entity.Account) (*entity.Amount, error) {
	var balance *entity.Amount
	err := r.store.view(r.tx, func(st *state) error {
		balance = st.balance(account).Clone()
		return nil
	})
	return balance, err
}

// Transfer moves amount between two accounts
func (r *BalanceRepository) Transfer(_ context.Context, from, to entity.Account, amount *entity.Amount) error {
	return r.store.update(r.tx, func(st *state) error {
		available := st.balance(from)
		if available.Lt(amount) {
			return errs.NewInsufficientBalanceError(from.Hex(), entity.FormatAmount(amount), entity.FormatAmount(available))
		}
		if from == to {
			return nil
		}

		credited, err := entity.AddAmounts(st.balance(to), amount)
		if err != nil {
			return err
		}

		st.balances[from] = new(entity.Amount).Sub(available, amount)
		st.balances[to] = credited
		return nil
	})
}

// EventRepository implements persistence.EventRepository over a Store
type EventRepository struct {
	store *Store
	tx    *tx
}

// Append stores the event with the next sequence number
func (r *EventRepository) Append(_ context.Context, event *entity.LockEvent) error {
	return r.store.update(r.tx, func(st *state) error {
		st.sequence++
		event.Sequence = st.sequence
		stored := *event
		stored.Amount = event.Amount.Clone()
		st.events = append(st.events, &stored)
		return nil
	})
}

// ListByAccount returns the account's most recent events, oldest first
func (r *EventRepository) ListByAccount(_ context.Context, account entity.Account, limit int) ([]*entity.LockEvent, error) {
	var events []*entity.LockEvent
	err := r.store.view(r.tx, func(st *state) error {
		for _, event := range st.events {
			if event.Account != account {
				continue
			}
			copied := *event
			copied.Amount = event.Amount.Clone()
			events = append(events, &copied)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
