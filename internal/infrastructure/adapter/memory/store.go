package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/persistence"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const txKey contextKey = "memory-tx"

type lockKey struct {
	account entity.Account
	reason  entity.Reason
}

// state is one consistent snapshot of the ledger
type state struct {
	balances map[entity.Account]*entity.Amount
	locks    map[lockKey]*entity.LockRecord
	reasons  map[entity.Account][]entity.Reason
	events   []*entity.LockEvent
	sequence uint64
}

func newState() *state {
	return &state{
		balances: make(map[entity.Account]*entity.Amount),
		locks:    make(map[lockKey]*entity.LockRecord),
		reasons:  make(map[entity.Account][]entity.Reason),
	}
}

// clone deep-copies everything a unit of work may modify
// Events are append-only and never mutated after append, so only the slice is copied.
func (s *state) clone() *state {
	c := &state{
		balances: make(map[entity.Account]*entity.Amount, len(s.balances)),
		locks:    make(map[lockKey]*entity.LockRecord, len(s.locks)),
		reasons:  make(map[entity.Account][]entity.Reason, len(s.reasons)),
		events:   append([]*entity.LockEvent(nil), s.events...),
		sequence: s.sequence,
	}
	for account, balance := range s.balances {
		c.balances[account] = balance.Clone()
	}
	for key, record := range s.locks {
		c.locks[key] = record.Clone()
	}
	for account, reasons := range s.reasons {
		c.reasons[account] = append([]entity.Reason(nil), reasons...)
	}
	return c
}

// tx is a unit of work over a private copy of the committed state
type tx struct {
	state *state
	done  bool
}

// Store is an in-memory implementation of the persistence ports
// A unit of work holds txMu from Begin until Commit or Rollback, so at most
// one is open at a time. Reads outside a unit of work see committed state.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	committed *state
	logger    coreport.Logger
}

var _ persistence.UnitOfWork = (*Store)(nil)

// NewStore creates an empty store
func NewStore(logger coreport.Logger) *Store {
	return &Store{
		committed: newState(),
		logger:    logger,
	}
}

// Begin snapshots the committed state into a new unit of work
func (s *Store) Begin(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return ctx, fmt.Errorf("failed to begin transaction: %w", err)
	}

	s.txMu.Lock()

	s.mu.RLock()
	snapshot := s.committed.clone()
	s.mu.RUnlock()

	s.logger.Debug("Beginning in-memory transaction", nil)
	return context.WithValue(ctx, txKey, &tx{state: snapshot}), nil
}

// Commit publishes the unit of work's state
func (s *Store) Commit(ctx context.Context) error {
	t, ok := ctx.Value(txKey).(*tx)
	if !ok || t == nil {
		return fmt.Errorf("no transaction found in context")
	}
	if t.done {
		return fmt.Errorf("transaction has already been committed or rolled back")
	}

	s.mu.Lock()
	s.committed = t.state
	s.mu.Unlock()

	t.done = true
	s.txMu.Unlock()

	s.logger.Debug("Committed in-memory transaction", nil)
	return nil
}

// Rollback discards the unit of work's state
func (s *Store) Rollback(ctx context.Context) error {
	t, ok := ctx.Value(txKey).(*tx)
	if !ok || t == nil {
		return fmt.Errorf("no transaction found in context")
	}
	if t.done {
		s.logger.Warn("Transaction has already been committed or rolled back", nil)
		return nil
	}

	t.done = true
	s.txMu.Unlock()

	s.logger.Debug("Rolled back in-memory transaction", nil)
	return nil
}

// GetLockRepository returns a lock repository in the current transaction
func (s *Store) GetLockRepository(ctx context.Context) persistence.LockRepository {
	return &LockRepository{store: s, tx: txFromContext(ctx)}
}

// GetBalanceRepository returns a balance repository in the current transaction
func (s *Store) GetBalanceRepository(ctx context.Context) persistence.BalanceRepository {
	return &BalanceRepository{store: s, tx: txFromContext(ctx)}
}

// GetEventRepository returns an event repository in the current transaction
func (s *Store) GetEventRepository(ctx context.Context) persistence.EventRepository {
	return &EventRepository{store: s, tx: txFromContext(ctx)}
}

// Credit adds amount to an account outside the lock ledger, used for genesis balances
func (s *Store) Credit(ctx context.Context, account entity.Account, amount *entity.Amount) error {
	return s.update(txFromContext(ctx), func(st *state) error {
		balance, err := entity.AddAmounts(st.balance(account), amount)
		if err != nil {
			return err
		}
		st.balances[account] = balance
		return nil
	})
}

func txFromContext(ctx context.Context) *tx {
	t, ok := ctx.Value(txKey).(*tx)
	if !ok || t == nil || t.done {
		return nil
	}
	return t
}

// view runs fn against the unit of work's state or, outside one, the committed state
func (s *Store) view(t *tx, fn func(st *state) error) error {
	if t != nil {
		return fn(t.state)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// update runs fn against the unit of work's state or applies it atomically
// to the committed state
// Outside a unit of work it waits on txMu so an open one cannot commit over the write.
func (s *Store) update(t *tx, fn func(st *state) error) error {
	if t != nil {
		return fn(t.state)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.committed.clone()
	if err := fn(draft); err != nil {
		return err
	}
	s.committed = draft
	return nil
}

func (st *state) balance(account entity.Account) *entity.Amount {
	if balance, ok := st.balances[account]; ok {
		return balance
	}
	return entity.ZeroAmount()
}
