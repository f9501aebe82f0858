package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/usecase"
)

// DefaultMaxBatchSize bounds BatchTransferWithLock when no limit is configured
const DefaultMaxBatchSize = 100

// Config holds the ledger settings
type Config struct {
	EscrowAccount entity.Account
	MaxBatchSize  int
}

// Ledger implements usecase.LockLedger on top of a unit of work
type Ledger struct {
	uow          persistence.UnitOfWork
	authorizer   coreport.Authorizer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.Metrics
	validator    *RequestValidator

	escrow       entity.Account
	maxBatchSize int

	// mu serializes every mutating operation, escrow debits and credits included
	mu sync.Mutex
}

var _ usecase.LockLedger = (*Ledger)(nil)

// NewLedger creates a new lock ledger
func NewLedger(
	uow persistence.UnitOfWork,
	authorizer coreport.Authorizer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.Metrics,
	cfg Config,
) *Ledger {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}

	return &Ledger{
		uow:          uow,
		authorizer:   authorizer,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
		validator:    NewRequestValidator(),
		escrow:       cfg.EscrowAccount,
		maxBatchSize: cfg.MaxBatchSize,
	}
}

// Escrow returns the account that holds locked tokens
func (l *Ledger) Escrow() entity.Account {
	return l.escrow
}

// scope carries the repositories of one unit of work and the events it produced
type scope struct {
	locks    persistence.LockRepository
	balances persistence.BalanceRepository
	events   persistence.EventRepository

	at       time.Time
	now      uint64
	emitted  []*entity.LockEvent
	locked   *entity.Amount
	released *entity.Amount
}

func (s *scope) emit(ctx context.Context, event *entity.LockEvent) error {
	if err := s.events.Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append %s event: %w", event.Kind, err)
	}
	s.emitted = append(s.emitted, event)
	return nil
}

// unixSeconds converts a wall clock time to the ledger's time unit
func unixSeconds(t time.Time) uint64 {
	sec := t.Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec)
}

// execute runs fn in a unit of work while holding the ledger mutex
// The work is rolled back on any error. Events are logged only once committed.
func (l *Ledger) execute(ctx context.Context, op string, fn func(ctx context.Context, s *scope) error) error {
	started := l.timeProvider.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	txCtx, err := l.uow.Begin(ctx)
	if err != nil {
		l.logger.Error("Failed to begin unit of work", map[string]any{
			"operation": op,
			"error":     err.Error(),
		})
		l.observe(op, err, started)
		return fmt.Errorf("failed to begin %s: %w", op, err)
	}

	at := l.timeProvider.Now()
	s := &scope{
		locks:    l.uow.GetLockRepository(txCtx),
		balances: l.uow.GetBalanceRepository(txCtx),
		events:   l.uow.GetEventRepository(txCtx),
		at:       at,
		now:      unixSeconds(at),
		locked:   entity.ZeroAmount(),
		released: entity.ZeroAmount(),
	}

	if err := fn(txCtx, s); err != nil {
		if rbErr := l.uow.Rollback(txCtx); rbErr != nil {
			l.logger.Error("Failed to roll back unit of work", map[string]any{
				"operation": op,
				"error":     rbErr.Error(),
			})
		}
		l.logFailure(op, err)
		l.observe(op, err, started)
		return err
	}

	if err := l.uow.Commit(txCtx); err != nil {
		l.logger.Error("Failed to commit unit of work", map[string]any{
			"operation": op,
			"error":     err.Error(),
		})
		l.observe(op, err, started)
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}

	for _, event := range s.emitted {
		l.logger.Info("Lock event", event.LogFields())
	}
	if !s.locked.IsZero() {
		l.metrics.AddLocked(entity.AmountToFloat(s.locked))
	}
	if !s.released.IsZero() {
		l.metrics.AddReleased(entity.AmountToFloat(s.released))
	}
	l.publishEscrow(ctx)
	l.observe(op, nil, started)

	return nil
}

// authorize rejects callers without the locking role
func (l *Ledger) authorize(ctx context.Context, caller entity.Account) error {
	ok, err := l.authorizer.IsAuthorized(ctx, caller)
	if err != nil {
		return fmt.Errorf("authorization check failed: %w", err)
	}
	if !ok {
		return errs.ErrUnauthorized
	}
	return nil
}

func (l *Ledger) logFailure(op string, err error) {
	fields := map[string]any{
		"operation": op,
		"error":     err.Error(),
	}

	var lockErr *errs.LockError
	if errors.As(err, &lockErr) {
		fields = lockErr.LogFields()
	}

	var batchErr *errs.BatchError
	if errors.As(err, &batchErr) {
		fields["batch_index"] = batchErr.Index
	}

	if isRejection(err) {
		l.logger.Warn("Lock operation rejected", fields)
		return
	}
	l.logger.Error("Lock operation failed", fields)
}

func (l *Ledger) observe(op string, err error, started time.Time) {
	outcome := coreport.OutcomeSuccess
	switch {
	case err == nil:
	case isRejection(err):
		outcome = coreport.OutcomeRejected
	default:
		outcome = coreport.OutcomeFailed
	}
	l.metrics.ObserveOperation(op, outcome, l.timeProvider.Since(started))
}

func (l *Ledger) publishEscrow(ctx context.Context) {
	balance, err := l.uow.GetBalanceRepository(ctx).BalanceOf(ctx, l.escrow)
	if err != nil {
		l.logger.Warn("Failed to read escrow balance", map[string]any{
			"error": err.Error(),
		})
		return
	}
	l.metrics.SetEscrowBalance(entity.AmountToFloat(balance))
}

// isRejection reports whether err is a precondition failure rather than a fault
func isRejection(err error) bool {
	return errs.IsValidationError(err) ||
		errs.IsConflictError(err) ||
		errs.IsUnauthorizedError(err) ||
		errs.IsInsufficientBalanceError(err) ||
		errs.IsNotFoundError(err)
}
