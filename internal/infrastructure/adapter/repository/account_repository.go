package repository

import (
	"bytes"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/model"
)

// AccountRepository implements BalanceRepository using GORM
type AccountRepository struct {
	db              *gorm.DB
	locking         bool
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
// When locking is set, rows read for a transfer are locked with FOR UPDATE.
func NewAccountRepository(db *gorm.DB, locking bool, timeProvider coreport.TimeProvider, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		locking:         locking,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// BalanceOf returns the balance of an account, zero when it has no row
func (r *AccountRepository) BalanceOf(ctx context.Context, account entity.Account) (*entity.Amount, error) {
	row, err := r.load(r.db.WithContext(ctx), account, false)
	if err != nil {
		return nil, err
	}
	return parseStoredAmount(row.Balance)
}

// Transfer moves amount from one account to another
// Both rows are locked in address order so concurrent transfers cannot deadlock.
func (r *AccountRepository) Transfer(ctx context.Context, from, to entity.Account, amount *entity.Amount) error {
	r.logger.Debug("Transferring balance", map[string]any{
		"from":   from.Hex(),
		"to":     to.Hex(),
		"amount": entity.FormatAmount(amount),
	})

	db := r.db.WithContext(ctx)

	first, second := from, to
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}

	rows := make(map[entity.Account]*model.Account, 2)
	for _, account := range []entity.Account{first, second} {
		if _, ok := rows[account]; ok {
			continue
		}
		row, err := r.load(db, account, r.locking)
		if err != nil {
			return err
		}
		rows[account] = row
	}

	available, err := parseStoredAmount(rows[from].Balance)
	if err != nil {
		return err
	}
	if available.Lt(amount) {
		return errs.NewInsufficientBalanceError(from.Hex(), entity.FormatAmount(amount), entity.FormatAmount(available))
	}
	if from == to {
		return nil
	}

	current, err := parseStoredAmount(rows[to].Balance)
	if err != nil {
		return err
	}
	credited, err := entity.AddAmounts(current, amount)
	if err != nil {
		return err
	}

	now := r.timeProvider.Now()
	if err := r.store(db, rows[from], new(entity.Amount).Sub(available, amount), now); err != nil {
		return err
	}
	return r.store(db, rows[to], credited, now)
}

// Credit adds amount to an account outside the lock ledger, used for genesis balances
func (r *AccountRepository) Credit(ctx context.Context, account entity.Account, amount *entity.Amount) error {
	db := r.db.WithContext(ctx)

	row, err := r.load(db, account, r.locking)
	if err != nil {
		return err
	}
	current, err := parseStoredAmount(row.Balance)
	if err != nil {
		return err
	}
	credited, err := entity.AddAmounts(current, amount)
	if err != nil {
		return err
	}

	if err := r.store(db, row, credited, r.timeProvider.Now()); err != nil {
		return err
	}

	r.logger.Info("Account credited", map[string]any{
		"account": account.Hex(),
		"amount":  entity.FormatAmount(amount),
		"balance": entity.FormatAmount(credited),
	})
	return nil
}

// load reads an account row; a missing row is returned as an unsaved zero balance
func (r *AccountRepository) load(db *gorm.DB, account entity.Account, locking bool) (*model.Account, error) {
	var row model.Account
	err := forUpdate(db, locking).Where("address = ?", accountKey(account)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Account{Address: accountKey(account), Balance: "0"}, nil
	}
	if err != nil {
		r.logger.Error("Database error when loading account", map[string]any{
			"account": account.Hex(),
			"error":   err.Error(),
		})
		return nil, r.errorClassifier.MapError("loading account", err)
	}
	return &row, nil
}

// store upserts an account row with a new balance
func (r *AccountRepository) store(db *gorm.DB, row *model.Account, balance *entity.Amount, now time.Time) error {
	row.Balance = entity.FormatAmount(balance)
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		r.logger.Error("Database error when storing account", map[string]any{
			"account": row.Address,
			"error":   err.Error(),
		})
		return r.errorClassifier.MapError("storing account", err)
	}
	return nil
}
