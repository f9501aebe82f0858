package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/model"
)

// LockRepository implements persistence.LockRepository using GORM
type LockRepository struct {
	db              *gorm.DB
	locking         bool
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLockRepository creates a new LockRepository instance
func NewLockRepository(db *gorm.DB, locking bool, timeProvider coreport.TimeProvider, logger coreport.Logger) *LockRepository {
	return &LockRepository{
		db:              db,
		locking:         locking,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a lock record model to an entity
func (r *LockRepository) modelToEntity(row *model.LockRecord) (*entity.LockRecord, error) {
	amount, err := parseStoredAmount(row.Amount)
	if err != nil {
		return nil, err
	}
	validity, err := parseValidity(row.Validity)
	if err != nil {
		return nil, err
	}

	return &entity.LockRecord{
		Account:   parseAccountKey(row.Account),
		Reason:    parseReasonKey(row.Reason),
		Amount:    amount,
		Validity:  validity,
		Claimed:   row.Claimed,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// GetLock retrieves a record, or an empty one for an unused slot
func (r *LockRepository) GetLock(ctx context.Context, account entity.Account, reason entity.Reason) (*entity.LockRecord, error) {
	var row model.LockRecord
	err := forUpdate(r.db.WithContext(ctx), r.locking).
		Where("account = ? AND reason = ?", accountKey(account), reasonKey(reason)).
		Take(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.NewLockRecord(account, reason), nil
	}
	if err != nil {
		r.logger.Error("Database error when getting lock", map[string]any{
			"account": account.Hex(),
			"reason":  entity.ReasonString(reason),
			"error":   err.Error(),
		})
		return nil, r.errorClassifier.MapError("getting lock", err)
	}

	return r.modelToEntity(&row)
}

// SaveLock inserts or overwrites a record
func (r *LockRepository) SaveLock(ctx context.Context, record *entity.LockRecord) error {
	now := r.timeProvider.Now()
	row := model.LockRecord{
		Account:   accountKey(record.Account),
		Reason:    reasonKey(record.Reason),
		Amount:    entity.FormatAmount(record.Amount),
		Validity:  formatValidity(record.Validity),
		Claimed:   record.Claimed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}, {Name: "reason"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "validity", "claimed", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		r.logger.Error("Database error when saving lock", map[string]any{
			"account": record.Account.Hex(),
			"reason":  entity.ReasonString(record.Reason),
			"error":   err.Error(),
		})
		return r.errorClassifier.MapError("saving lock", err)
	}

	r.logger.Debug("Lock saved", map[string]any{
		"account":  record.Account.Hex(),
		"reason":   entity.ReasonString(record.Reason),
		"amount":   row.Amount,
		"validity": record.Validity,
		"claimed":  record.Claimed,
	})
	return nil
}

// ListReasons returns the account's reason index ordered by position
func (r *LockRepository) ListReasons(ctx context.Context, account entity.Account) ([]entity.Reason, error) {
	var rows []model.LockReason
	err := r.db.WithContext(ctx).
		Where("account = ?", accountKey(account)).
		Order("position asc").
		Find(&rows).Error
	if err != nil {
		return nil, r.errorClassifier.MapError("listing reasons", err)
	}

	reasons := make([]entity.Reason, 0, len(rows))
	for _, row := range rows {
		reasons = append(reasons, parseReasonKey(row.Reason))
	}
	return reasons, nil
}

// AppendReason adds reason to the end of the account's index unless present
func (r *LockRepository) AppendReason(ctx context.Context, account entity.Account, reason entity.Reason) error {
	row := model.LockReason{
		Account:   accountKey(account),
		Reason:    reasonKey(reason),
		CreatedAt: r.timeProvider.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return r.errorClassifier.MapError("appending reason", err)
	}
	return nil
}
