package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/model"
)

// EventRepository implements persistence.EventRepository using GORM
type EventRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewEventRepository creates a new EventRepository instance
func NewEventRepository(db *gorm.DB, logger coreport.Logger) *EventRepository {
	return &EventRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Append stores the event; the sequence comes from the table's auto-increment key
func (r *EventRepository) Append(ctx context.Context, event *entity.LockEvent) error {
	row := model.LockEvent{
		Kind:      string(event.Kind),
		Account:   accountKey(event.Account),
		Reason:    reasonKey(event.Reason),
		Amount:    entity.FormatAmount(event.Amount),
		CreatedAt: event.CreatedAt,
	}
	if event.Kind == entity.EventLocked {
		row.Validity = formatValidity(event.Validity)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.logger.Error("Database error when appending event", map[string]any{
			"event":   string(event.Kind),
			"account": event.Account.Hex(),
			"error":   err.Error(),
		})
		return r.errorClassifier.MapError("appending event", err)
	}

	event.Sequence = row.Sequence
	return nil
}

// ListByAccount returns the account's most recent events, oldest first
func (r *EventRepository) ListByAccount(ctx context.Context, account entity.Account, limit int) ([]*entity.LockEvent, error) {
	query := r.db.WithContext(ctx).
		Where("account = ?", accountKey(account)).
		Order("sequence desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.LockEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.MapError("listing events", err)
	}

	events := make([]*entity.LockEvent, len(rows))
	for i, row := range rows {
		event, err := r.modelToEntity(&row)
		if err != nil {
			return nil, err
		}
		events[len(rows)-1-i] = event
	}
	return events, nil
}

func (r *EventRepository) modelToEntity(row *model.LockEvent) (*entity.LockEvent, error) {
	if !entity.IsValidEventKind(row.Kind) {
		return nil, fmt.Errorf("%w: unknown event kind %q", errs.ErrInternalServer, row.Kind)
	}

	amount, err := parseStoredAmount(row.Amount)
	if err != nil {
		return nil, err
	}
	validity, err := parseValidity(row.Validity)
	if err != nil {
		return nil, err
	}

	return &entity.LockEvent{
		Sequence:  row.Sequence,
		Kind:      entity.EventKind(row.Kind),
		Account:   parseAccountKey(row.Account),
		Reason:    parseReasonKey(row.Reason),
		Amount:    amount,
		Validity:  validity,
		CreatedAt: row.CreatedAt,
	}, nil
}
