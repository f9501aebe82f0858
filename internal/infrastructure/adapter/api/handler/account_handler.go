package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/dto"
)

// DefaultEventLimit bounds GET /accounts/:account/events when no limit is given
const DefaultEventLimit = 100

// AccountHandler handles the read-only account endpoints
type AccountHandler struct {
	ledger usecase.LockLedger
	logger coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(ledger usecase.LockLedger, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{
		ledger: ledger,
		logger: logger,
	}
}

// GetBalance handles GET /accounts/:account/balance
func (h *AccountHandler) GetBalance(c *gin.Context) {
	account, err := accountParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	summary, err := h.ledger.BalanceSummary(c.Request.Context(), account)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBalanceResponse(summary))
}

// GetLocks handles GET /accounts/:account/locks
func (h *AccountHandler) GetLocks(c *gin.Context) {
	account, err := accountParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	states, err := h.ledger.LockStates(c.Request.Context(), account)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := dto.LocksResponse{
		Account: account.Hex(),
		Locks:   make([]dto.LockStateResponse, 0, len(states)),
	}
	for i, state := range states {
		response.Locks = append(response.Locks, dto.LockStateResponse{
			Index:      i,
			Reason:     entity.ReasonString(state.Reason),
			Amount:     entity.FormatAmount(state.Record.Amount),
			Validity:   state.Record.Validity,
			Claimed:    state.Record.Claimed,
			Locked:     entity.FormatAmount(state.Locked),
			Unlockable: entity.FormatAmount(state.Unlockable),
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetLock handles GET /accounts/:account/locks/:reason
// With ?at=<unix seconds> the response also carries TokensLockedAtTime.
func (h *AccountHandler) GetLock(c *gin.Context) {
	account, err := accountParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	reason, err := entity.ParseReason(c.Param("reason"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()

	record, err := h.ledger.GetLock(ctx, account, reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	locked, err := h.ledger.TokensLocked(ctx, account, reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	unlockable, err := h.ledger.TokensUnlockable(ctx, account, reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := dto.ReasonLockResponse{
		Account:    account.Hex(),
		Reason:     entity.ReasonString(reason),
		Locked:     entity.FormatAmount(locked),
		Unlockable: entity.FormatAmount(unlockable),
		Validity:   record.Validity,
		Claimed:    record.Claimed,
	}

	if raw, ok := c.GetQuery("at"); ok {
		at, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, h.logger, errors.Join(domainerr.ErrInvalidTime, err))
			return
		}
		lockedAt, err := h.ledger.TokensLockedAtTime(ctx, account, reason, at)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		response.At = &at
		response.LockedAt = entity.FormatAmount(lockedAt)
	}

	c.JSON(http.StatusOK, response)
}

// GetLockReason handles GET /accounts/:account/reasons/:index
func (h *AccountHandler) GetLockReason(c *gin.Context) {
	account, err := accountParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, h.logger, errors.Join(domainerr.ErrInvalidRequest, err))
		return
	}

	reason, err := h.ledger.LockReasonAt(c.Request.Context(), account, index)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": account.Hex(),
		"index":   index,
		"reason":  entity.ReasonString(reason),
	})
}

// GetEvents handles GET /accounts/:account/events
func (h *AccountHandler) GetEvents(c *gin.Context) {
	account, err := accountParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	limit := DefaultEventLimit
	if raw, ok := c.GetQuery("limit"); ok {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			respondError(c, h.logger, errors.Join(domainerr.ErrInvalidRequest, errors.New("limit must be a non-negative integer")))
			return
		}
	}

	events, err := h.ledger.Events(c.Request.Context(), account, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := dto.EventsResponse{
		Account: account.Hex(),
		Events:  make([]dto.EventResponse, 0, len(events)),
	}
	for _, event := range events {
		response.Events = append(response.Events, dto.NewEventResponse(event))
	}

	c.JSON(http.StatusOK, response)
}

// GetEscrow handles GET /escrow
func (h *AccountHandler) GetEscrow(c *gin.Context) {
	balance, err := h.ledger.EscrowBalance(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.EscrowResponse{
		Account: h.ledger.Escrow().Hex(),
		Balance: entity.FormatAmount(balance),
	})
}
