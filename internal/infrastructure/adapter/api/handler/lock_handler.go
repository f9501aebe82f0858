package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/dto"
)

// LockHandler handles the mutating lock endpoints
type LockHandler struct {
	ledger usecase.LockLedger
	logger coreport.Logger
}

// NewLockHandler creates a new lock handler instance
func NewLockHandler(ledger usecase.LockLedger, logger coreport.Logger) *LockHandler {
	return &LockHandler{
		ledger: ledger,
		logger: logger,
	}
}

// Lock handles POST /locks
func (h *LockHandler) Lock(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req dto.LockRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	reason, err := entity.ParseReason(req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.ledger.Lock(c.Request.Context(), caller, usecase.LockRequest{
		Reason:      reason,
		Amount:      amount,
		ReleaseTime: req.ReleaseTime,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewLockResponse(record))
}

// TransferWithLock handles POST /locks/transfer
func (h *LockHandler) TransferWithLock(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req dto.TransferLockRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	to, err := entity.ParseAccount(req.To)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	reason, err := entity.ParseReason(req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.ledger.TransferWithLock(c.Request.Context(), caller, usecase.TransferLockRequest{
		To:          to,
		Reason:      reason,
		Amount:      amount,
		ReleaseTime: req.ReleaseTime,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewLockResponse(record))
}

// BatchTransferWithLock handles POST /locks/batch
// Array lengths are left to the ledger so shape errors keep their domain code.
func (h *LockHandler) BatchTransferWithLock(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req dto.BatchTransferLockRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	batch := usecase.BatchTransferLockRequest{
		Recipients:   make([]entity.Account, len(req.Recipients)),
		Reasons:      make([]entity.Reason, len(req.Reasons)),
		Amounts:      make([]*entity.Amount, len(req.Amounts)),
		ReleaseTimes: req.Times,
	}
	for i, recipient := range req.Recipients {
		if batch.Recipients[i], err = entity.ParseAccount(recipient); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	for i, reason := range req.Reasons {
		if batch.Reasons[i], err = entity.ParseReason(reason); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	for i, amount := range req.Amounts {
		if batch.Amounts[i], err = entity.ParseAmount(amount); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	records, err := h.ledger.BatchTransferWithLock(c.Request.Context(), caller, batch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := dto.BatchLockResponse{Locks: make([]dto.LockResponse, 0, len(records))}
	for _, record := range records {
		response.Locks = append(response.Locks, dto.NewLockResponse(record))
	}
	c.JSON(http.StatusCreated, response)
}

// ExtendLock handles POST /locks/extend
func (h *LockHandler) ExtendLock(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req dto.ExtendLockRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	reason, err := entity.ParseReason(req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.ledger.ExtendLock(c.Request.Context(), caller, reason, req.ExtraTime)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLockResponse(record))
}

// IncreaseLockAmount handles POST /locks/increase
func (h *LockHandler) IncreaseLockAmount(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req dto.IncreaseLockRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	reason, err := entity.ParseReason(req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	amount, err := entity.ParseAmount(req.ExtraAmount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.ledger.IncreaseLockAmount(c.Request.Context(), caller, reason, amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLockResponse(record))
}

// Unlock handles POST /accounts/:account/unlock
func (h *LockHandler) Unlock(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	account, err := accountParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	released, err := h.ledger.Unlock(c.Request.Context(), caller, account)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnlockResponse{
		Account:  account.Hex(),
		Released: entity.FormatAmount(released),
	})
}
