package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/dto"
)

// CallerHeader carries the address of the account invoking a mutating endpoint
const CallerHeader = "X-Caller-Address"

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case domainerr.IsUnauthorizedError(err):
		return http.StatusForbidden
	case domainerr.IsConflictError(err):
		return http.StatusConflict
	case domainerr.IsInsufficientBalanceError(err):
		return http.StatusUnprocessableEntity
	case domainerr.IsValidationError(err):
		return http.StatusBadRequest
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrDatabaseConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response for err
// Server side failures are logged and their details hidden from the client.
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	status := statusFor(err)
	response := dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	}

	var batchErr *domainerr.BatchError
	if errors.As(err, &batchErr) {
		index := batchErr.Index
		response.Index = &index
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", map[string]any{
			"path":   c.FullPath(),
			"method": c.Request.Method,
			"error":  err.Error(),
		})
		response.Message = http.StatusText(status)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, response)
}

// callerFrom reads the caller identity header
func callerFrom(c *gin.Context) (entity.Account, error) {
	value := c.GetHeader(CallerHeader)
	if value == "" {
		return entity.Account{}, errors.Join(domainerr.ErrInvalidRequest, errors.New("missing required header: "+CallerHeader))
	}
	return entity.ParseAccount(value)
}

// accountParam reads the :account path parameter
func accountParam(c *gin.Context) (entity.Account, error) {
	return entity.ParseAccount(c.Param("account"))
}

// bindJSON decodes the request body into req
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.Join(domainerr.ErrInvalidRequest, err)
	}
	return nil
}
