package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the handlers served by the API
type Handlers struct {
	Lock    *handler.LockHandler
	Account *handler.AccountHandler

	// Metrics is mounted at MetricsPath when set
	Metrics     http.Handler
	MetricsPath string
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Mutating lock routes, caller taken from the X-Caller-Address header
	lockRoutes := router.Group("/locks")
	{
		lockRoutes.POST("", h.Lock.Lock)
		lockRoutes.POST("/transfer", h.Lock.TransferWithLock)
		lockRoutes.POST("/batch", h.Lock.BatchTransferWithLock)
		lockRoutes.POST("/extend", h.Lock.ExtendLock)
		lockRoutes.POST("/increase", h.Lock.IncreaseLockAmount)
	}

	accountRoutes := router.Group("/accounts/:account")
	{
		accountRoutes.POST("/unlock", h.Lock.Unlock)

		accountRoutes.GET("/balance", h.Account.GetBalance)
		accountRoutes.GET("/locks", h.Account.GetLocks)
		accountRoutes.GET("/locks/:reason", h.Account.GetLock)
		accountRoutes.GET("/reasons/:index", h.Account.GetLockReason)
		accountRoutes.GET("/events", h.Account.GetEvents)
	}

	router.GET("/escrow", h.Account.GetEscrow)

	if h.Metrics != nil {
		path := h.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(h.Metrics))
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider) {
	// Apply middlewares in the correct order
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, timeProvider))
}
