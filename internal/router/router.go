package router

import (
	"github.com/aastha-raghuvanshi/welth/internal/ai"
	"github.com/aastha-raghuvanshi/welth/internal/config"
	"github.com/aastha-raghuvanshi/welth/internal/handler"
	"github.com/aastha-raghuvanshi/welth/internal/ledger"
	"github.com/aastha-raghuvanshi/welth/internal/limiter"
	"github.com/aastha-raghuvanshi/welth/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Setup wires the gin engine. All dependencies are constructed by the caller
// and injected here; the router owns no state of its own.
func Setup(cfg *config.Config, db *gorm.DB, log zerolog.Logger, svc *ledger.Service, scanner *ai.Scanner) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLog(log), gin.Recovery())

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(jwtSecret, db))

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db))

	accountHandler := handler.NewAccountHandler(db)
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.GET("/accounts/:id", accountHandler.GetAccount)

	txnHandler := handler.NewTransactionHandler(svc, scanner, log)
	protected.GET("/transactions", txnHandler.ListTransactions)
	protected.GET("/transactions/:id", txnHandler.GetTransaction)
	protected.PUT("/transactions/:id", txnHandler.UpdateTransaction)

	// mutating writes and model calls go through the per-user limiter
	lim := limiter.New(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, cfg.RateLimit.BlockedUserIDs)
	limited := protected.Group("")
	limited.Use(middleware.RateLimit(lim, log))
	limited.POST("/transactions", txnHandler.CreateTransaction)
	limited.POST("/receipts/scan", txnHandler.ScanReceipt)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
