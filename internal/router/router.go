package router

import (
	"github.com/LakshyaDuck/finance-tracker/internal/config"
	"github.com/LakshyaDuck/finance-tracker/internal/handler"
	"github.com/LakshyaDuck/finance-tracker/internal/middleware"
	"github.com/LakshyaDuck/finance-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires services, handlers and middleware onto a Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// services
	authSvc := service.NewAuth(db, cfg.Security.BcryptCost, cfg.JWT.ExpireHours)
	ledger := service.NewLedger(db)
	transfers := service.NewTransfers(db)
	accounts := service.NewAccounts(db)
	categories := service.NewCategories(db)
	budgets := service.NewBudgets(db)
	analytics := service.NewAnalytics(db, budgets)

	// handlers
	authHandler := handler.NewAuthHandler(authSvc, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	txHandler := handler.NewTransactionHandler(ledger, transfers)
	accountHandler := handler.NewAccountHandler(accounts)
	categoryHandler := handler.NewCategoryHandler(categories)
	budgetHandler := handler.NewBudgetHandler(budgets)
	analyticsHandler := handler.NewAnalyticsHandler(analytics)
	exportHandler := handler.NewExportHandler(ledger)

	// ====== API ======
	api := r.Group("/api")

	// no auth required
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", authHandler.GetMe)
	protected.POST("/me/password", authHandler.ChangePassword)
	protected.POST("/me/currency", authHandler.ChangeCurrency)

	protected.POST("/transactions", txHandler.Create)
	protected.GET("/transactions", txHandler.List)
	protected.DELETE("/transactions/:id", txHandler.Delete)
	protected.GET("/transfers", txHandler.ListTransfers)

	protected.GET("/accounts", accountHandler.List)
	protected.POST("/accounts", accountHandler.Create)
	protected.PUT("/accounts/:id", accountHandler.Rename)
	protected.DELETE("/accounts/:id", accountHandler.Delete)
	protected.POST("/accounts/switch", accountHandler.Switch)

	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	protected.GET("/budgets", budgetHandler.Status)
	protected.POST("/budgets", budgetHandler.Upsert)

	protected.GET("/home", analyticsHandler.Home)
	protected.GET("/analytics", analyticsHandler.Report)

	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
