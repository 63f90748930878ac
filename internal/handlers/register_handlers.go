package handlers

import (
	"github.com/budgetms/budget_management_app/cmd/docs"
	"github.com/budgetms/budget_management_app/internal/adapters/database/pgsql"
	"github.com/budgetms/budget_management_app/internal/core/services"
	"github.com/budgetms/budget_management_app/internal/middleware"
	"github.com/budgetms/budget_management_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, pool *pgxpool.Pool, authLimiter *limiter.Limiter) {
	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, pool, authLimiter)
	setupAPIV1Routes(r, cfg, pool)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes registers the public, rate-limited auth endpoints.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, pool *pgxpool.Pool, authLimiter *limiter.Limiter) {
	authService := services.NewAuthService(pgsql.NewUserRepository(pool), cfg)
	h := newAuthHandler(authService)

	auth := r.Group("/auth", middleware.RateLimit(authLimiter))
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations. Everything under v1 requires an authenticated
// principal.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, pool *pgxpool.Pool) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	budgetRepo := pgsql.NewBudgetRepository(pool)
	cashRequestRepo := pgsql.NewCashRequestRepository(pool)
	expenseRepo := pgsql.NewExpenseRepository(pool)

	registerBudgetRoutes(v1, services.NewBudgetService(budgetRepo))
	RegisterCashRequestRoutes(v1, services.NewCashRequestService(cashRequestRepo, budgetRepo))
	registerExpenseRoutes(v1, services.NewExpenseService(expenseRepo, budgetRepo))
	registerDashboardRoutes(v1, services.NewDashboardService(budgetRepo, cashRequestRepo, expenseRepo))
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService *services.BudgetService) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/approved", h.listApprovedBudgets)
		budgets.GET("/:id", h.getBudget)
		budgets.POST("/:id/approve", h.approveBudget)
		budgets.POST("/:id/reject", h.rejectBudget)
	}
}

// RegisterCashRequestRoutes mounts the cash request endpoints on rg.
func RegisterCashRequestRoutes(rg *gin.RouterGroup, cashRequestService *services.CashRequestService) {
	h := newCashRequestHandler(cashRequestService)

	cashRequests := rg.Group("/cash-requests")
	{
		cashRequests.POST("", h.createCashRequest)
		cashRequests.GET("", h.listCashRequests)
		cashRequests.GET("/:id", h.getCashRequest)
		cashRequests.PATCH("/:id", h.updateCashRequest)
		cashRequests.DELETE("/:id", h.deleteCashRequest)
		cashRequests.POST("/:id/approve", h.approveCashRequest)
		cashRequests.POST("/:id/reject", h.rejectCashRequest)
		cashRequests.POST("/:id/disburse", h.disburseCashRequest)
	}
}

func registerExpenseRoutes(rg *gin.RouterGroup, expenseService *services.ExpenseService) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.POST("/:id/verify", h.verifyExpense)
	}
}

func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService *services.DashboardService) {
	h := newDashboardHandler(dashboardService)
	rg.GET("/dashboard", h.getDashboard)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
