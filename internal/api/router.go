package api

import (
	"moneybook/internal/auth"       // Auth service
	"moneybook/internal/ledger"     // Ledger service
	"moneybook/internal/middleware" // JWT middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// NewRouter wires every endpoint under the /api base path. rdb may be nil,
// in which case the aggregate handlers skip caching.
func NewRouter(authSvc *auth.Service, ledgerSvc *ledger.Service, rdb *redis.Client, jwtSecret string) *gin.Engine {
	r := gin.Default() // Gin router instance with logging and recovery

	root := r.Group("/api")

	// Public routes
	root.POST("/register", RegisterHandler(authSvc)) // Registration endpoint
	root.POST("/login", LoginHandler(authSvc))       // Login endpoint

	// Ledger routes (protected by JWT)
	protected := root.Group("")
	protected.Use(middleware.JWTAuthMiddleware(jwtSecret))
	protected.GET("/name", NameHandler(authSvc))                                   // Display name endpoint
	protected.POST("/income", AddIncomeHandler(ledgerSvc, rdb))                    // Add income endpoint
	protected.POST("/expense", AddExpenseHandler(ledgerSvc, rdb))                  // Add expense endpoint
	protected.GET("/income/total", TotalIncomeHandler(ledgerSvc, rdb))             // Income total endpoint
	protected.GET("/expense/total", TotalExpenseHandler(ledgerSvc, rdb))           // Expense total endpoint
	protected.GET("/income/categories", IncomeCategoriesHandler(ledgerSvc, rdb))   // Income breakdown endpoint
	protected.GET("/expense/categories", ExpenseCategoriesHandler(ledgerSvc, rdb)) // Expense breakdown endpoint
	protected.GET("/balance", BalanceHandler(ledgerSvc, rdb))                      // Balance endpoint
	protected.GET("/activity", ActivityHandler(ledgerSvc, rdb))                    // Activity feed endpoint

	return r
}
