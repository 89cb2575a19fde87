package api

import (
	"context"  // Context for cache operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"regexp"   // Month format validation
	"strconv"  // Cache key construction
	"time"     // Cache TTL

	"moneybook/internal/ledger" // Ledger service
	"moneybook/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// aggregateCacheTTL is how long cached aggregate reads stay fresh
const aggregateCacheTTL = 60 * time.Second

// monthPattern matches the YYYY-MM period filter
var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// TransactionRequest is the body shared by the income and expense endpoints
type TransactionRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"` // Amount must be strictly positive
	Category string  `json:"category" binding:"required"`    // Category must be provided
}

// IncomeCategoryResponse is one row of the income-per-category breakdown
type IncomeCategoryResponse struct {
	Category    string  `json:"category"`     // Category label
	TotalIncome float64 `json:"total_income"` // Summed income in the category
}

// ExpenseCategoryResponse is one row of the expense-per-category breakdown
type ExpenseCategoryResponse struct {
	Category     string  `json:"category"`      // Category label
	TotalExpense float64 `json:"total_expense"` // Summed expense in the category
}

// AddIncomeHandler records an income transaction for the authenticated owner
func AddIncomeHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := authedUser(c)
		if userID == "" {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request: amount (> 0) and category are required")
			return
		}
		t, err := svc.RecordIncome(c.Request.Context(), userID, req.Amount, req.Category)
		if err != nil {
			writeLedgerError(c, userID, "Failed to add income", err)
			return
		}
		// Log the write, then drop the user's cached aggregates
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,
			"amount":   t.Amount,
			"category": t.Category,
			"type":     t.Kind,
		}).Info("Income recorded")
		_ = utils.BumpCacheVersion(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusCreated, gin.H{
			"status":     "success",
			"message":    "Income has been added successfully",
			"dataIncome": t, // Created record verbatim
		})
	}
}

// AddExpenseHandler records an expense transaction for the authenticated owner
func AddExpenseHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := authedUser(c)
		if userID == "" {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request: amount (> 0) and category are required")
			return
		}
		t, err := svc.RecordExpense(c.Request.Context(), userID, req.Amount, req.Category)
		if err != nil {
			writeLedgerError(c, userID, "Failed to add expense", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,
			"amount":   t.Amount,
			"category": t.Category,
			"type":     t.Kind,
		}).Info("Expense recorded")
		_ = utils.BumpCacheVersion(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusCreated, gin.H{
			"status":      "success",
			"message":     "Expense has been added successfully",
			"dataExpense": t, // Created record verbatim
		})
	}
}

// TotalIncomeHandler returns the owner's income total, optionally month-filtered
func TotalIncomeHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, month, ok := aggregateQuery(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := aggregateKey(ctx, rdb, userID, "income_total", month)
		var total float64
		// Serve from cache when fresh
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &total); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"status": "success", "total_income": total, "cached": true})
			return
		}
		total, err := svc.TotalIncome(ctx, userID, month)
		if err != nil {
			writeLedgerError(c, userID, "Failed to get total income", err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, total, aggregateCacheTTL)
		c.JSON(http.StatusOK, gin.H{"status": "success", "total_income": total})
	}
}

// TotalExpenseHandler returns the owner's expense total, optionally month-filtered
func TotalExpenseHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, month, ok := aggregateQuery(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := aggregateKey(ctx, rdb, userID, "expense_total", month)
		var total float64
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &total); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"status": "success", "total_expense": total, "cached": true})
			return
		}
		total, err := svc.TotalExpense(ctx, userID, month)
		if err != nil {
			writeLedgerError(c, userID, "Failed to get total expense", err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, total, aggregateCacheTTL)
		c.JSON(http.StatusOK, gin.H{"status": "success", "total_expense": total})
	}
}

// IncomeCategoriesHandler returns the owner's income grouped by category
func IncomeCategoriesHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, month, ok := aggregateQuery(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := aggregateKey(ctx, rdb, userID, "income_categories", month)
		var rows []IncomeCategoryResponse
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &rows); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"status": "success", "incomeCategories": rows, "cached": true})
			return
		}
		groups, err := svc.IncomeByCategory(ctx, userID, month)
		if err != nil {
			writeLedgerError(c, userID, "Failed to retrieve income data", err)
			return
		}
		rows = make([]IncomeCategoryResponse, len(groups))
		for i, g := range groups {
			rows[i] = IncomeCategoryResponse{Category: g.Category, TotalIncome: g.Total}
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, rows, aggregateCacheTTL)
		c.JSON(http.StatusOK, gin.H{"status": "success", "incomeCategories": rows})
	}
}

// ExpenseCategoriesHandler returns the owner's expenses grouped by category
func ExpenseCategoriesHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, month, ok := aggregateQuery(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := aggregateKey(ctx, rdb, userID, "expense_categories", month)
		var rows []ExpenseCategoryResponse
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &rows); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"status": "success", "expenseCategories": rows, "cached": true})
			return
		}
		groups, err := svc.ExpenseByCategory(ctx, userID, month)
		if err != nil {
			writeLedgerError(c, userID, "Failed to retrieve expense data", err)
			return
		}
		rows = make([]ExpenseCategoryResponse, len(groups))
		for i, g := range groups {
			rows[i] = ExpenseCategoryResponse{Category: g.Category, TotalExpense: g.Total}
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, rows, aggregateCacheTTL)
		c.JSON(http.StatusOK, gin.H{"status": "success", "expenseCategories": rows})
	}
}

// BalanceHandler returns the owner's all-time totals and balance
func BalanceHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := authedUser(c)
		if userID == "" {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := c.Request.Context()
		cacheKey := aggregateKey(ctx, rdb, userID, "balance", "")
		var summary ledger.BalanceSummary
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &summary); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"status": "success", "dataBalance": summary, "cached": true})
			return
		}
		summary, err := svc.Balance(ctx, userID)
		if err != nil {
			writeLedgerError(c, userID, "Failed to get balance", err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, summary, aggregateCacheTTL)
		c.JSON(http.StatusOK, gin.H{"status": "success", "dataBalance": summary})
	}
}

// ActivityHandler returns the owner's merged income/expense timeline
func ActivityHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := authedUser(c)
		if userID == "" {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := c.Request.Context()
		cacheKey := aggregateKey(ctx, rdb, userID, "activity", "")
		var entries []ledger.ActivityEntry
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &entries); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"status": "success", "dataActivity": entries, "cached": true})
			return
		}
		entries, err := svc.Activity(ctx, userID)
		if err != nil {
			writeLedgerError(c, userID, "Failed to retrieve activity data", err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, entries, aggregateCacheTTL)
		c.JSON(http.StatusOK, gin.H{"status": "success", "dataActivity": entries})
	}
}

// aggregateQuery pulls the authenticated owner and the optional month filter
// out of the request, rejecting a malformed month. ok is false when the
// handler must stop because a response has already been written.
func aggregateQuery(c *gin.Context) (userID, month string, ok bool) {
	userID = authedUser(c)
	if userID == "" {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return "", "", false
	}
	month = c.Query("month")
	if month != "" && !monthPattern.MatchString(month) {
		fail(c, http.StatusBadRequest, "Month filter must use the YYYY-MM format")
		return "", "", false
	}
	return userID, month, true
}

// aggregateKey builds a cache key carrying the owner's current cache
// generation, so a single version bump invalidates every aggregate at once
func aggregateKey(ctx context.Context, rdb *redis.Client, userID, name, month string) string {
	ver := utils.CacheVersion(ctx, rdb, userID)
	return "agg:" + userID + ":v" + strconv.FormatInt(ver, 10) + ":" + name + ":m=" + month
}

// writeLedgerError maps a ledger failure onto the response envelope:
// violated input constraints are the caller's fault, everything else is a
// backend failure logged and reported generically.
func writeLedgerError(c *gin.Context, userID, message string, err error) {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		fail(c, http.StatusBadRequest, verr.Reason)
		return
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"error":   err.Error(),
	}).Error(message)
	fail(c, http.StatusInternalServerError, message)
}
