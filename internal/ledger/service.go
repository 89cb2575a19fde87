package ledger

import (
	"context" // Context for store operations
	"sort"    // Sorting the activity feed
	"strings" // Category validation
	"time"    // Current calendar date

	"moneybook/internal/domain" // Importing domain models
	"moneybook/internal/store"  // Transaction repository

	"github.com/google/uuid" // Opaque unique IDs
)

// dateLayout is the calendar-date format transactions carry, no time component
const dateLayout = "2006-01-02"

// ValidationError reports the violated input constraint to the caller
type ValidationError struct {
	Reason string // Human-readable constraint violation
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// BalanceSummary is the all-time income/expense totals and their difference
type BalanceSummary struct {
	TotalIncome  float64 `json:"total_income"`  // Sum of all income amounts
	TotalExpense float64 `json:"total_expense"` // Sum of all expense amounts
	Balance      float64 `json:"balance"`       // Income minus expense, may be negative
}

// CategoryTotal is one group of the per-category breakdown
type CategoryTotal struct {
	Category string  // Exact category label
	Total    float64 // Sum of amounts in the group
}

// ActivityEntry is one row of the merged income/expense timeline
type ActivityEntry struct {
	Type      string  `json:"type"`       // income or expense
	Category  string  `json:"category"`   // Category label
	Amount    float64 `json:"amount"`     // Recorded amount
	CreatedAt string  `json:"created_at"` // Calendar date, YYYY-MM-DD
}

// Service is the aggregation core: it records owner-tagged transactions and
// computes totals, per-category breakdowns, balance, and the activity feed.
// Every operation is scoped to an authenticated owner.
type Service struct {
	txs store.TransactionStore // Owner-indexed ledger
}

// NewService builds a ledger service over a transaction store
func NewService(txs store.TransactionStore) *Service {
	return &Service{txs: txs}
}

// RecordIncome validates and appends an income transaction for the owner
func (s *Service) RecordIncome(ctx context.Context, userID string, amount float64, category string) (domain.Transaction, error) {
	return s.record(ctx, userID, domain.KindIncome, amount, category)
}

// RecordExpense validates and appends an expense transaction for the owner
func (s *Service) RecordExpense(ctx context.Context, userID string, amount float64, category string) (domain.Transaction, error) {
	return s.record(ctx, userID, domain.KindExpense, amount, category)
}

// record checks the invariants, stamps the current date, and appends
func (s *Service) record(ctx context.Context, userID, kind string, amount float64, category string) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, &ValidationError{Reason: "amount must be greater than zero"}
	}
	if strings.TrimSpace(category) == "" {
		return domain.Transaction{}, &ValidationError{Reason: "category must not be empty"}
	}
	t := domain.Transaction{
		ID:        uuid.NewString(),              // Freshly generated unique ID
		UserID:    userID,                        // Authenticated owner
		Kind:      kind,                          // income or expense
		Amount:    amount,                        // Validated above
		Category:  category,                      // Validated above
		CreatedAt: time.Now().Format(dateLayout), // Today's calendar date
	}
	if err := s.txs.Append(ctx, t); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

// TotalIncome sums the owner's income amounts, optionally restricted to a month.
// Zero when nothing matches; never fails on an empty ledger.
func (s *Service) TotalIncome(ctx context.Context, userID, month string) (float64, error) {
	return s.total(ctx, userID, domain.KindIncome, month)
}

// TotalExpense sums the owner's expense amounts, optionally restricted to a month
func (s *Service) TotalExpense(ctx context.Context, userID, month string) (float64, error) {
	return s.total(ctx, userID, domain.KindExpense, month)
}

func (s *Service) total(ctx context.Context, userID, kind, month string) (float64, error) {
	txs, err := s.txs.ListByOwner(ctx, userID, kind, month)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range txs {
		sum += t.Amount
	}
	return sum, nil
}

// Balance reports the owner's all-time totals and their difference
func (s *Service) Balance(ctx context.Context, userID string) (BalanceSummary, error) {
	income, err := s.TotalIncome(ctx, userID, "")
	if err != nil {
		return BalanceSummary{}, err
	}
	expense, err := s.TotalExpense(ctx, userID, "")
	if err != nil {
		return BalanceSummary{}, err
	}
	return BalanceSummary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income - expense, // May be negative
	}, nil
}

// IncomeByCategory groups the owner's income by category, optionally month-restricted
func (s *Service) IncomeByCategory(ctx context.Context, userID, month string) ([]CategoryTotal, error) {
	return s.byCategory(ctx, userID, domain.KindIncome, month)
}

// ExpenseByCategory groups the owner's expenses by category, optionally month-restricted
func (s *Service) ExpenseByCategory(ctx context.Context, userID, month string) ([]CategoryTotal, error) {
	return s.byCategory(ctx, userID, domain.KindExpense, month)
}

// byCategory sums amounts per exact category label. Groups appear in the
// order their category is first seen, not alphabetically.
func (s *Service) byCategory(ctx context.Context, userID, kind, month string) ([]CategoryTotal, error) {
	txs, err := s.txs.ListByOwner(ctx, userID, kind, month)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int) // Category label to position in groups
	groups := make([]CategoryTotal, 0)
	for _, t := range txs {
		i, ok := index[t.Category]
		if !ok {
			i = len(groups) // First occurrence opens a new group
			index[t.Category] = i
			groups = append(groups, CategoryTotal{Category: t.Category})
		}
		groups[i].Total += t.Amount
	}
	return groups, nil
}

// Activity merges the owner's income and expense records into one timeline,
// sorted ascending by date. Entries sharing a date keep a stable relative
// order, but which kind comes first on a tie is unspecified.
func (s *Service) Activity(ctx context.Context, userID string) ([]ActivityEntry, error) {
	txs, err := s.txs.ListByOwner(ctx, userID, "", "")
	if err != nil {
		return nil, err
	}
	entries := make([]ActivityEntry, 0, len(txs))
	for _, t := range txs {
		entries = append(entries, ActivityEntry{
			Type:      t.Kind,
			Category:  t.Category,
			Amount:    t.Amount,
			CreatedAt: t.CreatedAt,
		})
	}
	// ISO dates compare correctly as strings
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt < entries[j].CreatedAt
	})
	return entries, nil
}
