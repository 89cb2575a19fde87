package store

import (
	"context" // Context for store operations
	"errors"  // Sentinel errors

	"moneybook/internal/domain" // Importing domain models
)

// Sentinel errors shared by all store implementations
var (
	ErrNotFound    = errors.New("record not found")         // Lookup missed
	ErrEmailTaken  = errors.New("email already registered") // Unique email violated
	ErrUnavailable = errors.New("storage unavailable")      // Backend failure, reported generically
)

// IdentityStore holds registered users. CreateUser fails with ErrEmailTaken
// when the email is already present; lookups fail with ErrNotFound.
// Email lookup is an exact match against the stored value.
type IdentityStore interface {
	CreateUser(ctx context.Context, u domain.User) error
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, userID string) (domain.User, error)
}

// TransactionStore holds income and expense records, each owned by a user.
// kind narrows to domain.KindIncome or domain.KindExpense ("" means both);
// month narrows to a YYYY-MM prefix of created_at ("" means all time).
type TransactionStore interface {
	Append(ctx context.Context, t domain.Transaction) error
	ListByOwner(ctx context.Context, userID, kind, month string) ([]domain.Transaction, error)
}
