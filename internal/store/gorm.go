package store

import (
	"context" // Context for DB operations

	"moneybook/internal/domain" // Importing domain models

	"github.com/pkg/errors" // Error annotation
	"gorm.io/gorm"          // GORM ORM library
)

// GormStore implements IdentityStore and TransactionStore on a relational database
type GormStore struct {
	db *gorm.DB // Underlying GORM handle
}

// NewGormStore wraps an open GORM handle
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// unavailable maps a backend failure to the generic sentinel, keeping the detail in the message
func unavailable(err error, op string) error {
	return errors.WithMessagef(ErrUnavailable, "%s: %v", op, err)
}

// CreateUser appends a new user, rejecting an already registered email
func (s *GormStore) CreateUser(ctx context.Context, u domain.User) error {
	// Exact-match pre-check; the unique index on email backs it up
	var existing domain.User
	err := s.db.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return ErrEmailTaken // Email already present
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return unavailable(err, "create user") // Backend failure
	}
	// Insert the new row
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken // Lost the race to the unique index
		}
		return unavailable(err, "create user")
	}
	return nil
}

// UserByEmail looks a user up by exact email match
func (s *GormStore) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, ErrNotFound // No such email
		}
		return domain.User{}, unavailable(err, "user by email")
	}
	return u, nil
}

// UserByID looks a user up by primary key
func (s *GormStore) UserByID(ctx context.Context, userID string) (domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, ErrNotFound // No such user
		}
		return domain.User{}, unavailable(err, "user by id")
	}
	return u, nil
}

// Append inserts a single transaction row
func (s *GormStore) Append(ctx context.Context, t domain.Transaction) error {
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return unavailable(err, "append transaction")
	}
	return nil
}

// ListByOwner returns the owner's transactions, optionally narrowed by kind and month.
// The month filter is always a bound parameter, never interpolated into the query.
func (s *GormStore) ListByOwner(ctx context.Context, userID, kind, month string) ([]domain.Transaction, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind) // Narrow to income or expense
	}
	if month != "" {
		q = q.Where("created_at LIKE ?", month+"%") // YYYY-MM prefix match
	}
	var txs []domain.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, unavailable(err, "list transactions")
	}
	return txs, nil
}
