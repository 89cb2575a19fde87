package domain

// Transaction kinds
const (
	KindIncome  = "income"  // Money coming in
	KindExpense = "expense" // Money going out
)

// Transaction Model
type Transaction struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`          // Opaque unique ID
	UserID    string  `gorm:"index;size:36;not null" json:"user_id"` // Owning user, foreign-key style reference
	Kind      string  `gorm:"index;not null" json:"type"`            // income or expense
	Amount    float64 `gorm:"not null" json:"amount"`                // Strictly positive amount
	Category  string  `gorm:"not null" json:"category"`              // Free-form category label
	CreatedAt string  `gorm:"size:10;not null" json:"created_at"`    // Calendar date, YYYY-MM-DD
}
