package domain

// User Model
type User struct {
	UserID       string `gorm:"primaryKey;size:36" json:"user_id"` // Opaque unique ID
	Name         string `gorm:"not null" json:"name"`              // Display name
	Email        string `gorm:"unique;not null" json:"email"`      // Unique login email, exact-match as stored
	PasswordHash string `gorm:"not null" json:"-"`                 // bcrypt hash, never serialized
}
