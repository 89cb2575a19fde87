package main

import (
	"moneybook/internal/config" // Custom import path (Config)
	"moneybook/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Apply the schema
}
