package main

import (
	"context" // Migration context

	"eduvault/internal/config" // Custom import path (Config)
	"eduvault/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(context.Background(), cfg)
}
