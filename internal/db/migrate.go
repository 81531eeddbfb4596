package db

import (
	"context" // Migration context

	"eduvault/internal/config" // Custom package for configuration

	"github.com/sirupsen/logrus"
)

// Migrate creates the tables and unique indexes of the configured store
func Migrate(ctx context.Context, cfg *config.Config) {
	st, err := Open(ctx, cfg) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	defer st.Close(ctx)
	// Unique indexes on email and the normalized wallet address back the duplicate checks
	if err := st.Migrate(ctx); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.WithField("driver", cfg.StoreDriver).Info("Migration completed.") // Log successful migration
}
