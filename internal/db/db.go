package db

import (
	"context" // Connection setup
	"fmt"     // Error wrapping
	"sync"    // Single initialization

	"eduvault/internal/config" // Custom package for configuration
	"eduvault/internal/store"  // Store backends

	"go.mongodb.org/mongo-driver/v2/mongo"         // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options" // MongoDB client options
	"gorm.io/driver/mysql"                         // MySQL driver for GORM
	"gorm.io/gorm"                                 // GORM ORM library
)

var (
	once    sync.Once   // Guards the first Open
	shared  store.Store // Process-wide store handle
	openErr error       // Error from the first Open, returned to every caller
)

// Open returns the process-wide store, connecting on first use. Later calls return the same
// handle (or the same error) regardless of cfg.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	once.Do(func() {
		shared, openErr = connect(ctx, cfg)
	})
	return shared, openErr
}

func connect(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		// TranslateError maps unique violations to gorm.ErrDuplicatedKey
		gdb, err := gorm.Open(mysql.Open(cfg.MySQLDSN()), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		return store.NewGormStore(gdb), nil
	case config.DriverMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is not set in environment variables")
		}
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		return store.NewMongoStore(client, cfg.MongoDB), nil
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
