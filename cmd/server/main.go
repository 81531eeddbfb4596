package main

import (
	"context" // context package is needed for Redis and store setup

	"eduvault/internal/api"     // Custom package for API handlers
	"eduvault/internal/config"  // Custom package for configuration
	"eduvault/internal/db"      // Process-wide store handle
	"eduvault/internal/notify"  // Welcome email
	"eduvault/internal/service" // Profile reconciliation
	"eduvault/internal/storage" // Upload relay
	"eduvault/internal/store"   // Store backends
	"eduvault/internal/utils"   // Redis cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	ctx := context.Background()

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Connect the configured store (mysql, mongo or memory)
	st, err := db.Open(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to store: %v", err) // Fatal error if store connection fails
	}
	if cfg.StoreDriver == config.DriverMemory {
		logrus.Warn("Using in-memory store; data is lost on restart")
	}

	// Setup Redis cache when configured
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		st = store.NewCachedStore(st, utils.NewCache(redisClient))
	}

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is not set; sessions are disabled and /dashboard is unreachable")
	}

	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.EmailFrom,
		AppURL:   cfg.PublicURL(),
	})
	relay := storage.NewRelay(storage.Config{
		Token:         cfg.BlobToken,
		AccessKeyID:   cfg.BlobAccessKeyID,
		Bucket:        cfg.BlobBucket,
		Region:        cfg.BlobRegion,
		Endpoint:      cfg.BlobEndpoint,
		PublicBaseURL: cfg.BlobPublicBaseURL,
	})

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Dependencies{
		Profiles:      service.NewProfileService(st, mailer, cfg.JWTSecret, cfg.NotifyWait),
		Materials:     service.NewMaterialService(st),
		Uploader:      relay,
		SecureCookies: cfg.IsProd,
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithField("driver", cfg.StoreDriver).Info("Server running on " + cfg.AppPort) // Log server start
	// Start the server on port cfg.AppPort
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
