package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearEnv blanks every variable LoadConfig reads so a developer's shell or .env cannot leak in
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_PORT", "APP_URL", "NEXT_PUBLIC_APP_URL", "IS_PROD", "JWT_SECRET", "STORE_DRIVER",
		"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME", "MONGODB_URI", "MONGODB_DB",
		"REDIS_ADDR", "REDIS_PASS", "REDIS_DB", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
		"EMAIL_USER", "EMAIL_PASS", "EMAIL_FROM", "NOTIFY_WAIT",
		"BLOB_READ_WRITE_TOKEN", "VERCEL_BLOB_READ_WRITE_TOKEN", "BLOB_RW_TOKEN", "BLOB_ACCESS_KEY_ID",
		"BLOB_BUCKET", "BLOB_REGION", "BLOB_ENDPOINT", "BLOB_PUBLIC_BASE_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DriverMySQL, cfg.StoreDriver)
	assert.Equal(t, "eduvault", cfg.MongoDB)
	assert.Equal(t, 5*time.Second, cfg.NotifyWait)
	assert.Equal(t, "http://localhost:3000", cfg.PublicURL())
	assert.False(t, cfg.IsProd)
	assert.Empty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.BlobToken)
}

func TestLoadConfig_BlobTokenAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOB_RW_TOKEN", "rw")
	assert.Equal(t, "rw", LoadConfig().BlobToken)

	t.Setenv("VERCEL_BLOB_READ_WRITE_TOKEN", "vercel")
	assert.Equal(t, "vercel", LoadConfig().BlobToken)

	t.Setenv("BLOB_READ_WRITE_TOKEN", "primary")
	assert.Equal(t, "primary", LoadConfig().BlobToken)
}

func TestLoadConfig_EmailFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_USER", "team@gmail.com")
	t.Setenv("EMAIL_PASS", "app-pass")

	cfg := LoadConfig()
	assert.Equal(t, "team@gmail.com", cfg.SMTPUser)
	assert.Equal(t, "app-pass", cfg.SMTPPass)
	assert.Equal(t, "team@gmail.com", cfg.EmailFrom)

	t.Setenv("SMTP_USER", "relay-user")
	t.Setenv("EMAIL_FROM", "hello@eduvault.test")
	cfg = LoadConfig()
	assert.Equal(t, "relay-user", cfg.SMTPUser)
	assert.Equal(t, "hello@eduvault.test", cfg.EmailFrom)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("IS_PROD", "true")
	t.Setenv("NOTIFY_WAIT", "250ms")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STORE_DRIVER", DriverMongo)
	t.Setenv("NEXT_PUBLIC_APP_URL", "https://eduvault.app")

	cfg := LoadConfig()
	assert.True(t, cfg.IsProd)
	assert.Equal(t, 250*time.Millisecond, cfg.NotifyWait)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "https://eduvault.app", cfg.PublicURL())
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBName: "eduvault"}
	assert.Equal(t, "u:p@tcp(db:3306)/eduvault?parseTime=true", cfg.MySQLDSN())
}
