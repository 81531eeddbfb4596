package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Store drivers understood by the db package
const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds the application configuration
type Config struct {
	AppPort string // Application port
	AppURL  string // Public base URL, used in outbound mail links
	IsProd  bool   // Is production environment (enables Secure cookies)

	JWTSecret string // Session signing secret; empty means cookie-less mode

	StoreDriver string // mysql, mongo or memory
	DBUser      string // Database user
	DBPassword  string // Database password
	DBHost      string // Database host
	DBPort      string // Database port
	DBName      string // Database name
	MongoURI    string // Mongo connection string
	MongoDB     string // Mongo database name

	RedisAddr string // Redis server address, empty disables caching
	RedisPass string // Redis password
	RedisDB   int    // Redis database number

	SMTPHost   string        // SMTP host, empty falls back to Gmail
	SMTPPort   int           // SMTP port
	SMTPUser   string        // SMTP user
	SMTPPass   string        // SMTP password
	EmailFrom  string        // Sender address
	NotifyWait time.Duration // How long registration waits for the welcome mail outcome

	BlobToken         string // Storage write token (S3 secret access key)
	BlobAccessKeyID   string // S3 access key id
	BlobBucket        string // Bucket receiving uploads
	BlobRegion        string // Bucket region
	BlobEndpoint      string // Custom S3 endpoint (MinIO etc.)
	BlobPublicBaseURL string // Base URL public object links are built from
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	notifyWait, err := time.ParseDuration(os.Getenv("NOTIFY_WAIT"))
	if err != nil || notifyWait <= 0 {
		notifyWait = 5 * time.Second
	}
	emailUser := firstEnv("SMTP_USER", "EMAIL_USER")
	return &Config{
		AppPort:     envOr("APP_PORT", "8080"),
		AppURL:      firstEnv("APP_URL", "NEXT_PUBLIC_APP_URL"),
		IsProd:      os.Getenv("IS_PROD") == "true",
		JWTSecret:   os.Getenv("JWT_SECRET"),
		StoreDriver: envOr("STORE_DRIVER", DriverMySQL),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBName:      os.Getenv("DB_NAME"),
		MongoURI:    os.Getenv("MONGODB_URI"),
		MongoDB:     envOr("MONGODB_DB", "eduvault"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPass:   os.Getenv("REDIS_PASS"),
		RedisDB:     redisDB,
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    smtpPort,
		SMTPUser:    emailUser,
		SMTPPass:    firstEnv("SMTP_PASS", "EMAIL_PASS"),
		EmailFrom:   firstEnv("EMAIL_FROM", "EMAIL_USER"),
		NotifyWait:  notifyWait,

		// The storage token has historically lived under several names
		BlobToken:         firstEnv("BLOB_READ_WRITE_TOKEN", "VERCEL_BLOB_READ_WRITE_TOKEN", "BLOB_RW_TOKEN"),
		BlobAccessKeyID:   os.Getenv("BLOB_ACCESS_KEY_ID"),
		BlobBucket:        envOr("BLOB_BUCKET", "eduvault"),
		BlobRegion:        envOr("BLOB_REGION", "us-east-1"),
		BlobEndpoint:      os.Getenv("BLOB_ENDPOINT"),
		BlobPublicBaseURL: os.Getenv("BLOB_PUBLIC_BASE_URL"),
	}
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// PublicURL returns the application base URL, defaulting to local development
func (c *Config) PublicURL() string {
	if c.AppURL == "" {
		return "http://localhost:3000"
	}
	return c.AppURL
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// firstEnv returns the first non-empty value among keys
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
