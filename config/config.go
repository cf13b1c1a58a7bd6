package config

import (
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageDriverJSON   = "json"
	StorageDriverSQLite = "sqlite"
	StorageDriverTurso  = "turso"
)

// Email providers
const (
	EmailProviderResend   = "resend"
	EmailProviderSendGrid = "sendgrid"
)

type Config struct {
	ServerPort  string
	Environment string
	// Storage
	StorageDriver    string
	DataDir          string
	DBPath           string
	TursoDatabaseURL string
	TursoAuthToken   string
	// Cloudflare R2 (JSON documents)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2Prefix          string
	// Email
	EmailProvider  string
	ResendAPIKey   string
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	EmailTestMode  bool // When true, emails are logged to console instead of sent
	// Automation
	AutomationEnabled bool
	AckDelay          time.Duration
	FollowUpDelay     time.Duration
	SchedulerInterval time.Duration
	// Support contact details used in outgoing messages
	SupportEmail string
	SupportPhone string
	CompanyName  string
	// AI drafting (OpenAI-compatible API)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	// Other
	AllowedOrigins []string
	AppURL         string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverJSON)),
		DataDir:           getEnv("DATA_DIR", "data"),
		DBPath:            getEnv("DB_PATH", "data/support.db"),
		TursoDatabaseURL:  getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:    getEnv("TURSO_AUTH_TOKEN", ""),
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2Prefix:          getEnv("R2_PREFIX", "support-desk"),
		EmailProvider:     strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderResend)),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "support@company.com"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Customer Support Team"),
		EmailTestMode:     getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		AutomationEnabled: getEnvBool("AUTOMATION_ENABLED", true),
		AckDelay:          getEnvDuration("ACK_DELAY", 0),
		FollowUpDelay:     getEnvDuration("FOLLOWUP_DELAY", 24*time.Hour),
		SchedulerInterval: getEnvDuration("SCHEDULER_INTERVAL", 30*time.Second),
		SupportEmail:      getEnv("SUPPORT_EMAIL", "support@company.com"),
		SupportPhone:      getEnv("SUPPORT_PHONE", "(555) 123-4567"),
		CompanyName:       getEnv("COMPANY_NAME", "Our Company"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:            getEnv("APP_URL", "http://localhost:8080"),
	}
}

// R2Configured reports whether all credentials for the R2 document backend are present
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getEnvDuration parses Go duration strings ("24h", "90s"); bare integers are milliseconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ms < 0 || ms > math.MaxInt64/int64(time.Millisecond) {
		log.Printf("[WARNING] Invalid duration for %s: %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
