package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults matching the deployed stack. The table name and front-end origin
// are overridable; everything else that used to be hardcoded in the Lambda
// is promoted to configuration here.
const (
	DefaultLeadsTable    = "heralf-legal-leads"
	DefaultAllowedOrigin = "https://d3j9ea8ae2wjdm.cloudfront.net"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Lead persistence
	UseMemoryStore      bool
	LeadsTable          string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	DatabaseURL         string

	// Public form endpoint
	AllowedOrigin  string
	RateLimitRPS   float64
	RateLimitBurst int

	// Admin API
	AdminJWTSecret string

	// WhatsApp webhook
	WhatsAppVerifyToken string

	// Lead notification email
	EmailProvider  string
	NotifyEmail    string
	FromEmail      string
	FromName       string
	SendGridAPIKey string

	// Tracing
	OTELExporterEndpoint string

	// Client submitter
	SubmitURL     string
	SubmitTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UseMemoryStore:      getEnvAsBool("USE_MEMORY_STORE", false),
		LeadsTable:          getEnv("DYNAMODB_TABLE", DefaultLeadsTable),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		DatabaseURL:         getEnv("DATABASE_URL", ""),

		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", DefaultAllowedOrigin),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 5),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		WhatsAppVerifyToken: getEnv("WHATSAPP_VERIFY_TOKEN", ""),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		NotifyEmail:    getEnv("NOTIFY_EMAIL", ""),
		FromEmail:      getEnv("FROM_EMAIL", ""),
		FromName:       getEnv("FROM_NAME", "HerAlf Legal"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		OTELExporterEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SubmitURL:     getEnv("SUBMIT_URL", ""),
		SubmitTimeout: getEnvAsDuration("SUBMIT_TIMEOUT", 10*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
