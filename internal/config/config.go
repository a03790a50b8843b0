package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
)

var validBackends = []string{BackendMemory, BackendPostgres, BackendRedis, BackendSQLite}

type Config struct {
	// HTTP server
	Port    string
	CORSURL string

	// Aggregator
	PlaidClientID     string
	PlaidSecret       string
	PlaidEnv          string
	PlaidClientName   string
	PlaidProducts     []string
	PlaidCountryCodes []string
	PlaidLanguage     string

	// Authentication
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Credential storage
	CredentialBackend string
	CredentialKey     string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SQLiteDBPath      string

	// Messaging
	AMQPURL      string
	AMQPExchange string

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Cash flow aggregation
	CashFlowPageSize    int
	CashFlowMaxPages    int
	CashFlowPageTimeout time.Duration
	CashFlowCallTimeout time.Duration
	CashFlowMaxRetries  int

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("CORS_URL", "http://localhost:3000")

	v.SetDefault("PLAID_ENV", "sandbox")
	v.SetDefault("PLAID_CLIENT_NAME", "My App")
	v.SetDefault("PLAID_PRODUCTS", "transactions")
	v.SetDefault("PLAID_COUNTRY_CODES", "US")
	v.SetDefault("PLAID_LANGUAGE", "en")

	v.SetDefault("CREDENTIAL_BACKEND", BackendMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SQLITE_DB_PATH", "./data/credentials.db")

	v.SetDefault("AMQP_EXCHANGE", "financial-planner")

	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	v.SetDefault("CASHFLOW_PAGE_SIZE", 500)
	v.SetDefault("CASHFLOW_MAX_PAGES", 100)
	v.SetDefault("CASHFLOW_PAGE_TIMEOUT", 10*time.Second)
	v.SetDefault("CASHFLOW_CALL_TIMEOUT", 60*time.Second)
	v.SetDefault("CASHFLOW_MAX_RETRIES", 3)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the .env file.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Port:    v.GetString("APP_PORT"),
		CORSURL: v.GetString("CORS_URL"),

		PlaidClientID:     v.GetString("PLAID_CLIENT_ID"),
		PlaidSecret:       v.GetString("PLAID_SECRET"),
		PlaidEnv:          strings.ToLower(v.GetString("PLAID_ENV")),
		PlaidClientName:   v.GetString("PLAID_CLIENT_NAME"),
		PlaidProducts:     splitList(v.GetString("PLAID_PRODUCTS")),
		PlaidCountryCodes: splitList(v.GetString("PLAID_COUNTRY_CODES")),
		PlaidLanguage:     v.GetString("PLAID_LANGUAGE"),

		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTIssuer:   v.GetString("JWT_ISSUER"),
		JWTAudience: v.GetString("JWT_AUDIENCE"),

		CredentialBackend: strings.ToLower(v.GetString("CREDENTIAL_BACKEND")),
		CredentialKey:     v.GetString("CREDENTIAL_KEY"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		SQLiteDBPath:      v.GetString("SQLITE_DB_PATH"),

		AMQPURL:      v.GetString("AMQP_URL"),
		AMQPExchange: v.GetString("AMQP_EXCHANGE"),

		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),

		CashFlowPageSize:    v.GetInt("CASHFLOW_PAGE_SIZE"),
		CashFlowMaxPages:    v.GetInt("CASHFLOW_MAX_PAGES"),
		CashFlowPageTimeout: v.GetDuration("CASHFLOW_PAGE_TIMEOUT"),
		CashFlowCallTimeout: v.GetDuration("CASHFLOW_CALL_TIMEOUT"),
		CashFlowMaxRetries:  v.GetInt("CASHFLOW_MAX_RETRIES"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.PlaidClientID == "" {
		errors = append(errors, "PLAID_CLIENT_ID is required")
	}
	if c.PlaidSecret == "" {
		errors = append(errors, "PLAID_SECRET is required")
	}
	if !slices.Contains([]string{"sandbox", "development", "production"}, c.PlaidEnv) {
		errors = append(errors, fmt.Sprintf("invalid PLAID_ENV '%s': must be sandbox, development or production", c.PlaidEnv))
	}
	if len(c.PlaidProducts) == 0 {
		errors = append(errors, "PLAID_PRODUCTS must list at least one product")
	}
	if len(c.PlaidCountryCodes) == 0 {
		errors = append(errors, "PLAID_COUNTRY_CODES must list at least one country")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}

	if !slices.Contains(validBackends, c.CredentialBackend) {
		errors = append(errors, fmt.Sprintf("invalid credential backend '%s': must be one of %v", c.CredentialBackend, validBackends))
	}
	switch c.CredentialBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			errors = append(errors, "REDIS_ADDR is required when using redis backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLITE_DB_PATH is required when using sqlite backend")
		}
	}
	if c.CredentialBackend != BackendMemory && c.CredentialBackend != "" {
		if key, err := hex.DecodeString(c.CredentialKey); err != nil || len(key) != 32 {
			errors = append(errors, "CREDENTIAL_KEY must be 32 hex-encoded bytes for persistent backends")
		}
	}

	if c.CORSURL != "" {
		if _, err := url.ParseRequestURI(c.CORSURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid CORS_URL '%s': %v", c.CORSURL, err))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must be greater than zero", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit burst %d: must be at least 1", c.RateLimitBurst))
	}

	if c.CashFlowPageSize < 1 || c.CashFlowPageSize > 500 {
		errors = append(errors, fmt.Sprintf("invalid cash flow page size %d: must be between 1 and 500", c.CashFlowPageSize))
	}
	if c.CashFlowMaxPages < 1 {
		errors = append(errors, fmt.Sprintf("invalid cash flow max pages %d: must be at least 1", c.CashFlowMaxPages))
	}
	if c.CashFlowPageTimeout <= 0 {
		errors = append(errors, "CASHFLOW_PAGE_TIMEOUT must be positive")
	}
	if c.CashFlowCallTimeout < c.CashFlowPageTimeout {
		errors = append(errors, "CASHFLOW_CALL_TIMEOUT must not be shorter than CASHFLOW_PAGE_TIMEOUT")
	}
	if c.CashFlowMaxRetries < 0 {
		errors = append(errors, "CASHFLOW_MAX_RETRIES cannot be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
