package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Environment     string        `validate:"required,oneof=development staging production test"`
	Port            int           `validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Storage
	StoreDriver string `validate:"oneof=memory postgres dynamodb"`
	DatabaseURL string `validate:"required_if=StoreDriver postgres"`
	DBMaxConns  int32  `validate:"min=0"`
	AutoMigrate bool
	TableName   string `validate:"required_if=StoreDriver dynamodb"`

	// AWS configuration
	AWSRegion   string `validate:"required"`
	AWSEndpoint string

	// Domain events
	EventBusName string
	EventSource  string `validate:"required"`

	// Logging
	LogLevel string `validate:"oneof=debug info warn error"`

	// Observability
	EnableMetrics        bool
	MetricsNamespace     string        `validate:"required_if=EnableMetrics true"`
	MetricsFlushInterval time.Duration `validate:"gt=0"`
	EnableTracing        bool

	// HTTP
	CORSAllowedOrigins []string
	RateLimitPerMinute int `validate:"min=0"`

	// Seed data loaded by the seed command when --file is not given
	SeedFile string

	// Lambda configuration
	IsLambda bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		Port:            getEnvInt("PORT", 8080),
		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		StoreDriver: getEnv("STORE_DRIVER", StoreMemory),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  int32(getEnvInt("DB_MAX_CONNS", 10)),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", false),
		TableName:   getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "nodetree")),

		AWSRegion:   getEnv("AWS_REGION", "us-west-2"),
		AWSEndpoint: getEnv("AWS_ENDPOINT_URL", ""),

		EventBusName: getEnv("EVENT_BUS_NAME", ""),
		EventSource:  getEnv("EVENT_SOURCE", "nodetree.api"),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		EnableMetrics:        getEnvBool("ENABLE_METRICS", false),
		MetricsNamespace:     getEnv("METRICS_NAMESPACE", "NodeTree"),
		MetricsFlushInterval: getEnvDuration("METRICS_FLUSH_INTERVAL", time.Minute),
		EnableTracing:        getEnvBool("ENABLE_TRACING", false),

		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 0),
		SeedFile:           getEnv("SEED_FILE", ""),

		IsLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags and names every failing field
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvSlice splits a comma-separated variable, dropping blanks
func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
