package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreExcel    = "excel"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string

	FormSchemaPath string

	StoreBackend string
	WorkbookPath string
	PrimarySheet string
	DatabaseURL  string

	// RedisURL is optional; sessions fall back to an in-process cache.
	RedisURL   string
	SessionTTL time.Duration

	// Shared secrets. An empty secret means the area is not configured.
	DashboardPassword   string
	EvaluationPasswords map[string]string

	// SerializeHeaderWrites guards header extension and append per sheet.
	SerializeHeaderWrites bool

	Events EventConfig
}

// LoadConfig reads the environment, loading a .env file first when one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FormSchemaPath: os.Getenv("FORM_SCHEMA_PATH"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreExcel)),
		WorkbookPath: getEnv("WORKBOOK_PATH", "intake.xlsx"),
		PrimarySheet: getEnv("PRIMARY_SHEET", "Responses"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		RedisURL:   os.Getenv("REDIS_URL"),
		SessionTTL: getDuration("SESSION_TTL", 8*time.Hour),

		DashboardPassword: os.Getenv("DASHBOARD_PASSWORD"),
		EvaluationPasswords: map[string]string{
			"core":     os.Getenv("EVAL_CORE_PASSWORD"),
			"tech":     os.Getenv("EVAL_TECHNICAL_PASSWORD"),
			"social":   os.Getenv("EVAL_SOCIAL_PASSWORD"),
			"content":  os.Getenv("EVAL_CONTENT_PASSWORD"),
			"outreach": os.Getenv("EVAL_OUTREACH_PASSWORD"),
		},

		SerializeHeaderWrites: getBool("SERIALIZE_HEADER_WRITES", true),

		Events: EventConfig{
			Enabled:      getBool("EVENTS_ENABLED", false),
			Publisher:    getEnv("EVENTS_PUBLISHER", "mock"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			IntakeTopic:  getEnv("INTAKE_TOPIC", "intake-events"),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
