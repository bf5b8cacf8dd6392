package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendGCS      = "gcs"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
)

type Config struct {
	App   AppConfig
	Store StoreConfig
	Admin AdminConfig
}

type AppConfig struct {
	Port               string `validate:"required,numeric"`
	Environment        string
	LogFilePath        string `validate:"required"`
	AuditLogPath       string `validate:"required"`
	CorsAllowedOrigins string `validate:"required"`
	NatsURL            string
	BodyLimitMB        int `validate:"min=1"`
}

type StoreConfig struct {
	Backend         string `validate:"oneof=memory redis gcs postgres badger"`
	Name            string `validate:"required"`
	RecordPrefix    string `validate:"required,endswith=/"`
	SequenceEnabled bool
	PageSize        int    `validate:"min=1,max=1000"`
	RedisURL        string `validate:"required_if=Backend redis"`
	GCSBucket       string `validate:"required_if=Backend gcs"`
	GCSCredentials  string
	DBConnection    string `validate:"required_if=Backend postgres"`
	BadgerPath      string
}

type AdminConfig struct {
	// Token guards the maintenance operation. Empty leaves it open.
	Token           string
	DefaultPrefixes []string
	SampleLimit     int `validate:"min=1"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			AuditLogPath:       getEnv("AUDIT_LOG_PATH", "logs/audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 1),
		},
		Store: StoreConfig{
			Backend:         strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
			Name:            getEnv("STORE_NAME", "ux-experiment-v2"),
			RecordPrefix:    getEnv("RECORD_PREFIX", "runs/"),
			SequenceEnabled: getEnvAsBool("KEY_SEQUENCE_ENABLED", true),
			PageSize:        getEnvAsInt("LIST_PAGE_SIZE", 100),
			RedisURL:        getEnv("REDIS_URL", ""),
			GCSBucket:       getEnv("GCS_BUCKET", ""),
			GCSCredentials:  getEnv("GCS_CREDENTIALS_FILE", ""),
			DBConnection:    getEnv("DB_CONNECTION_STRING", ""),
			BadgerPath:      getEnv("BADGER_PATH", ""),
		},
		Admin: AdminConfig{
			Token:           getEnv("ADMIN_TOKEN", ""),
			DefaultPrefixes: getEnvAsList("MAINTENANCE_DEFAULT_PREFIXES", []string{"runs/"}),
			SampleLimit:     getEnvAsInt("SAMPLE_LIMIT", 50),
		},
	}
}

// Validate reports the first misconfigured field of each section.
func (c *Config) Validate() error {
	v := validator.New()
	for _, section := range []interface{}{c.App, c.Store, c.Admin} {
		if err := v.Struct(section); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// MaintenancePrefixes is the default sweep scope: configured prefixes plus the record prefix, deduplicated.
func (c *Config) MaintenancePrefixes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range append(append([]string{}, c.Admin.DefaultPrefixes...), c.Store.RecordPrefix) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
