package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Log      LogConfig
	Insight  InsightConfig
	Pipeline PipelineConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InsightConfig holds settings for the external insight (LLM) service.
type InsightConfig struct {
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	Endpoint     string `mapstructure:"endpoint"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// PipelineConfig holds tunable analysis pipeline policy: confidence scoring
// knobs, the OCR runner, and queue worker timing.
type PipelineConfig struct {
	EntityBonus      float64 `mapstructure:"entity_bonus"`
	ConfidenceCap    float64 `mapstructure:"confidence_cap"`
	OCRBinary        string  `mapstructure:"ocr_binary"`
	OCRLanguage      string  `mapstructure:"ocr_language"`
	QueuePollSecs    int     `mapstructure:"queue_poll_secs"`
	QueueConcurrency int     `mapstructure:"queue_concurrency"`
	StaleAfterSecs   int     `mapstructure:"stale_after_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the LIFEBOOK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LIFEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "lifebook")
	v.SetDefault("db.password", "lifebook_secret")
	v.SetDefault("db.name", "lifebook_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "lifebook-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Insight defaults
	v.SetDefault("insight.api_key", "")
	v.SetDefault("insight.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("insight.endpoint", "")
	v.SetDefault("insight.timeout_secs", 120)

	// Pipeline defaults
	v.SetDefault("pipeline.entity_bonus", 0.02)
	v.SetDefault("pipeline.confidence_cap", 0.98)
	v.SetDefault("pipeline.ocr_binary", "tesseract")
	v.SetDefault("pipeline.ocr_language", "eng")
	v.SetDefault("pipeline.queue_poll_secs", 10)
	v.SetDefault("pipeline.queue_concurrency", 4)
	v.SetDefault("pipeline.stale_after_secs", 300)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "LIFEBOOK_SERVER_PORT",
		"server.read_timeout":        "LIFEBOOK_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "LIFEBOOK_SERVER_WRITE_TIMEOUT",
		"server.environment":         "LIFEBOOK_SERVER_ENVIRONMENT",
		"db.host":                    "LIFEBOOK_DB_HOST",
		"db.port":                    "LIFEBOOK_DB_PORT",
		"db.user":                    "LIFEBOOK_DB_USER",
		"db.password":                "LIFEBOOK_DB_PASSWORD",
		"db.name":                    "LIFEBOOK_DB_NAME",
		"db.sslmode":                 "LIFEBOOK_DB_SSLMODE",
		"db.max_open":                "LIFEBOOK_DB_MAX_OPEN",
		"db.max_idle":                "LIFEBOOK_DB_MAX_IDLE",
		"s3.region":                  "LIFEBOOK_S3_REGION",
		"s3.bucket":                  "LIFEBOOK_S3_BUCKET",
		"s3.endpoint":                "LIFEBOOK_S3_ENDPOINT",
		"s3.access_key":              "LIFEBOOK_S3_ACCESS_KEY",
		"s3.secret_key":              "LIFEBOOK_S3_SECRET_KEY",
		"s3.max_file_size_mb":        "LIFEBOOK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":          "LIFEBOOK_S3_PRESIGN_EXPIRY",
		"log.level":                  "LIFEBOOK_LOG_LEVEL",
		"log.format":                 "LIFEBOOK_LOG_FORMAT",
		"insight.api_key":            "LIFEBOOK_INSIGHT_API_KEY",
		"insight.default_model":      "LIFEBOOK_INSIGHT_DEFAULT_MODEL",
		"insight.endpoint":           "LIFEBOOK_INSIGHT_ENDPOINT",
		"insight.timeout_secs":       "LIFEBOOK_INSIGHT_TIMEOUT_SECS",
		"pipeline.entity_bonus":      "LIFEBOOK_PIPELINE_ENTITY_BONUS",
		"pipeline.confidence_cap":    "LIFEBOOK_PIPELINE_CONFIDENCE_CAP",
		"pipeline.ocr_binary":        "LIFEBOOK_PIPELINE_OCR_BINARY",
		"pipeline.ocr_language":      "LIFEBOOK_PIPELINE_OCR_LANGUAGE",
		"pipeline.queue_poll_secs":   "LIFEBOOK_PIPELINE_QUEUE_POLL_SECS",
		"pipeline.queue_concurrency": "LIFEBOOK_PIPELINE_QUEUE_CONCURRENCY",
		"pipeline.stale_after_secs":  "LIFEBOOK_PIPELINE_STALE_AFTER_SECS",
		"cors.allowed_origins":       "LIFEBOOK_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LIFEBOOK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LIFEBOOK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Insight = InsightConfig{
		APIKey:       v.GetString("insight.api_key"),
		DefaultModel: v.GetString("insight.default_model"),
		Endpoint:     v.GetString("insight.endpoint"),
		TimeoutSecs:  v.GetInt("insight.timeout_secs"),
	}
	cfg.Pipeline = PipelineConfig{
		EntityBonus:      v.GetFloat64("pipeline.entity_bonus"),
		ConfidenceCap:    v.GetFloat64("pipeline.confidence_cap"),
		OCRBinary:        v.GetString("pipeline.ocr_binary"),
		OCRLanguage:      v.GetString("pipeline.ocr_language"),
		QueuePollSecs:    v.GetInt("pipeline.queue_poll_secs"),
		QueueConcurrency: v.GetInt("pipeline.queue_concurrency"),
		StaleAfterSecs:   v.GetInt("pipeline.stale_after_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
