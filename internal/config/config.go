package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Log    LogConfig
	LLM    LLMConfig
	CORS   CORSConfig
	Queue  QueueConfig
	Email  EmailConfig
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

// LLMConfig holds settings for the model orchestrator and provider client.
type LLMConfig struct {
	APIKey         string `mapstructure:"api_key"`
	PrimaryModel   string `mapstructure:"primary_model"`
	SecondaryModel string `mapstructure:"secondary_model"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RetryBaseMs    int    `mapstructure:"retry_base_ms"`
	MinIntervalMs  int    `mapstructure:"min_interval_ms"`
	CooldownSecs   int    `mapstructure:"cooldown_secs"`
	ChunkPages     int    `mapstructure:"chunk_pages"`
}

// MinInterval returns the configured outbound pacing interval.
func (l *LLMConfig) MinInterval() time.Duration {
	return time.Duration(l.MinIntervalMs) * time.Millisecond
}

// Cooldown returns the configured circuit breaker window.
func (l *LLMConfig) Cooldown() time.Duration {
	return time.Duration(l.CooldownSecs) * time.Second
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
}

// Load reads configuration from environment variables with the VITALIS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VITALIS")
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
	v.SetDefault("db.user", "vitalis")
	v.SetDefault("db.password", "vitalis_secret")
	v.SetDefault("db.name", "vitalis_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "vitalis-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.primary_model", "gemini-2.5-pro")
	v.SetDefault("llm.secondary_model", "gemini-2.0-flash")
	v.SetDefault("llm.timeout_secs", 120)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_base_ms", 1000)
	v.SetDefault("llm.min_interval_ms", 1000)
	v.SetDefault("llm.cooldown_secs", 60)
	v.SetDefault("llm.chunk_pages", 1)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 2)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@vitalis.app")
	v.SetDefault("email.from_name", "Vitalis")
	v.SetDefault("email.to_address", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "VITALIS_SERVER_PORT",
		"server.read_timeout":      "VITALIS_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "VITALIS_SERVER_WRITE_TIMEOUT",
		"server.environment":       "VITALIS_SERVER_ENVIRONMENT",
		"db.host":                  "VITALIS_DB_HOST",
		"db.port":                  "VITALIS_DB_PORT",
		"db.user":                  "VITALIS_DB_USER",
		"db.password":              "VITALIS_DB_PASSWORD",
		"db.name":                  "VITALIS_DB_NAME",
		"db.sslmode":               "VITALIS_DB_SSLMODE",
		"db.max_open":              "VITALIS_DB_MAX_OPEN",
		"db.max_idle":              "VITALIS_DB_MAX_IDLE",
		"s3.region":                "VITALIS_S3_REGION",
		"s3.bucket":                "VITALIS_S3_BUCKET",
		"s3.endpoint":              "VITALIS_S3_ENDPOINT",
		"s3.access_key":            "VITALIS_S3_ACCESS_KEY",
		"s3.secret_key":            "VITALIS_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "VITALIS_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":        "VITALIS_S3_PRESIGN_EXPIRY",
		"log.level":                "VITALIS_LOG_LEVEL",
		"log.format":               "VITALIS_LOG_FORMAT",
		"llm.api_key":              "VITALIS_LLM_API_KEY",
		"llm.primary_model":        "VITALIS_LLM_PRIMARY_MODEL",
		"llm.secondary_model":      "VITALIS_LLM_SECONDARY_MODEL",
		"llm.timeout_secs":         "VITALIS_LLM_TIMEOUT_SECS",
		"llm.max_retries":          "VITALIS_LLM_MAX_RETRIES",
		"llm.retry_base_ms":        "VITALIS_LLM_RETRY_BASE_MS",
		"llm.min_interval_ms":      "VITALIS_LLM_MIN_INTERVAL_MS",
		"llm.cooldown_secs":        "VITALIS_LLM_COOLDOWN_SECS",
		"llm.chunk_pages":          "VITALIS_LLM_CHUNK_PAGES",
		"cors.allowed_origins":     "VITALIS_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs": "VITALIS_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":        "VITALIS_QUEUE_MAX_RETRIES",
		"queue.concurrency":        "VITALIS_QUEUE_CONCURRENCY",
		"email.provider":           "VITALIS_EMAIL_PROVIDER",
		"email.region":             "VITALIS_EMAIL_REGION",
		"email.from_address":       "VITALIS_EMAIL_FROM_ADDRESS",
		"email.from_name":          "VITALIS_EMAIL_FROM_NAME",
		"email.to_address":         "VITALIS_EMAIL_TO_ADDRESS",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// viper reads comma-separated origins as a single string
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
