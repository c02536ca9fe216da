package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Auth          AuthConfig
	Storage       StorageConfig
	OpenAI        OpenAIConfig
	Transcription TranscriptionConfig
	Pipeline      PipelineConfig
	Watcher       WatcherConfig
	Export        ExportConfig
	Log           LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_scribe"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// AuthConfig holds service authentication configuration
type AuthConfig struct {
	APIKey        string        `envconfig:"API_KEY" default:""`
	AccessSecret  string        `envconfig:"JWT_ACCESS_SECRET" default:"change-me-access-secret"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"change-me-refresh-secret"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-scribe"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL" default:""`
}

// OpenAIConfig holds chat-completion API configuration
type OpenAIConfig struct {
	APIKey       string        `envconfig:"OPENAI_API_KEY" default:""`
	BaseURL      string        `envconfig:"OPENAI_BASE_URL" default:""`
	SummaryModel string        `envconfig:"SUMMARY_MODEL" default:"gpt-4-turbo"`
	Timeout      time.Duration `envconfig:"OPENAI_TIMEOUT" default:"60s"`
	CacheTTL     time.Duration `envconfig:"SUMMARY_CACHE_TTL" default:"24h"`
}

// TranscriptionConfig holds speech-to-text configuration
type TranscriptionConfig struct {
	Provider          string `envconfig:"TRANSCRIPTION_PROVIDER" default:"whisper_api"`
	WhisperModel      string `envconfig:"WHISPER_MODEL" default:"whisper-1"`
	LocalWhisperURL   string `envconfig:"LOCAL_WHISPER_URL" default:"http://localhost:9000"`
	LocalWhisperModel string `envconfig:"LOCAL_WHISPER_MODEL" default:"base"`
	AssemblyAIKey     string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
	WebhookURL        string `envconfig:"TRANSCRIPTION_WEBHOOK_URL" default:""`
	WebhookSecret     string `envconfig:"TRANSCRIPTION_WEBHOOK_SECRET" default:""`
	Language          string `envconfig:"TRANSCRIPTION_LANGUAGE" default:""`
}

// PipelineConfig holds background worker configuration
type PipelineConfig struct {
	Workers      int           `envconfig:"PIPELINE_WORKERS" default:"2"`
	PollInterval time.Duration `envconfig:"PIPELINE_POLL_INTERVAL" default:"10s"`
	MaxRetries   int           `envconfig:"PIPELINE_MAX_RETRIES" default:"3"`
	JobTimeout   time.Duration `envconfig:"PIPELINE_JOB_TIMEOUT" default:"10m"`
	AutoProcess  bool          `envconfig:"PIPELINE_AUTO_PROCESS" default:"true"`
}

// WatcherConfig holds hot-folder ingest configuration
type WatcherConfig struct {
	Enabled       bool          `envconfig:"WATCH_ENABLED" default:"false"`
	Dir           string        `envconfig:"WATCH_DIR" default:""`
	SettleDelay   time.Duration `envconfig:"WATCH_SETTLE_DELAY" default:"2s"`
	MaxConcurrent int           `envconfig:"WATCH_MAX_CONCURRENT" default:"2"`
}

// ExportConfig holds export configuration
type ExportConfig struct {
	DefaultFormat string `envconfig:"EXPORT_DEFAULT_FORMAT" default:"markdown"`
	AutoExport    bool   `envconfig:"EXPORT_AUTO" default:"false"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	File       string `envconfig:"LOG_FILE" default:""`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"30"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch c.Transcription.Provider {
	case "whisper_api", "local", "assemblyai":
	default:
		return fmt.Errorf("unsupported TRANSCRIPTION_PROVIDER: %s (supported: whisper_api, local, assemblyai)", c.Transcription.Provider)
	}
	if c.Transcription.Provider == "assemblyai" && c.Transcription.AssemblyAIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required when TRANSCRIPTION_PROVIDER=assemblyai")
	}
	if c.Watcher.Enabled && c.Watcher.Dir == "" {
		return fmt.Errorf("WATCH_DIR is required when WATCH_ENABLED=true")
	}
	switch strings.ToLower(c.Export.DefaultFormat) {
	case "markdown", "docx", "json":
	default:
		return fmt.Errorf("unsupported EXPORT_DEFAULT_FORMAT: %s", c.Export.DefaultFormat)
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
