package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		OpenAI:        OpenAIConfig{APIKey: "sk-test"},
		Transcription: TranscriptionConfig{Provider: "whisper_api"},
		Export:        ExportConfig{DefaultFormat: "markdown"},
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Database.Name != "meeting_scribe" {
		t.Errorf("Database.Name = %q, want meeting_scribe", cfg.Database.Name)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis.Enabled should default to false")
	}
	if cfg.Auth.AccessExpiry != 15*time.Minute {
		t.Errorf("Auth.AccessExpiry = %v, want 15m", cfg.Auth.AccessExpiry)
	}
	if cfg.OpenAI.SummaryModel != "gpt-4-turbo" {
		t.Errorf("OpenAI.SummaryModel = %q, want gpt-4-turbo", cfg.OpenAI.SummaryModel)
	}
	if cfg.OpenAI.CacheTTL != 24*time.Hour {
		t.Errorf("OpenAI.CacheTTL = %v, want 24h", cfg.OpenAI.CacheTTL)
	}
	if cfg.Transcription.Provider != "whisper_api" {
		t.Errorf("Transcription.Provider = %q, want whisper_api", cfg.Transcription.Provider)
	}
	if cfg.Pipeline.Workers != 2 {
		t.Errorf("Pipeline.Workers = %d, want 2", cfg.Pipeline.Workers)
	}
	if !cfg.Pipeline.AutoProcess {
		t.Error("Pipeline.AutoProcess should default to true")
	}
	if cfg.Watcher.Enabled {
		t.Error("Watcher.Enabled should default to false")
	}
	if cfg.Export.DefaultFormat != "markdown" {
		t.Errorf("Export.DefaultFormat = %q, want markdown", cfg.Export.DefaultFormat)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://scribe.example.com,https://admin.example.com")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("TRANSCRIPTION_PROVIDER", "local")
	t.Setenv("PIPELINE_WORKERS", "4")
	t.Setenv("PIPELINE_POLL_INTERVAL", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() should be true for ENVIRONMENT=production")
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[0] != "https://scribe.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Auth.AccessExpiry != 30*time.Minute {
		t.Errorf("Auth.AccessExpiry = %v, want 30m", cfg.Auth.AccessExpiry)
	}
	if cfg.Transcription.Provider != "local" {
		t.Errorf("Transcription.Provider = %q, want local", cfg.Transcription.Provider)
	}
	if cfg.Pipeline.Workers != 4 {
		t.Errorf("Pipeline.Workers = %d, want 4", cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.PollInterval != 5*time.Second {
		t.Errorf("Pipeline.PollInterval = %v, want 5s", cfg.Pipeline.PollInterval)
	}
}

func TestLoadRequiresOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail without OPENAI_API_KEY")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error %q should mention OPENAI_API_KEY", err)
	}
}

func TestValidateTranscriptionProvider(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		assemblai string
		wantErr   bool
	}{
		{name: "whisper api", provider: "whisper_api"},
		{name: "local", provider: "local"},
		{name: "assemblyai with key", provider: "assemblyai", assemblai: "aai-key"},
		{name: "assemblyai without key", provider: "assemblyai", wantErr: true},
		{name: "unknown provider", provider: "deepgram", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Transcription.Provider = tt.provider
			cfg.Transcription.AssemblyAIKey = tt.assemblai

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("Validate() should fail")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
		})
	}
}

func TestValidateWatcherDir(t *testing.T) {
	cfg := validConfig()
	cfg.Watcher.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() should fail when the watcher is enabled without a directory")
	}

	cfg.Watcher.Dir = "/var/recordings"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

func TestValidateExportFormat(t *testing.T) {
	for _, format := range []string{"markdown", "docx", "json", "Markdown"} {
		cfg := validConfig()
		cfg.Export.DefaultFormat = format
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() rejected format %q: %v", format, err)
		}
	}

	cfg := validConfig()
	cfg.Export.DefaultFormat = "pdf"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject format pdf")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "scribe",
		Password: "secret",
		Name:     "scribe_prod",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=scribe password=secret dbname=scribe_prod sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN() = %q, want %q", got, want)
	}
}

func TestGetRedisAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.Host = "cache.internal"
	cfg.Redis.Port = "6380"

	if got := cfg.GetRedisAddr(); got != "cache.internal:6380" {
		t.Errorf("GetRedisAddr() = %q, want cache.internal:6380", got)
	}
}
