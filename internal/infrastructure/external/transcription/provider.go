package transcription

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

// ErrNotReady is returned by AsyncProvider.Fetch while the provider is
// still working on a submitted job
var ErrNotReady = errors.New("transcript not ready")

// Provider names accepted by the factory
const (
	ProviderWhisperAPI = "whisper_api"
	ProviderLocal      = "local"
	ProviderAssemblyAI = "assemblyai"
)

// Segment is a timestamped slice of the transcript
type Segment struct {
	ID      int     `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Result is the provider-independent transcription output
type Result struct {
	Text           string    `json:"text"`
	Segments       []Segment `json:"segments"`
	Language       string    `json:"language"`
	Duration       float64   `json:"duration"`
	ProcessingTime float64   `json:"processing_time"`
	ModelUsed      string    `json:"model_used"`
}

// Request carries the audio to transcribe. FilePath points at a local
// file, AudioURL at something the provider can fetch itself. Providers
// document which one they need.
type Request struct {
	FilePath string
	AudioURL string
	Language string
}

// Provider converts recorded audio into a transcript
type Provider interface {
	// Transcribe runs a full transcription and blocks until done
	Transcribe(ctx context.Context, req Request) (*Result, error)

	// Name returns the provider identifier for logs and stored transcripts
	Name() string

	// HealthCheck verifies the provider is reachable
	HealthCheck(ctx context.Context) error
}

// AsyncProvider is implemented by providers that can park a job and
// complete it later through a webhook instead of blocking a worker.
type AsyncProvider interface {
	Provider

	// Submit enqueues a transcription and returns the provider-side job ID
	Submit(ctx context.Context, req Request) (string, error)

	// Fetch retrieves the finished result for a previously submitted job
	Fetch(ctx context.Context, externalJobID string) (*Result, error)
}

// New builds the provider selected by TRANSCRIPTION_PROVIDER
func New(cfg *config.Config, aiClient *ai.Client, logger *zap.Logger) (Provider, error) {
	switch cfg.Transcription.Provider {
	case ProviderWhisperAPI:
		return NewWhisperAPIProvider(aiClient, &cfg.Transcription), nil
	case ProviderLocal:
		return NewLocalProvider(&cfg.Transcription), nil
	case ProviderAssemblyAI:
		return NewAssemblyAIProvider(&cfg.Transcription, logger), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider: %s", cfg.Transcription.Provider)
	}
}
