package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

// WhisperAPIProvider transcribes audio through the hosted OpenAI
// whisper endpoint. Needs a local file path.
type WhisperAPIProvider struct {
	client *ai.Client
	model  string
	lang   string
}

// NewWhisperAPIProvider creates a hosted whisper provider
func NewWhisperAPIProvider(client *ai.Client, cfg *config.TranscriptionConfig) *WhisperAPIProvider {
	model := cfg.WhisperModel
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperAPIProvider{
		client: client,
		model:  model,
		lang:   cfg.Language,
	}
}

// Transcribe sends the file and maps the verbose JSON response,
// keeping segment timestamps
func (p *WhisperAPIProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if req.FilePath == "" {
		return nil, fmt.Errorf("whisper_api provider requires a local file path")
	}

	lang := req.Language
	if lang == "" {
		lang = p.lang
	}

	start := time.Now()
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: req.FilePath,
		Language: lang,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %w", err)
	}

	result := &Result{
		Text:           strings.TrimSpace(resp.Text),
		Language:       resp.Language,
		Duration:       resp.Duration,
		ProcessingTime: time.Since(start).Seconds(),
		ModelUsed:      p.model,
	}
	for _, seg := range resp.Segments {
		result.Segments = append(result.Segments, Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return result, nil
}

// Name returns the provider identifier
func (p *WhisperAPIProvider) Name() string {
	return ProviderWhisperAPI
}

// HealthCheck verifies the API is configured. The hosted endpoint has
// no cheap ping, so this only checks the client exists.
func (p *WhisperAPIProvider) HealthCheck(_ context.Context) error {
	if p.client == nil {
		return fmt.Errorf("openai client not configured")
	}
	return nil
}
