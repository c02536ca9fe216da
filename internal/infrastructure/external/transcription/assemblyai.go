package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

// WebhookAuthHeader is the header AssemblyAI echoes back on webhook
// deliveries when a shared secret is configured
const WebhookAuthHeader = "X-Webhook-Secret"

// AssemblyAIProvider transcribes audio through the hosted AssemblyAI
// API. Needs a fetchable audio URL (a presigned MinIO link works).
// Supports both blocking polling and webhook completion.
type AssemblyAIProvider struct {
	client        *aai.Client
	webhookURL    string
	webhookSecret string
	lang          string
	logger        *zap.Logger
}

// NewAssemblyAIProvider creates an AssemblyAI provider using the
// official SDK
func NewAssemblyAIProvider(cfg *config.TranscriptionConfig, logger *zap.Logger) *AssemblyAIProvider {
	return &AssemblyAIProvider{
		client:        aai.NewClient(cfg.AssemblyAIKey),
		webhookURL:    cfg.WebhookURL,
		webhookSecret: cfg.WebhookSecret,
		lang:          cfg.Language,
		logger:        logger,
	}
}

func (p *AssemblyAIProvider) params(req Request, withWebhook bool) *aai.TranscriptOptionalParams {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	lang := req.Language
	if lang == "" {
		lang = p.lang
	}
	if lang != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(lang)
	} else {
		params.LanguageDetection = aai.Bool(true)
	}

	if withWebhook && p.webhookURL != "" {
		params.WebhookURL = aai.String(p.webhookURL)
		if p.webhookSecret != "" {
			params.WebhookAuthHeaderName = aai.String(WebhookAuthHeader)
			params.WebhookAuthHeaderValue = aai.String(p.webhookSecret)
		}
	}

	return params
}

// Transcribe submits the audio URL and blocks until AssemblyAI
// finishes processing
func (p *AssemblyAIProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if req.AudioURL == "" {
		return nil, fmt.Errorf("assemblyai provider requires an audio URL")
	}

	start := time.Now()
	transcript, err := p.client.Transcripts.TranscribeFromURL(ctx, req.AudioURL, p.params(req, false))
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcription failed: %w", err)
	}

	return p.mapTranscript(transcript, time.Since(start))
}

// Submit enqueues a transcription with webhook completion and returns
// the AssemblyAI transcript ID
func (p *AssemblyAIProvider) Submit(ctx context.Context, req Request) (string, error) {
	if req.AudioURL == "" {
		return "", fmt.Errorf("assemblyai provider requires an audio URL")
	}

	transcript, err := p.client.Transcripts.SubmitFromURL(ctx, req.AudioURL, p.params(req, true))
	if err != nil {
		return "", fmt.Errorf("assemblyai submit failed: %w", err)
	}
	if transcript.ID == nil || *transcript.ID == "" {
		return "", fmt.Errorf("assemblyai returned no transcript ID")
	}

	if p.logger != nil {
		p.logger.Info("🎙️ Submitted transcription to AssemblyAI",
			zap.String("transcript_id", *transcript.ID),
			zap.String("status", string(transcript.Status)),
		)
	}

	return *transcript.ID, nil
}

// Fetch retrieves the finished result for a previously submitted job
func (p *AssemblyAIProvider) Fetch(ctx context.Context, externalJobID string) (*Result, error) {
	transcript, err := p.client.Transcripts.Get(ctx, externalJobID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript %s: %w", externalJobID, err)
	}
	return p.mapTranscript(transcript, 0)
}

// mapTranscript converts the SDK transcript into a Result. Speaker
// utterances become segments; without them the full text maps to one
// segment.
func (p *AssemblyAIProvider) mapTranscript(transcript aai.Transcript, elapsed time.Duration) (*Result, error) {
	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
		// proceed
	case aai.TranscriptStatusError:
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai reported error: %s", msg)
	default:
		return nil, fmt.Errorf("%w: status %s", ErrNotReady, transcript.Status)
	}

	result := &Result{
		ProcessingTime: elapsed.Seconds(),
		ModelUsed:      ProviderAssemblyAI,
	}
	if transcript.Text != nil {
		result.Text = strings.TrimSpace(*transcript.Text)
	}
	if transcript.LanguageCode != "" {
		result.Language = string(transcript.LanguageCode)
	}
	if transcript.AudioDuration != nil {
		result.Duration = *transcript.AudioDuration
	}

	for i, utt := range transcript.Utterances {
		segment := Segment{ID: i}
		if utt.Text != nil {
			segment.Text = strings.TrimSpace(*utt.Text)
		}
		if utt.Speaker != nil {
			segment.Speaker = *utt.Speaker
		}
		if utt.Start != nil {
			segment.Start = float64(*utt.Start) / 1000.0 // ms to seconds
		}
		if utt.End != nil {
			segment.End = float64(*utt.End) / 1000.0
		}
		result.Segments = append(result.Segments, segment)
	}
	if len(result.Segments) == 0 && result.Text != "" {
		result.Segments = []Segment{{ID: 0, End: result.Duration, Text: result.Text}}
	}

	return result, nil
}

// Name returns the provider identifier
func (p *AssemblyAIProvider) Name() string {
	return ProviderAssemblyAI
}

// HealthCheck verifies the API key is present
func (p *AssemblyAIProvider) HealthCheck(_ context.Context) error {
	if p.client == nil {
		return fmt.Errorf("assemblyai client not configured")
	}
	return nil
}

// SupportsWebhook reports whether webhook completion is configured
func (p *AssemblyAIProvider) SupportsWebhook() bool {
	return p.webhookURL != ""
}
