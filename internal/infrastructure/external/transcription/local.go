package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

// LocalProvider transcribes audio through a self-hosted whisper REST
// service. Needs a local file path.
type LocalProvider struct {
	baseURL    string
	model      string
	lang       string
	httpClient *http.Client
}

// NewLocalProvider creates a provider for a self-hosted whisper server.
// The HTTP timeout is generous because transcription time roughly
// tracks audio duration.
func NewLocalProvider(cfg *config.TranscriptionConfig) *LocalProvider {
	model := cfg.LocalWhisperModel
	if model == "" {
		model = "base"
	}
	return &LocalProvider{
		baseURL: strings.TrimRight(cfg.LocalWhisperURL, "/"),
		model:   model,
		lang:    cfg.Language,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// Transcribe uploads the file as multipart form data and parses the
// JSON response
func (p *LocalProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if req.FilePath == "" {
		return nil, fmt.Errorf("local provider requires a local file path")
	}

	file, err := os.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("audio", filepath.Base(req.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file data: %w", err)
	}

	if err := writer.WriteField("model", p.model); err != nil {
		return nil, fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return nil, fmt.Errorf("failed to write response_format field: %w", err)
	}
	lang := req.Language
	if lang == "" {
		lang = p.lang
	}
	if lang != "" {
		if err := writer.WriteField("language", lang); err != nil {
			return nil, fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/whisper/transcribe", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("whisper server returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var decoded struct {
		Text     string    `json:"text"`
		Segments []Segment `json:"segments"`
		Language string    `json:"language"`
		Duration float64   `json:"duration"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to parse whisper server response: %w", err)
	}

	return &Result{
		Text:           strings.TrimSpace(decoded.Text),
		Segments:       decoded.Segments,
		Language:       decoded.Language,
		Duration:       decoded.Duration,
		ProcessingTime: time.Since(start).Seconds(),
		ModelUsed:      p.model,
	}, nil
}

// Name returns the provider identifier
func (p *LocalProvider) Name() string {
	return ProviderLocal
}

// HealthCheck probes the model listing endpoint
func (p *LocalProvider) HealthCheck(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/api/whisper/model", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}
	return nil
}
