package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

// Client wraps the OpenAI-compatible API used for chat completions and
// audio transcription. The zero timeout of the default client is
// replaced so a hung call cannot stall a worker forever.
type Client struct {
	api *openai.Client
}

// NewClient creates a client from config. BaseURL may point at any
// OpenAI-compatible gateway; empty means the public endpoint.
func NewClient(cfg *config.OpenAIConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{api: openai.NewClientWithConfig(apiCfg)}
}

// CreateChatCompletion issues a single chat-completion request
func (c *Client) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return c.api.CreateChatCompletion(ctx, req)
}

// CreateTranscription issues a single audio transcription request
func (c *Client) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	return c.api.CreateTranscription(ctx, req)
}

// IsPermanent reports whether a call failure cannot be fixed by
// retrying: bad requests, auth failures, missing models. Rate limits
// and server errors are not permanent.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests, http.StatusRequestTimeout:
			return false
		}
		return apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500
	}

	errStr := strings.ToLower(err.Error())
	for _, marker := range []string{
		"invalid api key",
		"incorrect api key",
		"invalid request",
		"unsupported",
		"context length",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}

	return false
}

// IsTransient reports whether a call failure is worth retrying:
// network errors, timeouts, rate limits, server errors. Unknown
// failures count as transient so they get at least one retry.
func IsTransient(err error) bool {
	return err != nil && !IsPermanent(err)
}
