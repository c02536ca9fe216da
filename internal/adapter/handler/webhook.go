package handler

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/errors"
	"github.com/tuandm-dev/meeting-scribe/internal/adapter/dto"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/external/transcription"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/pipeline"
	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
)

// Webhook handles transcription completion callbacks
type Webhook struct {
	processor pipeline.Service
	secret    string
	logger    *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(processor pipeline.Service, secret string, logger *zap.Logger) *Webhook {
	return &Webhook{processor: processor, secret: secret, logger: logger}
}

// AssemblyAI handles POST /webhooks/assemblyai
// @Summary      Transcription completion callback
// @Description  Receives the completion notification from AssemblyAI and resumes the parked processing job
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        request  body      dto.WebhookRequest    true  "Callback payload"
// @Success      200      {object}  map[string]string     "Acknowledged"
// @Failure      401      {object}  common.ErrorResponse  "Signature verification failed"
// @Failure      404      {object}  common.ErrorResponse  "No job waiting on this transcript"
// @Router       /webhooks/assemblyai [post]
func (h *Webhook) AssemblyAI(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	// The auth header name is the one Submit configures AssemblyAI with
	signature := c.Request().Header.Get(transcription.WebhookAuthHeader)
	if signature == "" {
		signature = c.Request().Header.Get("Authorization")
	}

	if !ai.SecureCompare(h.secret, signature) && !ai.VerifyHMAC(h.secret, body, signature) {
		if h.logger != nil {
			h.logger.Warn("🚫 Webhook signature rejected",
				zap.String("remote_ip", c.RealIP()),
			)
		}
		return HandleError(h.logger, c, errors.ErrWebhookUnauthorized())
	}

	var req dto.WebhookRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	payload := pipeline.WebhookPayload{
		TranscriptID: req.TranscriptID,
		Status:       req.Status,
	}
	if err := h.processor.HandleTranscriptionWebhook(c.Request().Context(), payload); err != nil {
		return HandleError(h.logger, c, translate(err, req.TranscriptID))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok"})
}
