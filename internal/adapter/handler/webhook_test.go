package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/pipeline"
)

type stubPipelineService struct {
	webhookFn func(ctx context.Context, payload pipeline.WebhookPayload) error
}

func (s *stubPipelineService) ProcessRecording(_ context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error) {
	return entities.NewProcessingJob(meetingID, entities.JobTypeTranscription, 3), nil
}

func (s *stubPipelineService) JobsForMeeting(_ context.Context, _ uuid.UUID) ([]*entities.ProcessingJob, error) {
	return nil, nil
}

func (s *stubPipelineService) HandleTranscriptionWebhook(ctx context.Context, payload pipeline.WebhookPayload) error {
	return s.webhookFn(ctx, payload)
}

func (s *stubPipelineService) StartWorkerPool(_ context.Context) error { return nil }

func (s *stubPipelineService) StopWorkerPool() error { return nil }

func postWebhook(e *echo.Echo, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/assemblyai", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHandlerAcceptsSharedSecret(t *testing.T) {
	var captured pipeline.WebhookPayload
	svc := &stubPipelineService{
		webhookFn: func(_ context.Context, payload pipeline.WebhookPayload) error {
			captured = payload
			return nil
		},
	}
	e := newTestEcho()
	h := NewWebhookHandler(svc, "hook-secret", nil)
	e.POST("/v1/webhooks/assemblyai", h.AssemblyAI)

	rec := postWebhook(e, `{"transcript_id":"tr_abc123","status":"completed"}`,
		map[string]string{"X-Webhook-Secret": "hook-secret"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if captured.TranscriptID != "tr_abc123" || captured.Status != "completed" {
		t.Errorf("payload = %+v", captured)
	}

	// The Authorization header works as a fallback
	rec = postWebhook(e, `{"transcript_id":"tr_def456","status":"completed"}`,
		map[string]string{"Authorization": "hook-secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("fallback header status = %d, want 200", rec.Code)
	}
}

func TestWebhookHandlerAcceptsHMACSignature(t *testing.T) {
	svc := &stubPipelineService{
		webhookFn: func(_ context.Context, _ pipeline.WebhookPayload) error { return nil },
	}
	e := newTestEcho()
	h := NewWebhookHandler(svc, "hook-secret", nil)
	e.POST("/v1/webhooks/assemblyai", h.AssemblyAI)

	body := `{"transcript_id":"tr_abc123","status":"completed"}`
	mac := hmac.New(sha256.New, []byte("hook-secret"))
	mac.Write([]byte(body))
	signature := hex.EncodeToString(mac.Sum(nil))

	rec := postWebhook(e, body, map[string]string{"X-Webhook-Secret": signature})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestWebhookHandlerRejectsBadSignature(t *testing.T) {
	svc := &stubPipelineService{
		webhookFn: func(_ context.Context, _ pipeline.WebhookPayload) error {
			t.Error("processor should not run for an unauthenticated webhook")
			return nil
		},
	}
	e := newTestEcho()
	h := NewWebhookHandler(svc, "hook-secret", nil)
	e.POST("/v1/webhooks/assemblyai", h.AssemblyAI)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"wrong secret", map[string]string{"Authorization": "guessed"}},
		{"no header", nil},
		{"bad hmac", map[string]string{"X-Webhook-Secret": "deadbeef"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postWebhook(e, `{"transcript_id":"tr_abc123"}`, tt.headers)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if env := decodeEnvelope(t, rec); env.Code != "WEBHOOK_UNAUTHORIZED" {
				t.Errorf("envelope code = %q", env.Code)
			}
		})
	}
}

func TestWebhookHandlerRejectsAllWhenSecretUnset(t *testing.T) {
	svc := &stubPipelineService{
		webhookFn: func(_ context.Context, _ pipeline.WebhookPayload) error {
			t.Error("processor should not run without a configured secret")
			return nil
		},
	}
	e := newTestEcho()
	h := NewWebhookHandler(svc, "", nil)
	e.POST("/v1/webhooks/assemblyai", h.AssemblyAI)

	rec := postWebhook(e, `{"transcript_id":"tr_abc123"}`, map[string]string{"Authorization": ""})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestWebhookHandlerUnknownTranscript(t *testing.T) {
	svc := &stubPipelineService{
		webhookFn: func(_ context.Context, _ pipeline.WebhookPayload) error {
			return usecaseErrors.ErrJobNotFound
		},
	}
	e := newTestEcho()
	h := NewWebhookHandler(svc, "hook-secret", nil)
	e.POST("/v1/webhooks/assemblyai", h.AssemblyAI)

	rec := postWebhook(e, `{"transcript_id":"tr_unknown"}`,
		map[string]string{"Authorization": "hook-secret"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestWebhookHandlerRejectsMalformedBody(t *testing.T) {
	svc := &stubPipelineService{
		webhookFn: func(_ context.Context, _ pipeline.WebhookPayload) error { return nil },
	}
	e := newTestEcho()
	h := NewWebhookHandler(svc, "hook-secret", nil)
	e.POST("/v1/webhooks/assemblyai", h.AssemblyAI)

	rec := postWebhook(e, `{"transcript_id":`, map[string]string{"Authorization": "hook-secret"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
