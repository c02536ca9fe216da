package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/cache"
	authUsecase "github.com/tuandm-dev/meeting-scribe/internal/usecase/auth"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/summarizer"
	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
	"github.com/tuandm-dev/meeting-scribe/pkg/jwt"
)

func newTestRouter(t *testing.T) (*echo.Echo, *jwt.Manager) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.OpenAI.SummaryModel = "gpt-4-turbo"

	jwtManager := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)

	meetingSvc := &stubMeetingService{
		listFn: func(_ context.Context, _ repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
			return nil, 0, nil
		},
	}
	tokenSvc := &stubTokenService{
		issueFn: func(_ context.Context, _ string) (*authUsecase.TokenPair, error) {
			return testPair(), nil
		},
	}
	summarizerSvc := summarizer.NewService(ai.NewClient(&cfg.OpenAI), &cfg.OpenAI, cache.NewMemoryStore(), nil)

	router := NewRouter(
		cfg,
		jwtManager,
		NewAuthHandler(tokenSvc, nil),
		NewMeetingHandler(meetingSvc, nil),
		NewActionItemHandler(&stubItemService{}, nil),
		NewSummarizeHandler(summarizerSvc, nil),
		NewWebhookHandler(&stubPipelineService{}, "hook-secret", nil),
	)

	e := newTestEcho()
	router.Setup(e)
	return e, jwtManager
}

func TestRouterRouteTable(t *testing.T) {
	e, _ := newTestRouter(t)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /metrics",
		"GET /swagger/*",
		"POST /v1/auth/token",
		"POST /v1/auth/refresh",
		"POST /v1/webhooks/assemblyai",
		"POST /v1/meetings",
		"GET /v1/meetings",
		"GET /v1/meetings/:id",
		"PATCH /v1/meetings/:id",
		"DELETE /v1/meetings/:id",
		"POST /v1/meetings/:id/recording",
		"POST /v1/meetings/:id/process",
		"GET /v1/meetings/:id/status",
		"GET /v1/meetings/:id/export",
		"GET /v1/action-items",
		"GET /v1/action-items/:id",
		"PATCH /v1/action-items/:id",
		"POST /v1/summarize",
		"POST /v1/summarize/title",
	}
	for _, route := range expected {
		if !registered[route] {
			t.Errorf("route %q not registered", route)
		}
	}
}

func TestRouterProtectsAPIRoutes(t *testing.T) {
	e, jwtManager := newTestRouter(t)

	// No token
	rec := doJSON(t, e, http.MethodGet, "/v1/meetings", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", rec.Code)
	}

	// Valid token
	token, err := jwtManager.GenerateAccessToken("service", "api")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/meetings", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	authed := httptest.NewRecorder()
	e.ServeHTTP(authed, req)
	if authed.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200 (body %s)", authed.Code, authed.Body.String())
	}
}

func TestRouterPublicRoutes(t *testing.T) {
	e, _ := newTestRouter(t)

	t.Run("health", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/health", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"ok"`) {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("token endpoint needs no bearer", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/v1/auth/token", `{"api_key":"anything"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
	})

	t.Run("metrics", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/metrics", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "scribe_job_queue_depth") {
			t.Error("metrics exposition should include the job queue gauge")
		}
	})
}
