package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	authUsecase "github.com/tuandm-dev/meeting-scribe/internal/usecase/auth"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
)

type stubTokenService struct {
	issueFn   func(ctx context.Context, apiKey string) (*authUsecase.TokenPair, error)
	refreshFn func(ctx context.Context, refreshToken string) (*authUsecase.TokenPair, error)
}

func (s *stubTokenService) IssueToken(ctx context.Context, apiKey string) (*authUsecase.TokenPair, error) {
	return s.issueFn(ctx, apiKey)
}

func (s *stubTokenService) Refresh(ctx context.Context, refreshToken string) (*authUsecase.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func testPair() *authUsecase.TokenPair {
	return &authUsecase.TokenPair{
		AccessToken:  "access.jwt",
		RefreshToken: "refresh.jwt",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}
}

func TestTokenHandler(t *testing.T) {
	svc := &stubTokenService{
		issueFn: func(_ context.Context, apiKey string) (*authUsecase.TokenPair, error) {
			if apiKey != "secret-key" {
				return nil, usecaseErrors.ErrInvalidCredentials
			}
			return testPair(), nil
		},
	}
	e := newTestEcho()
	h := NewAuthHandler(svc, nil)
	e.POST("/v1/auth/token", h.Token)

	t.Run("valid key", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/v1/auth/token", `{"api_key":"secret-key"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		var body struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			ExpiresIn   int64  `json:"expires_in"`
		}
		if err := json.Unmarshal(env.Data, &body); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if body.AccessToken != "access.jwt" || body.TokenType != "Bearer" || body.ExpiresIn != 900 {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/v1/auth/token", `{"api_key":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Code != "AUTH_INVALID_API_KEY" {
			t.Errorf("envelope code = %q", env.Code)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/v1/auth/token", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRefreshHandler(t *testing.T) {
	svc := &stubTokenService{
		refreshFn: func(_ context.Context, refreshToken string) (*authUsecase.TokenPair, error) {
			if refreshToken != "refresh.jwt" {
				return nil, usecaseErrors.ErrTokenInvalid
			}
			return testPair(), nil
		},
	}
	e := newTestEcho()
	h := NewAuthHandler(svc, nil)
	e.POST("/v1/auth/refresh", h.Refresh)

	t.Run("valid token", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"refresh.jwt"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("spent token", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"already-used"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Code != "AUTH_INVALID_REFRESH_TOKEN" {
			t.Errorf("envelope code = %q", env.Code)
		}
	})
}
