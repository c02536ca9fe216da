package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/cache"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
	"github.com/tuandm-dev/meeting-scribe/pkg/jwt"
)

const (
	// serviceClientID identifies the single API principal. The service
	// authenticates machines, not users.
	serviceClientID = "service"

	// serviceScope is granted to every issued token
	serviceScope = "api"

	// refreshKeyPrefix namespaces stored refresh token digests
	refreshKeyPrefix = "auth:refresh:"
)

// TokenService exchanges the configured API key for JWTs and rotates
// refresh tokens. Refresh tokens are single use: each one is stored as
// a digest until spent or expired.
type TokenService struct {
	cfg        *config.AuthConfig
	jwtManager *jwt.Manager
	store      cache.Store
	logger     *zap.Logger
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.AuthConfig, jwtManager *jwt.Manager, store cache.Store, logger *zap.Logger) *TokenService {
	return &TokenService{
		cfg:        cfg,
		jwtManager: jwtManager,
		store:      store,
		logger:     logger,
	}
}

// TokenPair is the issued credential set
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// IssueToken exchanges the service API key for a token pair. The
// comparison is constant time; an unset API key rejects everything.
func (s *TokenService) IssueToken(ctx context.Context, apiKey string) (*TokenPair, error) {
	if !ai.SecureCompare(s.cfg.APIKey, apiKey) {
		return nil, usecaseErrors.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🔑 Access token issued",
			zap.String("client_id", serviceClientID),
			zap.Int64("expires_in", pair.ExpiresIn),
		)
	}
	return pair, nil
}

// Refresh rotates a refresh token into a new token pair. The spent
// token is deleted first so a replay cannot race the rotation.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	clientID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrTokenInvalid, err)
	}
	if clientID != serviceClientID {
		return nil, usecaseErrors.ErrTokenInvalid
	}

	digest, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrTokenInvalid, err)
	}
	key := refreshKeyPrefix + digest
	if _, ok := s.store.Get(ctx, key); !ok {
		return nil, usecaseErrors.ErrTokenInvalid
	}
	s.store.Delete(ctx, key)

	pair, err := s.issuePair(ctx)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🔄 Refresh token rotated",
			zap.String("client_id", serviceClientID),
		)
	}
	return pair, nil
}

func (s *TokenService) issuePair(ctx context.Context) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(serviceClientID, serviceScope)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(serviceClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	digest, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}
	s.store.Set(ctx, refreshKeyPrefix+digest, serviceClientID, s.jwtManager.GetRefreshExpiry())

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}
