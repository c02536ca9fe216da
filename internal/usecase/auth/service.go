package auth

import (
	"context"
)

// Service defines the interface for the auth use case
type Service interface {
	// IssueToken exchanges the service API key for a token pair
	IssueToken(ctx context.Context, apiKey string) (*TokenPair, error)

	// Refresh rotates a refresh token into a new token pair
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// Ensure TokenService implements Service interface
var _ Service = (*TokenService)(nil)
