package auth

// TokenRequest represents the request to exchange the API key for a
// token pair
type TokenRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// RefreshRequest represents the request to rotate a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
