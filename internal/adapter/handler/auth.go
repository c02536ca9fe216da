package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authdto "github.com/tuandm-dev/meeting-scribe/internal/adapter/dto/auth"
	authUsecase "github.com/tuandm-dev/meeting-scribe/internal/usecase/auth"
)

// Auth handles authentication HTTP requests
type Auth struct {
	tokenService authUsecase.Service
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokenService authUsecase.Service, logger *zap.Logger) *Auth {
	return &Auth{
		tokenService: tokenService,
		logger:       logger,
	}
}

// Token handles POST /auth/token
// @Summary      Issue a token pair
// @Description  Exchanges the configured service API key for a short-lived access token and a refresh token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.TokenRequest     true  "Service API key"
// @Success      200      {object}  auth.TokenResponse    "Issued token pair"
// @Failure      401      {object}  common.ErrorResponse  "Invalid API key"
// @Router       /auth/token [post]
func (h *Auth) Token(c echo.Context) error {
	var req authdto.TokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	pair, err := h.tokenService.IssueToken(c.Request().Context(), req.APIKey)
	if err != nil {
		return HandleError(h.logger, c, translate(err, ""))
	}

	return HandleSuccess(h.logger, c, toTokenResponse(pair))
}

// Refresh handles POST /auth/refresh
// @Summary      Rotate a refresh token
// @Description  Exchanges a refresh token for a new token pair. Each refresh token is single use.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.RefreshRequest   true  "Refresh token"
// @Success      200      {object}  auth.TokenResponse    "New token pair"
// @Failure      401      {object}  common.ErrorResponse  "Invalid refresh token"
// @Router       /auth/refresh [post]
func (h *Auth) Refresh(c echo.Context) error {
	var req authdto.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	pair, err := h.tokenService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, translate(err, ""))
	}

	return HandleSuccess(h.logger, c, toTokenResponse(pair))
}

func toTokenResponse(pair *authUsecase.TokenPair) *authdto.TokenResponse {
	return &authdto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}
