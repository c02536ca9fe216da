package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tuandm-dev/meeting-scribe/pkg/jwt"
)

const (
	// ClientIDKey is the Echo context key for the authenticated client
	ClientIDKey = "client_id"

	// ScopeKey is the Echo context key for the granted scope
	ScopeKey = "scope"
)

// EchoAuth returns an Echo middleware that validates Bearer JWTs
// issued by the token endpoint and sets the claims into the Echo
// context
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearer(c.Request())
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(ClientIDKey, claims.ClientID)
			c.Set(ScopeKey, claims.Scope)
			return next(c)
		}
	}
}

func extractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}
