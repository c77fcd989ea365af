package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/competa-arena/contest-service/internal/client"
	"github.com/competa-arena/contest-service/internal/response"
)

const (
	// ContextKeyIdentity is the Gin context key for the authenticated identity.
	ContextKeyIdentity = "identity"

	bearerPrefix = "Bearer "
)

// Authorize validates bearer tokens against the identity service and
// gates mutating methods by role.
//
// GET requests without a token pass through with no identity attached,
// and GET bypasses the role gate even when a token is present.
func Authorize(validator client.TokenValidator, log zerolog.Logger) gin.HandlerFunc {
	authLog := log.With().Str("component", "auth_filter").Logger()

	return func(c *gin.Context) {
		method := c.Request.Method

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			if method == http.MethodGet {
				c.Next()
				return
			}
			authLog.Warn().Str("method", method).Str("path", c.Request.URL.Path).
				Msg("Unauthorized request: missing or invalid token")
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)

		identity, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			authLog.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Token validation failed")
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if isMutating(method) && !hasWriteRole(identity.Role) {
			authLog.Warn().Str("role", identity.Role).Str("method", method).
				Msg("Access denied for role")
			response.AbortFail(c, http.StatusForbidden, response.ErrInsufficientRole)
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from the Gin context.
// Returns nil for unauthenticated requests (public GET access).
func GetIdentity(c *gin.Context) *client.Identity {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	identity, ok := val.(*client.Identity)
	if !ok {
		return nil
	}
	return identity
}

func isMutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete
}

// hasWriteRole reports whether the role may use mutating methods.
// Roles are free text compared case-insensitively.
func hasWriteRole(role string) bool {
	return strings.EqualFold(role, "CREATOR") || strings.EqualFold(role, "ADMIN")
}
