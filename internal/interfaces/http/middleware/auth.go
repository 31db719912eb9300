package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/uom/internal/infrastructure/auth"
	"github.com/erp/uom/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys and header
const (
	AuthClaimsKey = "auth_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenVerifier checks a bearer token
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// WriteAuthConfig configures WriteAuth
type WriteAuthConfig struct {
	Verifier TokenVerifier
	Scope    string
	// SkipPaths are non-GET endpoints that never mutate state
	SkipPaths []string
	Logger    *zap.Logger
}

// WriteAuth requires a bearer token carrying Scope on every request that
// can change state. GET, HEAD and OPTIONS pass through, as do SkipPaths.
func WriteAuth(cfg WriteAuthConfig) gin.HandlerFunc {
	if cfg.Scope == "" {
		cfg.Scope = auth.ScopeWrite
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(header, BearerPrefix) || strings.TrimPrefix(header, BearerPrefix) == "" {
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Missing bearer token")
			return
		}

		claims, err := cfg.Verifier.Verify(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			cfg.Logger.Debug("Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token has expired"
			}
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
			return
		}
		if !claims.HasScope(cfg.Scope) {
			abortAuth(c, http.StatusForbidden, dto.ErrCodeForbidden, "Token lacks scope "+cfg.Scope)
			return
		}

		c.Set(AuthClaimsKey, claims)
		c.Next()
	}
}

func abortAuth(c *gin.Context, status int, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="uom"`)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}
