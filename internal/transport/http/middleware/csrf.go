package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
)

// CSRF enforces double-submit protection for session-backed mutating requests.
// The token presented in the request header must match the one stored for the
// session. Requests without a session cookie are left alone, as are safe
// methods and admin requests authenticated by bearer token.
func CSRF(sessions port.SessionStore, sessionCookie string, cfg config.CSRFSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}

		token, ok := GetSessionToken(c, sessionCookie)
		if !ok {
			c.Next()
			return
		}

		presented := c.GetHeader(cfg.HeaderName)
		if presented == "" {
			if fromCookie, err := c.Cookie(cfg.CookieName); err == nil {
				presented = fromCookie
			}
		}

		stored, err := sessions.GetCSRFToken(c.Request.Context(), token)
		if err != nil || !security.TokensEqual(stored, presented) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "csrf token mismatch"))
			return
		}

		c.Next()
	}
}
