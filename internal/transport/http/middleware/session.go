package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

// RequesterSession resolves the browser session cookie to a requester id and
// stores it in the request context. Requests without a valid session pass
// through unauthenticated; handlers decide whether one is required.
func RequesterSession(sessions port.SessionStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		requesterID, err := sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				c.Error(err)
			}
			c.Next()
			return
		}

		c.Set(RequesterIDKey, requesterID)
		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.RequesterID = requesterID
		}

		c.Next()
	}
}

// GetSessionToken returns the raw session cookie value, if present.
func GetSessionToken(c *gin.Context, cookieName string) (string, bool) {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}
