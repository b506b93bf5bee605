package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAdmin validates the Authorization header, rejects revoked tokens, and
// stores the admin identity in the request context.
func RequireAdmin(jwt *security.JWTManager, denylist port.TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing access token"))
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid access token"))
			return
		}

		if denylist != nil && claims.ID != "" {
			denied, err := denylist.IsDenied(c.Request.Context(), claims.ID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
				return
			}
			if denied {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "access token revoked"))
				return
			}
		}

		adminID, err := claims.AdminID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid access token"))
			return
		}

		c.Set(AdminIDKey, adminID)
		c.Set(AdminClaimsKey, claims)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.AdminID = adminID
		}

		c.Next()
	}
}

// OptionalAdmin recognizes a valid bearer token when one is present but never
// rejects the request. Endpoints shared between requesters and admins use it
// to pick the right authorization path.
func OptionalAdmin(jwt *security.JWTManager, denylist port.TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := jwt.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			c.Next()
			return
		}

		if denylist != nil && claims.ID != "" {
			denied, err := denylist.IsDenied(c.Request.Context(), claims.ID)
			if err != nil || denied {
				c.Next()
				return
			}
		}

		adminID, err := claims.AdminID()
		if err != nil {
			c.Next()
			return
		}

		c.Set(AdminIDKey, adminID)
		c.Set(AdminClaimsKey, claims)
		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.AdminID = adminID
		}

		c.Next()
	}
}

// GetAdminClaims retrieves the parsed token claims stored by RequireAdmin.
func GetAdminClaims(c *gin.Context) (*security.AdminClaims, bool) {
	value, exists := c.Get(AdminClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*security.AdminClaims)
	return claims, ok
}
