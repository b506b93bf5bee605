package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
	"github.com/mykdolnyk/ban-review-website/internal/transport/http/middleware"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

const sessionTokenBytes = 32

// RequesterHandler serves the anonymous requester surface: identification,
// session introspection, and CSRF token issuance.
type RequesterHandler struct {
	identity   *usecase.IdentityService
	requesters port.RequesterRepository
	threads    port.ThreadRepository
	sessions   port.SessionStore
	session    config.SessionSettings
	csrf       config.CSRFSettings
}

// NewRequesterHandler builds a requester handler.
func NewRequesterHandler(
	identity *usecase.IdentityService,
	requesters port.RequesterRepository,
	threads port.ThreadRepository,
	sessions port.SessionStore,
	session config.SessionSettings,
	csrf config.CSRFSettings,
) *RequesterHandler {
	return &RequesterHandler{
		identity:   identity,
		requesters: requesters,
		threads:    threads,
		sessions:   sessions,
		session:    session,
		csrf:       csrf,
	}
}

// Authenticate resolves a username plus fingerprint to a requester, opening a
// thread when none is active, and binds the browser session to the requester.
func (h *RequesterHandler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username, fp, and first_message are required"))
		return
	}

	sessionRequesterID, _ := middleware.GetRequesterID(c)

	result, err := h.identity.Resolve(c.Request.Context(), usecase.ResolveInput{
		Username:           strings.TrimSpace(req.Username),
		Fingerprint:        req.Fingerprint,
		FirstMessage:       req.FirstMessage,
		IP:                 c.ClientIP(),
		SessionRequesterID: sessionRequesterID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrIdentityMismatch, Status: http.StatusUnauthorized, Message: "identity could not be verified"},
			{Err: usecase.ErrKeyExhausted, Status: http.StatusServiceUnavailable, Message: "could not allocate a thread key"},
			{Err: repository.ErrConflict, Status: http.StatusConflict, Message: "requester already exists"},
		}, http.StatusBadRequest, "invalid identification request")
		return
	}

	if sessionRequesterID != result.Requester.ID {
		if err := h.bindSession(c, result.Requester.ID); err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to establish session"))
			return
		}
	}

	c.JSON(http.StatusOK, AuthenticateResponse{
		Success:   true,
		Created:   result.Created,
		ThreadID:  result.Thread.ID,
		ThreadKey: result.Thread.Key,
	})
}

// Current reports the session-bound requester and its active thread, if any.
func (h *RequesterHandler) Current(c *gin.Context) {
	requesterID, ok := middleware.GetRequesterID(c)
	if !ok {
		c.JSON(http.StatusOK, CurrentRequesterResponse{})
		return
	}

	requester, err := h.requesters.GetByID(c.Request.Context(), requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, CurrentRequesterResponse{})
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load requester"))
		return
	}

	resp := CurrentRequesterResponse{
		Requester: &RequesterPayload{
			ID:        requester.ID,
			Username:  requester.Username,
			CreatedOn: requester.CreatedOn,
		},
	}

	thread, err := h.threads.GetActiveByRequester(c.Request.Context(), requesterID)
	if err == nil {
		resp.ThreadID = &thread.ID
	} else if !errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load active thread"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CSRFToken issues or returns the per-session CSRF token. Responds 404 when
// protection is disabled so clients can skip the header entirely.
func (h *RequesterHandler) CSRFToken(c *gin.Context) {
	if !h.csrf.Enabled {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "csrf protection is disabled"))
		return
	}

	token, ok := middleware.GetSessionToken(c, h.session.CookieName)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "no session"))
		return
	}

	csrf, err := h.sessions.GetCSRFToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load csrf token"))
			return
		}
		csrf, err = security.GenerateSecureToken(sessionTokenBytes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue csrf token"))
			return
		}
		if err := h.sessions.SetCSRFToken(c.Request.Context(), token, csrf, h.session.TTL); err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to store csrf token"))
			return
		}
	}

	h.setCookie(c, h.csrf.CookieName, csrf, false)
	c.JSON(http.StatusOK, CSRFTokenResponse{CSRFToken: csrf})
}

// bindSession creates a fresh session token for the requester along with a
// CSRF token and sets both cookies.
func (h *RequesterHandler) bindSession(c *gin.Context, requesterID int64) error {
	token, err := security.GenerateSecureToken(sessionTokenBytes)
	if err != nil {
		return err
	}
	if err := h.sessions.Bind(c.Request.Context(), token, requesterID, h.session.TTL); err != nil {
		return err
	}
	h.setCookie(c, h.session.CookieName, token, true)

	if h.csrf.Enabled {
		csrf, err := security.GenerateSecureToken(sessionTokenBytes)
		if err != nil {
			return err
		}
		if err := h.sessions.SetCSRFToken(c.Request.Context(), token, csrf, h.session.TTL); err != nil {
			return err
		}
		h.setCookie(c, h.csrf.CookieName, csrf, false)
	}

	return nil
}

func (h *RequesterHandler) setCookie(c *gin.Context, name, value string, httpOnly bool) {
	maxAge := int(h.session.TTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.session.Secure, httpOnly)
}
