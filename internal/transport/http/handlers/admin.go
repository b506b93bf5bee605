package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
	"github.com/mykdolnyk/ban-review-website/internal/transport/http/middleware"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

// AdminHandler serves the admin account surface: login, logout, account
// introspection, and admin-authored messages.
type AdminHandler struct {
	admins   *usecase.AdminService
	messages *usecase.MessageService
	auth     config.AuthSettings
	thread   config.ThreadSettings
}

// NewAdminHandler builds an admin handler.
func NewAdminHandler(admins *usecase.AdminService, messages *usecase.MessageService, auth config.AuthSettings, thread config.ThreadSettings) *AdminHandler {
	return &AdminHandler{admins: admins, messages: messages, auth: auth, thread: thread}
}

// Login exchanges admin credentials for a bearer token. Failed attempts are
// counted per client IP and eventually restricted.
func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username and password are required"))
		return
	}

	token, admin, err := h.admins.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password, c.ClientIP())
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrLoginRestricted, Status: http.StatusTooManyRequests, Message: "too many failed attempts, try again later"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.auth.AccessTokenTTL.Seconds()),
		User:        adminUserPayload(*admin),
	})
}

// Logout revokes the presented token until its natural expiry.
func (h *AdminHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetAdminClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.admins.Logout(c.Request.Context(), claims); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "logout failed"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// CurrentUser returns the authenticated admin account.
func (h *AdminHandler) CurrentUser(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	admin, err := h.admins.CurrentUser(c.Request.Context(), adminID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusUnauthorized, Message: "account no longer active"},
		}, http.StatusInternalServerError, "failed to load account")
		return
	}

	c.JSON(http.StatusOK, adminUserPayload(*admin))
}

// ListUsers returns a paginated listing of active admin accounts.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := parsePagination(c, h.thread.DefaultPerPage, h.thread.MaxPerPage)

	admins, total, err := h.admins.ListAdmins(c.Request.Context(), port.AdminUserFilter{
		Limit:  params.limit(),
		Offset: params.offset(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list admins"))
		return
	}

	payloads := make([]AdminUserPayload, 0, len(admins))
	for _, admin := range admins {
		payloads = append(payloads, adminUserPayload(admin))
	}

	c.JSON(http.StatusOK, listEnvelope("user", payloads, params, total))
}

// GetUser returns a single active admin account.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user id"))
		return
	}

	admin, err := h.admins.GetAdmin(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "admin not found"},
		}, http.StatusInternalServerError, "failed to load admin")
		return
	}

	c.JSON(http.StatusOK, adminUserPayload(*admin))
}

// SendMessage appends an admin-authored message to an active thread.
func (h *AdminHandler) SendMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid thread id"))
		return
	}

	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "text is required"))
		return
	}

	message, err := h.messages.PostAdminMessage(c.Request.Context(), id, adminID, req.Text)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "thread not found"},
		}, http.StatusInternalServerError, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, messagePayload(*message))
}
