package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness status.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// AuthenticateRequest is the requester identification payload.
type AuthenticateRequest struct {
	Username     string `json:"username" binding:"required"`
	Fingerprint  string `json:"fp" binding:"required"`
	FirstMessage string `json:"first_message" binding:"required"`
}

// AuthenticateResponse reports the thread the requester may continue in.
type AuthenticateResponse struct {
	Success   bool   `json:"success"`
	Created   bool   `json:"created"`
	ThreadID  int64  `json:"thread_id"`
	ThreadKey string `json:"thread_key"`
}

// CurrentRequesterResponse describes the session-bound requester, if any.
type CurrentRequesterResponse struct {
	Requester *RequesterPayload `json:"requester"`
	ThreadID  *int64            `json:"thread_id,omitempty"`
}

// RequesterPayload is the requester view exposed to its own session. Identity
// digests stay server-side.
type RequesterPayload struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedOn time.Time `json:"created_on"`
}

// CSRFTokenResponse carries the per-session CSRF token.
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// ThreadPayload is the API view of a conversation thread.
type ThreadPayload struct {
	ID             int64     `json:"id"`
	Key            string    `json:"key"`
	Status         string    `json:"status"`
	CreatedOn      time.Time `json:"created_on"`
	LastActivityOn time.Time `json:"last_activity_on"`
	RequesterID    int64     `json:"requester_id"`
}

// ThreadDetailResponse is a thread together with its message timeline.
type ThreadDetailResponse struct {
	Thread   ThreadPayload    `json:"thread"`
	Messages []MessagePayload `json:"messages"`
}

// ThreadTransitionRequest changes a thread's status.
type ThreadTransitionRequest struct {
	Status           string `json:"status" binding:"required"`
	SuppressDeletion bool   `json:"suppress_deletion"`
}

// MessagePayload is the API view of a message.
type MessagePayload struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	CreatedOn   time.Time `json:"created_on"`
	ThreadID    int64     `json:"thread_id"`
	AdminUserID *int64    `json:"admin_user_id,omitempty"`
	RequesterID *int64    `json:"requester_id,omitempty"`
}

// PostMessageRequest carries a new message body.
type PostMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// AdminLoginRequest is the admin credential payload.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse returns the signed access token with its bearer metadata.
type AdminLoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	User        AdminUserPayload `json:"user"`
}

// AdminUserPayload is the API view of an admin account.
type AdminUserPayload struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"created_on"`
}

// NotePayload is the API view of an admin note.
type NotePayload struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	CreatedOn   time.Time `json:"created_on"`
	AuthorID    *int64    `json:"author_id,omitempty"`
	RequesterID *int64    `json:"requester_id,omitempty"`
}

// NoteCreateRequest creates an admin note, optionally pinned to a requester.
type NoteCreateRequest struct {
	Text        string `json:"text" binding:"required"`
	RequesterID *int64 `json:"requester_id"`
}

// NoteUpdateRequest replaces a note's text.
type NoteUpdateRequest struct {
	Text string `json:"text" binding:"required"`
}

func threadPayload(thread domain.Thread) ThreadPayload {
	return ThreadPayload{
		ID:             thread.ID,
		Key:            thread.Key,
		Status:         string(thread.Status),
		CreatedOn:      thread.CreatedOn,
		LastActivityOn: thread.LastActivityOn,
		RequesterID:    thread.RequesterID,
	}
}

func messagePayload(message domain.Message) MessagePayload {
	return MessagePayload{
		ID:          message.ID,
		Text:        message.Text,
		CreatedOn:   message.CreatedOn,
		ThreadID:    message.ThreadID,
		AdminUserID: message.AdminUserID,
		RequesterID: message.RequesterID,
	}
}

func adminUserPayload(user domain.AdminUser) AdminUserPayload {
	return AdminUserPayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedOn: user.CreatedOn,
	}
}

func notePayload(note domain.AdminNote) NotePayload {
	return NotePayload{
		ID:          note.ID,
		Text:        note.Text,
		CreatedOn:   note.CreatedOn,
		AuthorID:    note.AuthorID,
		RequesterID: note.RequesterID,
	}
}

// pageParams holds normalized pagination inputs.
type pageParams struct {
	Page    int
	PerPage int
}

func (p pageParams) limit() int  { return p.PerPage }
func (p pageParams) offset() int { return (p.Page - 1) * p.PerPage }

func parsePagination(c *gin.Context, defaultPerPage, maxPerPage int) pageParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.Query("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return pageParams{Page: page, PerPage: perPage}
}

// listEnvelope wraps a page of items under "<name>_list" with the standard
// pagination fields.
func listEnvelope(name string, items any, params pageParams, total int) gin.H {
	pages := 0
	if total > 0 {
		pages = (total + params.PerPage - 1) / params.PerPage
	}

	envelope := gin.H{
		"page":     params.Page,
		"per_page": params.PerPage,
		"total":    total,
		"pages":    pages,
	}
	envelope[name+"_list"] = items
	return envelope
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
