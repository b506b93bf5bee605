package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
	"github.com/mykdolnyk/ban-review-website/internal/transport/http/middleware"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

// ThreadHandler serves conversation threads for both requesters and admins.
type ThreadHandler struct {
	threads  *usecase.ThreadService
	messages *usecase.MessageService
	cfg      config.ThreadSettings
}

// NewThreadHandler builds a thread handler.
func NewThreadHandler(threads *usecase.ThreadService, messages *usecase.MessageService, cfg config.ThreadSettings) *ThreadHandler {
	return &ThreadHandler{threads: threads, messages: messages, cfg: cfg}
}

// GetThread returns a guard-checked thread detail with its messages. Admins
// may read any active thread; requesters only their own.
func (h *ThreadHandler) GetThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid thread id"))
		return
	}

	_, isAdmin := middleware.GetAdminID(c)
	requesterID, _ := middleware.GetRequesterID(c)

	detail, err := h.messages.GetThreadDetail(c.Request.Context(), id, isAdmin, requesterID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "thread not found"},
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "thread belongs to another requester"},
		}, http.StatusInternalServerError, "failed to load thread")
		return
	}

	messages := make([]MessagePayload, 0, len(detail.Messages))
	for _, message := range detail.Messages {
		messages = append(messages, messagePayload(message))
	}

	c.JSON(http.StatusOK, ThreadDetailResponse{
		Thread:   threadPayload(*detail.Thread),
		Messages: messages,
	})
}

// PostMessage appends a requester message to its active thread.
func (h *ThreadHandler) PostMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid thread id"))
		return
	}

	requesterID, ok := middleware.GetRequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "no session"))
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "text is required"))
		return
	}

	message, err := h.messages.PostRequesterMessage(c.Request.Context(), id, requesterID, req.Text)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "thread not found"},
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "thread belongs to another requester"},
		}, http.StatusInternalServerError, "failed to post message")
		return
	}

	c.JSON(http.StatusCreated, messagePayload(*message))
}

// ListThreads returns a paginated thread listing with optional key and
// requester filters.
func (h *ThreadHandler) ListThreads(c *gin.Context) {
	params := parsePagination(c, h.cfg.DefaultPerPage, h.cfg.MaxPerPage)

	filter := port.ThreadFilter{
		Key:    strings.TrimSpace(c.Query("key")),
		Limit:  params.limit(),
		Offset: params.offset(),
	}
	if raw := c.Query("requester_id"); raw != "" {
		requesterID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || requesterID < 1 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid requester_id"))
			return
		}
		filter.RequesterID = requesterID
	}

	threads, total, err := h.messages.ListThreads(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list threads"))
		return
	}

	payloads := make([]ThreadPayload, 0, len(threads))
	for _, thread := range threads {
		payloads = append(payloads, threadPayload(thread))
	}

	c.JSON(http.StatusOK, listEnvelope("thread", payloads, params, total))
}

// TransitionThread moves a thread to the requested status.
func (h *ThreadHandler) TransitionThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid thread id"))
		return
	}

	var req ThreadTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "status is required"))
		return
	}

	if _, err := h.threads.GetActive(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "thread not found"},
		}, http.StatusInternalServerError, "failed to load thread")
		return
	}

	var processedBy *int64
	if adminID, ok := middleware.GetAdminID(c); ok {
		processedBy = &adminID
	}

	status := domain.ThreadStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	err := h.threads.Transition(c.Request.Context(), id, status, req.SuppressDeletion, processedBy)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidStatus, Status: http.StatusBadRequest, Message: "unrecognized status"},
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "thread not found"},
		}, http.StatusInternalServerError, "failed to transition thread")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "thread transitioned"})
}

// DeleteThread closes a thread as unresolved.
func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid thread id"))
		return
	}

	if _, err := h.threads.GetActive(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "thread not found"},
		}, http.StatusInternalServerError, "failed to load thread")
		return
	}

	var processedBy *int64
	if adminID, ok := middleware.GetAdminID(c); ok {
		processedBy = &adminID
	}

	err := h.threads.Transition(c.Request.Context(), id, domain.ThreadStatusUnresolved, false, processedBy)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "thread not found"},
		}, http.StatusInternalServerError, "failed to close thread")
		return
	}

	c.Status(http.StatusNoContent)
}

// ThreadStatuses returns the recognized status values.
func (h *ThreadHandler) ThreadStatuses(c *gin.Context) {
	statuses := make(map[string]string)
	for _, status := range domain.ThreadStatuses() {
		statuses[strings.ToUpper(string(status))] = string(status)
	}
	c.JSON(http.StatusOK, statuses)
}
