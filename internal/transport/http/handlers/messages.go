package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

// MessageHandler serves the admin message endpoints.
type MessageHandler struct {
	messages *usecase.MessageService
	cfg      config.ThreadSettings
}

// NewMessageHandler builds a message handler.
func NewMessageHandler(messages *usecase.MessageService, cfg config.ThreadSettings) *MessageHandler {
	return &MessageHandler{messages: messages, cfg: cfg}
}

// ListMessages returns a paginated message listing, optionally scoped to a
// thread.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	params := parsePagination(c, h.cfg.DefaultPerPage, h.cfg.MaxPerPage)

	filter := port.MessageFilter{
		Limit:  params.limit(),
		Offset: params.offset(),
	}
	if raw := c.Query("thread_id"); raw != "" {
		threadID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || threadID < 1 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid thread_id"))
			return
		}
		filter.ThreadID = threadID
	}

	messages, total, err := h.messages.ListMessages(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list messages"))
		return
	}

	payloads := make([]MessagePayload, 0, len(messages))
	for _, message := range messages {
		payloads = append(payloads, messagePayload(message))
	}

	c.JSON(http.StatusOK, listEnvelope("message", payloads, params, total))
}

// GetMessage returns a single message by id.
func (h *MessageHandler) GetMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid message id"))
		return
	}

	message, err := h.messages.GetMessage(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "message not found"},
		}, http.StatusInternalServerError, "failed to load message")
		return
	}

	c.JSON(http.StatusOK, messagePayload(*message))
}

// DeleteMessage removes a single message.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid message id"))
		return
	}

	if err := h.messages.DeleteMessage(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "message not found"},
		}, http.StatusInternalServerError, "failed to delete message")
		return
	}

	c.Status(http.StatusNoContent)
}
