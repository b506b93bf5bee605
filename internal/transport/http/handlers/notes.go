package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
	"github.com/mykdolnyk/ban-review-website/internal/transport/http/middleware"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

// NoteHandler serves admin notes against requesters.
type NoteHandler struct {
	admins *usecase.AdminService
	cfg    config.ThreadSettings
}

// NewNoteHandler builds a note handler.
func NewNoteHandler(admins *usecase.AdminService, cfg config.ThreadSettings) *NoteHandler {
	return &NoteHandler{admins: admins, cfg: cfg}
}

// CreateNote records a note, optionally pinned to a requester.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req NoteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "text is required"))
		return
	}

	note, err := h.admins.CreateNote(c.Request.Context(), adminID, req.RequesterID, req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create note"))
		return
	}

	c.JSON(http.StatusCreated, notePayload(*note))
}

// ListNotes returns a paginated note listing with an optional requester filter.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	params := parsePagination(c, h.cfg.DefaultPerPage, h.cfg.MaxPerPage)

	filter := port.AdminNoteFilter{
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

	notes, total, err := h.admins.ListNotes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list notes"))
		return
	}

	payloads := make([]NotePayload, 0, len(notes))
	for _, note := range notes {
		payloads = append(payloads, notePayload(note))
	}

	c.JSON(http.StatusOK, listEnvelope("note", payloads, params, total))
}

// GetNote returns a single note by id.
func (h *NoteHandler) GetNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid note id"))
		return
	}

	note, err := h.admins.GetNote(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "note not found"},
		}, http.StatusInternalServerError, "failed to load note")
		return
	}

	c.JSON(http.StatusOK, notePayload(*note))
}

// UpdateNote replaces a note's text.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid note id"))
		return
	}

	var req NoteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "text is required"))
		return
	}

	note, err := h.admins.UpdateNote(c.Request.Context(), id, req.Text)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "note not found"},
		}, http.StatusInternalServerError, "failed to update note")
		return
	}

	c.JSON(http.StatusOK, notePayload(*note))
}

// DeleteNote removes a note.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid note id"))
		return
	}

	if err := h.admins.DeleteNote(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "note not found"},
		}, http.StatusInternalServerError, "failed to delete note")
		return
	}

	c.Status(http.StatusNoContent)
}
