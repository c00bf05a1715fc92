package video

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dagi345/Tutorly/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/video/token", h.Token)
	rg.POST("/lessons/:id/call", h.CreateCall)
	rg.GET("/lessons/:id/call", h.CallInfo)
}

func (h *Handler) Token(c *gin.Context) {
	token, err := h.service.Token(c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mint call token")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token})
}

func (h *Handler) CreateCall(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid lesson ID")
		return
	}

	l, err := h.service.CreateCall(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"lesson_id": l.ID, "call_id": l.CallID})
}

func (h *Handler) CallInfo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid lesson ID")
		return
	}

	l, err := h.service.CallInfo(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLessonMissing):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lesson not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not a participant of this lesson")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to handle call request")
	}
}
