package booking

import (
	"errors"
	"net/http"

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
	rg.POST("/lessons", h.Book)
}

func (h *Handler) Book(c *gin.Context) {
	var req BookLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	lesson, err := h.service.Book(
		c.Request.Context(),
		c.GetInt64("user_id"),
		req.TutorID,
		req.Datetime,
		req.IsTrial,
		req.IsRecurring,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Lesson time must be a future full hour")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrTutorNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tutor not found")
		case errors.Is(err, ErrTutorNotApproved):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Tutor is not approved")
		case errors.Is(err, ErrSlotUnavailable):
			response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "Slot is not in the tutor's availability")
		case errors.Is(err, ErrSlotTaken):
			response.Error(c, http.StatusConflict, "SLOT_TAKEN", "Slot is already booked")
		case errors.Is(err, ErrInsufficientCredits):
			response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_CREDITS", "Not enough credits")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to book lesson")
		}
		return
	}

	response.Success(c, http.StatusCreated, lesson)
}
