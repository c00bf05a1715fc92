package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dagi345/Tutorly/internal/modules/review"
	"github.com/dagi345/Tutorly/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the dashboard endpoints. The group must already
// carry the admin role middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/approvals", h.PendingApprovals)
	rg.POST("/tutors/:id/approve", h.ApproveTutor)
	rg.POST("/tutors/:id/reject", h.RejectTutor)
	rg.POST("/tutors/:id/hide", h.HideTutor)
	rg.DELETE("/reviews/:id", h.RemoveReview)
	rg.GET("/kpis", h.KPIs)
	rg.GET("/revenue", h.Revenue)
	rg.GET("/top-tutors", h.TopTutors)
	rg.GET("/recent-lessons", h.RecentLessons)
	rg.GET("/new-users", h.NewUsers)
	rg.GET("/payouts", h.Payouts)
}

func (h *Handler) PendingApprovals(c *gin.Context) {
	pending, err := h.service.PendingApprovals(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load approvals")
		return
	}
	response.Success(c, http.StatusOK, pending)
}

func (h *Handler) ApproveTutor(c *gin.Context) {
	h.moderateTutor(c, h.service.ApproveTutor, "approved")
}

func (h *Handler) RejectTutor(c *gin.Context) {
	h.moderateTutor(c, h.service.RejectTutor, "rejected")
}

func (h *Handler) HideTutor(c *gin.Context) {
	h.moderateTutor(c, h.service.HideTutor, "hidden")
}

func (h *Handler) moderateTutor(c *gin.Context, action func(context.Context, int64) error, outcome string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tutor ID")
		return
	}

	if err := action(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTutorNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tutor profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update tutor")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tutor_id": id, "status": outcome})
}

func (h *Handler) RemoveReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid review ID")
		return
	}

	if err := h.service.RemoveReview(c.Request.Context(), id); err != nil {
		if errors.Is(err, review.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove review")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review_id": id, "status": "removed"})
}

func (h *Handler) KPIs(c *gin.Context) {
	kpis, err := h.service.KPIs(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load KPIs")
		return
	}
	response.Success(c, http.StatusOK, kpis)
}

func (h *Handler) Revenue(c *gin.Context) {
	months, err := h.service.RevenueByMonth(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load revenue")
		return
	}
	response.Success(c, http.StatusOK, months)
}

func (h *Handler) TopTutors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	tutors, err := h.service.TopTutors(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load top tutors")
		return
	}
	response.Success(c, http.StatusOK, tutors)
}

func (h *Handler) RecentLessons(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	lessons, err := h.service.RecentLessons(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load lessons")
		return
	}
	response.Success(c, http.StatusOK, lessons)
}

func (h *Handler) NewUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	users, err := h.service.NewUsers(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load users")
		return
	}
	response.Success(c, http.StatusOK, users)
}

func (h *Handler) Payouts(c *gin.Context) {
	payouts, err := h.service.PendingPayouts(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payouts")
		return
	}
	response.Success(c, http.StatusOK, payouts)
}
