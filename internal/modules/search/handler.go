package search

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

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
	rg.GET("/tutors", h.List)
	rg.GET("/tutors/search", h.Search)
}

// List handles GET /tutors?cursor=&limit=&days=1,3&hours=10,14.
func (h *Handler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a non-negative integer")
			return
		}
		limit = v
	}

	days, err := parseIntList(c.Query("days"), 0, 6)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "days must be integers in 0..6")
		return
	}
	hours, err := parseIntList(c.Query("hours"), 0, 23)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "hours must be integers in 0..23")
		return
	}

	page, err := h.service.ListApprovedFiltered(c.Request.Context(), c.Query("cursor"), limit, Filter{Days: days, Hours: hours})
	if err != nil {
		if errors.Is(err, ErrBadCursor) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed cursor")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tutors")
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) Search(c *gin.Context) {
	page, err := h.service.SearchApproved(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search tutors")
		return
	}
	response.Success(c, http.StatusOK, page)
}

func parseIntList(raw string, min, max int) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < min || v > max {
			return nil, errors.New("out of range")
		}
		out = append(out, v)
	}
	return out, nil
}
