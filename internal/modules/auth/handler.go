package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dagi345/Tutorly/internal/modules/user"
	"github.com/dagi345/Tutorly/internal/pkg/jwt"
	"github.com/dagi345/Tutorly/internal/pkg/response"
)

// Handler owns the identity-provider integration surface: the inbound
// webhook that mirrors provider users into our table, and a token mint
// endpoint that stands in for the provider's session token outside the
// hosted frontend.
type Handler struct {
	users         *user.Service
	jwtService    *jwt.Service
	webhookSecret string
}

func NewHandler(users *user.Service, jwtService *jwt.Service, webhookSecret string) *Handler {
	return &Handler{users: users, jwtService: jwtService, webhookSecret: webhookSecret}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/clerk", h.Webhook)
}

func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/token", h.MintToken)
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// Webhook handles provider events. Only user.created does anything; every
// other type is acknowledged so the provider stops retrying.
func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to read body")
		return
	}

	if h.webhookSecret != "" && !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid webhook payload")
		return
	}

	if event.Type != "user.created" {
		response.Success(c, http.StatusOK, gin.H{"ignored": event.Type})
		return
	}
	if event.Data.ID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing user id")
		return
	}

	name := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)
	email := ""
	if len(event.Data.EmailAddresses) > 0 {
		email = event.Data.EmailAddresses[0].EmailAddress
	}

	u, err := h.users.UpsertFromIdentity(c.Request.Context(), event.Data.ID, name, email, event.Data.ImageURL)
	if err != nil {
		log.Printf("auth: webhook upsert failed clerk_id=%s err=%v", event.Data.ID, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user_id": u.ID})
}

func (h *Handler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

type mintTokenRequest struct {
	ClerkID string `json:"clerk_id" binding:"required"`
}

// MintToken issues the HS256 bearer the API middleware consumes. Internal
// use only; the route sits behind the shared internal token.
func (h *Handler) MintToken(c *gin.Context) {
	var req mintTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "clerk_id is required")
		return
	}

	u, err := h.users.GetByClerkID(c.Request.Context(), req.ClerkID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}

	token, err := h.jwtService.GenerateToken(u.ID, u.ClerkID, string(u.Role))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mint token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}
