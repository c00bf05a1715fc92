package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dagi345/Tutorly/internal/pkg/jwt"
	"github.com/dagi345/Tutorly/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend host list is settled.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	service    *Service
	hub        *Hub
	jwtService *jwt.Service
}

func NewHandler(service *Service, hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{service: service, hub: hub, jwtService: jwtService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	chatGroup := rg.Group("/chat")
	{
		chatGroup.GET("/:channel/messages", h.ListMessages)
		chatGroup.POST("/:channel/messages", h.SendMessage)
		chatGroup.POST("/:channel/sync", h.Sync)
	}
}

// RegisterWSRoute registers the websocket endpoint outside the JWT header
// middleware; the token travels in the query string because browsers cannot
// set headers on websocket upgrades.
func (h *Handler) RegisterWSRoute(rg *gin.RouterGroup) {
	rg.GET("/chat/ws", h.HandleWebSocket)
}

func (h *Handler) ListMessages(c *gin.Context) {
	msgs, err := h.service.ListByChannel(c.Request.Context(), c.Param("channel"))
	if err != nil {
		if errors.Is(err, ErrBadChannel) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Channel id is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load messages")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	msg, err := h.service.AddMessage(c.Request.Context(), c.Param("channel"), c.GetInt64("user_id"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadChannel), errors.Is(err, ErrEmptyContent):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send message")
		}
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	msgs, err := h.service.SyncFromStream(c.Request.Context(), c.Param("channel"), req.Messages)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadChannel), errors.Is(err, ErrEmptyContent):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sync messages")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"synced": len(msgs)})
}

// HandleWebSocket upgrades GET /chat/ws?token=JWT and keeps the connection
// registered until the client goes away. Clients drive subscriptions with
// {"action":"subscribe","channel_id":"..."} commands.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token query parameter is required")
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("chat: websocket upgrade failed user_id=%d err=%v", claims.UserID, err)
		return
	}

	h.hub.Register(claims.UserID, conn)
	defer h.hub.Unregister(claims.UserID)

	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		switch cmd.Action {
		case "subscribe":
			if cmd.ChannelID != "" {
				h.hub.Subscribe(cmd.ChannelID, claims.UserID)
			}
		case "unsubscribe":
			if cmd.ChannelID != "" {
				h.hub.Unsubscribe(cmd.ChannelID, claims.UserID)
			}
		}
	}
}
