package chat

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks one websocket connection per user and which channels each user
// is watching. Fanout goes to subscribed, connected users only.
type Hub struct {
	connections   map[int64]*websocket.Conn
	subscriptions map[string]map[int64]struct{}
	mutex         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections:   make(map[int64]*websocket.Conn),
		subscriptions: make(map[string]map[int64]struct{}),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists && old != nil {
		_ = old.Close()
	}
	h.connections[userID] = conn
}

func (h *Hub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[userID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, userID)
	}
	for _, members := range h.subscriptions {
		delete(members, userID)
	}
}

func (h *Hub) Subscribe(channelID string, userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	members, ok := h.subscriptions[channelID]
	if !ok {
		members = make(map[int64]struct{})
		h.subscriptions[channelID] = members
	}
	members[userID] = struct{}{}
}

func (h *Hub) Unsubscribe(channelID string, userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if members, ok := h.subscriptions[channelID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(h.subscriptions, channelID)
		}
	}
}

func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	h.mutex.RLock()
	conn, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists || conn == nil {
		return false
	}
	if err := conn.WriteJSON(message); err != nil {
		h.Unregister(userID)
		return false
	}
	return true
}

// Broadcast sends a message to every connected subscriber of a channel and
// returns how many deliveries succeeded.
func (h *Hub) Broadcast(channelID string, message interface{}) int {
	h.mutex.RLock()
	ids := make([]int64, 0, len(h.subscriptions[channelID]))
	for userID := range h.subscriptions[channelID] {
		ids = append(ids, userID)
	}
	h.mutex.RUnlock()

	delivered := 0
	for _, userID := range ids {
		if h.SendToUser(userID, message) {
			delivered++
		}
	}
	return delivered
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, userID)
	}
	h.subscriptions = make(map[string]map[int64]struct{})
}
