package chat

import "time"

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// StreamMessage is one message pulled back from the external chat provider.
type StreamMessage struct {
	SenderID  int64     `json:"sender_id" binding:"required,gt=0"`
	Content   string    `json:"content" binding:"required"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
}

type SyncRequest struct {
	Messages []StreamMessage `json:"messages" binding:"required,dive"`
}

// wsEvent is what subscribed clients receive when a channel gets a new
// message.
type wsEvent struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel_id"`
	Payload interface{} `json:"payload"`
}

// wsCommand is what clients send over the socket to manage subscriptions.
type wsCommand struct {
	Action    string `json:"action"`
	ChannelID string `json:"channel_id"`
}
