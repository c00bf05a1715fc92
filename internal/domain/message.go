package domain

import "time"

// Message is a chat line in an external-chat-system channel. SentAtStream
// marks rows synced back from the chat SaaS rather than authored locally.
type Message struct {
	ID           int64     `json:"id"`
	ChannelID    string    `json:"channel_id"`
	SenderID     int64     `json:"sender_id"`
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp"`
	SentAtStream bool      `json:"sent_at_stream"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
