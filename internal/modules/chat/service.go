package chat

import (
	"context"
	"strings"
	"time"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/repository"
)

type Service struct {
	messages *repository.MessageRepository
	hub      *Hub
}

func NewService(messages *repository.MessageRepository, hub *Hub) *Service {
	return &Service{messages: messages, hub: hub}
}

// AddMessage stores a locally authored message and fans it out to channel
// subscribers.
func (s *Service) AddMessage(ctx context.Context, channelID string, senderID int64, content string) (*domain.Message, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, ErrBadChannel
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	msg := &domain.Message{
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.Broadcast(channelID, wsEvent{Type: "message", Channel: channelID, Payload: msg})
	return msg, nil
}

// SyncFromStream stores a batch of messages that originated in the external
// chat provider. Rows are flagged so a later reconciliation can tell the
// two origins apart.
func (s *Service) SyncFromStream(ctx context.Context, channelID string, batch []StreamMessage) ([]domain.Message, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, ErrBadChannel
	}

	msgs := make([]domain.Message, 0, len(batch))
	for _, sm := range batch {
		if strings.TrimSpace(sm.Content) == "" {
			return nil, ErrEmptyContent
		}
		msgs = append(msgs, domain.Message{
			ChannelID:    channelID,
			SenderID:     sm.SenderID,
			Content:      sm.Content,
			Timestamp:    sm.Timestamp.UTC(),
			SentAtStream: true,
		})
	}

	if err := s.messages.CreateBatch(ctx, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListByChannel returns a channel's history, oldest first.
func (s *Service) ListByChannel(ctx context.Context, channelID string) ([]domain.Message, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, ErrBadChannel
	}
	return s.messages.ListByChannel(ctx, channelID)
}
