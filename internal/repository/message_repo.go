package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

type messageModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	ChannelID    string    `gorm:"column:channel_id;index"`
	SenderID     int64     `gorm:"column:sender_id"`
	Content      string    `gorm:"column:content"`
	Timestamp    time.Time `gorm:"column:timestamp"`
	SentAtStream bool      `gorm:"column:sent_at_stream;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (messageModel) TableName() string { return "messages" }

func toDomainMessage(m messageModel) *domain.Message {
	return &domain.Message{
		ID:           m.ID,
		ChannelID:    m.ChannelID,
		SenderID:     m.SenderID,
		Content:      m.Content,
		Timestamp:    m.Timestamp,
		SentAtStream: m.SentAtStream,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toMessageModel(msg *domain.Message) messageModel {
	return messageModel{
		ID:           msg.ID,
		ChannelID:    msg.ChannelID,
		SenderID:     msg.SenderID,
		Content:      msg.Content,
		Timestamp:    msg.Timestamp,
		SentAtStream: msg.SentAtStream,
		CreatedAt:    msg.CreatedAt,
		UpdatedAt:    msg.UpdatedAt,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	m := toMessageModel(msg)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*msg = *toDomainMessage(m)
	return nil
}

// CreateBatch inserts a batch of synced messages in one transaction.
func (r *MessageRepository) CreateBatch(ctx context.Context, msgs []domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range msgs {
			m := toMessageModel(&msgs[i])
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			msgs[i] = *toDomainMessage(m)
		}
		return nil
	})
}

func (r *MessageRepository) ListByChannel(ctx context.Context, channelID string) ([]domain.Message, error) {
	var rows []messageModel
	if err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("timestamp asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Message, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainMessage(m))
	}
	return out, nil
}
