package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dagi345/Tutorly/internal/repository"

	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:chat_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	return NewService(repository.NewMessageRepository(db), NewHub())
}

func TestAddMessageAndHistoryOrder(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	first, err := svc.AddMessage(ctx, "lesson-1", 10, "hello")
	require.NoError(t, err)
	assert.False(t, first.SentAtStream)

	_, err = svc.AddMessage(ctx, "lesson-1", 20, "hi there")
	require.NoError(t, err)
	_, err = svc.AddMessage(ctx, "lesson-2", 10, "other channel")
	require.NoError(t, err)

	msgs, err := svc.ListByChannel(ctx, "lesson-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "hi there", msgs[1].Content)
}

func TestAddMessageValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddMessage(ctx, "", 10, "hello")
	assert.ErrorIs(t, err, ErrBadChannel)

	_, err = svc.AddMessage(ctx, "lesson-1", 10, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestSyncFromStreamFlagsOrigin(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	synced, err := svc.SyncFromStream(ctx, "lesson-1", []StreamMessage{
		{SenderID: 10, Content: "from stream", Timestamp: base},
		{SenderID: 20, Content: "also from stream", Timestamp: base.Add(time.Minute)},
	})
	require.NoError(t, err)
	require.Len(t, synced, 2)

	msgs, err := svc.ListByChannel(ctx, "lesson-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.True(t, m.SentAtStream)
	}
}

func TestHubSubscriptionBookkeeping(t *testing.T) {
	hub := NewHub()

	hub.Subscribe("lesson-1", 10)
	hub.Subscribe("lesson-1", 20)

	// Nobody is connected, so nothing is deliverable.
	assert.Zero(t, hub.Broadcast("lesson-1", wsEvent{Type: "message"}))
	assert.False(t, hub.IsOnline(10))

	hub.Unsubscribe("lesson-1", 10)
	hub.Unsubscribe("lesson-1", 20)
	assert.Zero(t, hub.OnlineCount())
}
