package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Roy42022p/Backend/internal/domain/notification"
)

// fakeChannel записывает отправленные сообщения и проваливает доставку
// для chat_id из failFor.
type fakeChannel struct {
	sent    []int64
	failFor map[int64]bool
}

func (c *fakeChannel) Send(_ context.Context, msg notification.Message) notification.DeliveryResult {
	c.sent = append(c.sent, msg.ChatID)
	if c.failFor[msg.ChatID] {
		return notification.NewFailureResult(notification.ErrRecipientBlocked, true)
	}
	return notification.NewSuccessResult("1")
}

func TestNotifier_BroadcastOrder(t *testing.T) {
	channel := &fakeChannel{}
	n := NewNotifier(channel, time.Millisecond, nil)

	stats := n.Broadcast(context.Background(), []notification.Message{
		{ChatID: 10, Text: "a"},
		{ChatID: 20, Text: "b"},
		{ChatID: 30, Text: "c"},
	})

	assert.Equal(t, 3, stats.Sent)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, []int64{10, 20, 30}, channel.sent)
}

func TestNotifier_BroadcastSkipsFailures(t *testing.T) {
	channel := &fakeChannel{failFor: map[int64]bool{20: true}}
	n := NewNotifier(channel, time.Millisecond, nil)

	stats := n.Broadcast(context.Background(), []notification.Message{
		{ChatID: 10},
		{ChatID: 20},
		{ChatID: 30},
	})

	// Отказ одного получателя не прерывает остальных.
	assert.Equal(t, 2, stats.Sent)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, []int64{10, 20, 30}, channel.sent)
}

func TestNotifier_BroadcastEmpty(t *testing.T) {
	channel := &fakeChannel{}
	n := NewNotifier(channel, time.Millisecond, nil)

	stats := n.Broadcast(context.Background(), nil)
	assert.Equal(t, 0, stats.Sent)
	assert.Equal(t, 0, stats.Skipped)
	assert.Empty(t, channel.sent)
}

func TestNotifier_BroadcastCancelled(t *testing.T) {
	channel := &fakeChannel{}
	n := NewNotifier(channel, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := n.Broadcast(ctx, []notification.Message{
		{ChatID: 10},
		{ChatID: 20},
	})

	// Первое сообщение уходит, отмена срабатывает на паузе перед вторым.
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, []int64{10}, channel.sent)
}
