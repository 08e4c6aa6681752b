package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/Roy42022p/Backend/internal/domain/notification"
)

// DefaultSendDelay is the pause between consecutive sends. The sequential
// delay is a deliberate throttle against the messaging platform's rate
// limits; delivery is best-effort, not all-or-nothing.
const DefaultSendDelay = 10 * time.Second

// Notifier delivers a batch of messages one at a time with a fixed delay
// between sends. A failed delivery is logged and skipped; it never aborts
// the remaining batch and never surfaces to the caller.
type Notifier struct {
	channel notification.Channel
	delay   time.Duration
	logger  *slog.Logger
}

// NewNotifier creates a Notifier over the given delivery channel.
// A non-positive delay falls back to DefaultSendDelay.
func NewNotifier(channel notification.Channel, delay time.Duration, logger *slog.Logger) *Notifier {
	if delay <= 0 {
		delay = DefaultSendDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		channel: channel,
		delay:   delay,
		logger:  logger,
	}
}

// Delay returns the configured pause between consecutive sends.
func (n *Notifier) Delay() time.Duration {
	return n.delay
}

// BroadcastStats summarizes one Broadcast invocation.
type BroadcastStats struct {
	Sent    int
	Skipped int
}

// Broadcast delivers messages strictly in input order, waiting the configured
// delay between sends. Returns per-batch stats; errors are only logged.
// Cancelling ctx stops the batch at the next delay boundary.
func (n *Notifier) Broadcast(ctx context.Context, msgs []notification.Message) BroadcastStats {
	var stats BroadcastStats

	for i, msg := range msgs {
		result := n.channel.Send(ctx, msg)
		if result.Success {
			stats.Sent++
			n.logger.Info("notification sent",
				"chat_id", msg.ChatID,
				"message_id", result.MessageID,
			)
		} else {
			stats.Skipped++
			if result.BadRequest {
				n.logger.Warn("recipient rejected, skipping",
					"chat_id", msg.ChatID,
					"error", result.Error,
				)
			} else {
				n.logger.Error("notification delivery failed, skipping",
					"chat_id", msg.ChatID,
					"error", result.Error,
				)
			}
		}

		// No trailing delay after the last message.
		if i == len(msgs)-1 {
			break
		}

		select {
		case <-ctx.Done():
			n.logger.Warn("broadcast cancelled",
				"delivered", stats.Sent,
				"remaining", len(msgs)-i-1,
			)
			return stats
		case <-time.After(n.delay):
		}
	}

	return stats
}
