// Package notification содержит доменную модель исходящих уведомлений:
// сообщение, канал доставки и результат отправки. Доставка best-effort —
// сбой по одному получателю не считается сбоем рассылки.
package notification

import (
	"context"
	"time"

	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// Button — опциональная inline-кнопка со ссылкой под сообщением.
type Button struct {
	Text string
	URL  string
}

// Message — одно исходящее сообщение конкретному получателю.
type Message struct {
	// ChatID — внешний идентификатор чата получателя.
	ChatID int64

	// Text — текст сообщения (HTML-разметка).
	Text string

	// Button — кнопка-ссылка (nil, если не нужна).
	Button *Button
}

// DeliveryResult — результат доставки одного сообщения.
type DeliveryResult struct {
	// Success — доставлено ли сообщение.
	Success bool

	// MessageID — идентификатор отправленного сообщения.
	MessageID string

	// DeliveredAt — время попытки доставки.
	DeliveredAt time.Time

	// Error — ошибка доставки (если Success == false).
	Error error

	// BadRequest — постоянная ошибка этого получателя (бот заблокирован,
	// чат не найден). Такого получателя пропускают без повторов.
	BadRequest bool
}

// NewSuccessResult создаёт результат успешной доставки.
func NewSuccessResult(messageID string) DeliveryResult {
	return DeliveryResult{
		Success:     true,
		MessageID:   messageID,
		DeliveredAt: time.Now().UTC(),
	}
}

// NewFailureResult создаёт результат неудачной доставки.
func NewFailureResult(err error, badRequest bool) DeliveryResult {
	return DeliveryResult{
		DeliveredAt: time.Now().UTC(),
		Error:       err,
		BadRequest:  badRequest,
	}
}

// Channel — канал доставки уведомлений (реализуется Telegram-клиентом).
// Send не возвращает error: любой исход упакован в DeliveryResult,
// и решение о продолжении рассылки принимает отправитель.
type Channel interface {
	Send(ctx context.Context, msg Message) DeliveryResult
}

// Доменные ошибки уведомлений.
var (
	ErrRecipientBlocked = shared.NewDomainError("notification", "Send", shared.ErrExternalService, "recipient blocked the bot")
	ErrChatNotFound     = shared.NewDomainError("notification", "Send", shared.ErrNotFound, "chat not found")
	ErrDeliveryFailed   = shared.NewDomainError("notification", "Send", shared.ErrExternalService, "delivery failed")
)
