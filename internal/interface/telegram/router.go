// Package botapi реализует диалоговый интерфейс бота: самостоятельную
// регистрацию студентов и кураторов. Обновления приходят длинным опросом;
// маршрутизация — по команде, callback-кнопке и состоянию сессии.
package botapi

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Roy42022p/Backend/internal/application/registration"
	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
	"github.com/Roy42022p/Backend/internal/infrastructure/external/telegram"
)

// Router обрабатывает входящие обновления Telegram.
type Router struct {
	client  *telegram.Client
	machine *registration.Machine
	logger  *slog.Logger
}

// NewRouter создаёт маршрутизатор обновлений.
func NewRouter(client *telegram.Client, machine *registration.Machine, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{client: client, machine: machine, logger: logger}
}

// HandleUpdate — точка входа для telegram.Client.StartPolling.
func (r *Router) HandleUpdate(ctx context.Context, update *telegram.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return r.handleMessage(ctx, update.Message)
	default:
		return nil
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *telegram.Message) error {
	if msg.Chat == nil || !telegram.IsPrivateChat(msg) {
		return nil
	}

	if telegram.ExtractCommand(msg) == "start" {
		return r.showWelcome(ctx, msg.Chat.ID, senderFirstName(msg))
	}

	session, err := r.machine.Session(ctx, msg.Chat.ID)
	if err != nil {
		if errors.Is(err, registration.ErrNoSession) {
			return nil
		}
		return err
	}

	switch session.State {
	case registration.StateEnteringFullName:
		return r.handleFullName(ctx, msg, session)
	case registration.StateEnteringPassword:
		return r.handlePassword(ctx, msg)
	default:
		// Выбор роли делается кнопкой; текст на этом шаге игнорируется.
		return nil
	}
}

func (r *Router) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) error {
	if cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID

	defer func() {
		if err := r.client.AnswerCallbackQuery(ctx, cb.ID); err != nil {
			r.logger.Warn("failed to answer callback query", "error", err)
		}
	}()

	switch {
	case cb.Data == "menu":
		return r.showWelcome(ctx, chatID, callbackFirstName(cb))

	case strings.HasPrefix(cb.Data, "role_"):
		return r.chooseRole(ctx, chatID, strings.TrimPrefix(cb.Data, "role_"))

	default:
		return nil
	}
}

// showWelcome начинает (или перезапускает) диалог регистрации.
// Уже привязанный чат получает короткий ответ вместо приветствия.
func (r *Router) showWelcome(ctx context.Context, chatID int64, firstName string) error {
	err := r.machine.Begin(ctx, chatID)
	if errors.Is(err, registration.ErrAlreadyRegistered) {
		return r.send(ctx, chatID, alreadyRegisteredText, nil)
	}
	if err != nil {
		return err
	}
	return r.send(ctx, chatID, welcomeText(firstName), roleKeyboard())
}

func (r *Router) chooseRole(ctx context.Context, chatID int64, rawRole string) error {
	role, err := records.ParseRole(rawRole)
	if err != nil {
		return nil
	}

	if err := r.machine.ChooseRole(ctx, chatID, role); err != nil {
		if errors.Is(err, registration.ErrNoSession) || errors.Is(err, registration.ErrUnexpectedState) {
			return nil
		}
		return err
	}

	prompt, err := r.client.SendMessage(ctx, telegram.SendMessageParams{
		ChatID: chatID,
		Text:   fullNamePromptText,
	})
	if err != nil {
		return err
	}

	if err := r.machine.RememberPrompt(ctx, chatID, prompt.MessageID); err != nil {
		r.logger.Warn("failed to remember prompt message", "chat_id", chatID, "error", err)
	}
	return nil
}

func (r *Router) handleFullName(ctx context.Context, msg *telegram.Message, session *registration.Session) error {
	chatID := msg.Chat.ID
	input := strings.TrimSpace(msg.Text)

	err := r.machine.SubmitFullName(ctx, chatID, input)
	switch {
	case err == nil:
		if session.PromptMessageID != 0 {
			if delErr := r.client.DeleteMessage(ctx, chatID, session.PromptMessageID); delErr != nil {
				r.logger.Warn("failed to delete prompt message", "chat_id", chatID, "error", delErr)
			}
		}
		return r.send(ctx, chatID, passwordPromptText, nil)

	case errors.Is(err, records.ErrBadFullName):
		return r.send(ctx, chatID, badFullNameText, backKeyboard())

	case errors.Is(err, registration.ErrAlreadyRegistered):
		if abortErr := r.machine.Abort(ctx, chatID); abortErr != nil {
			r.logger.Warn("failed to abort registration", "chat_id", chatID, "error", abortErr)
		}
		return r.send(ctx, chatID, alreadyRegisteredText, nil)

	case shared.IsNotFound(err):
		return r.send(ctx, chatID, participantNotFoundText, nil)

	default:
		return err
	}
}

func (r *Router) handlePassword(ctx context.Context, msg *telegram.Message) error {
	chatID := msg.Chat.ID
	password := strings.TrimSpace(msg.Text)

	login, err := r.machine.SubmitPassword(ctx, chatID, password)
	switch {
	case err == nil:
		return r.send(ctx, chatID, successText(login, password), nil)

	case errors.Is(err, registration.ErrWeakPassword):
		return r.send(ctx, chatID, weakPasswordText, nil)

	default:
		r.logger.Error("registration failed", "chat_id", chatID, "error", err)
		if abortErr := r.machine.Abort(ctx, chatID); abortErr != nil {
			r.logger.Warn("failed to abort registration", "chat_id", chatID, "error", abortErr)
		}
		return r.send(ctx, chatID, registrationFailedText, nil)
	}
}

func (r *Router) send(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error {
	_, err := r.client.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	return err
}

func senderFirstName(msg *telegram.Message) string {
	if msg.From != nil {
		return msg.From.FirstName
	}
	return ""
}

func callbackFirstName(cb *telegram.CallbackQuery) string {
	if cb.From != nil {
		return cb.From.FirstName
	}
	return ""
}
