// Package registration реализует машину состояний самостоятельной
// регистрации в боте: выбор роли → ввод ФИО → ввод пароля → привязка чата.
// Состояние диалога хранится по chat_id во внешнем хранилище с TTL, так что
// перезапуск процесса или молчание пользователя не оставляют «подвисших»
// сессий навсегда.
package registration

import (
	"context"
	"time"

	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// State — этап диалога регистрации.
type State string

const (
	// StateChoosingRole — ожидается выбор роли кнопкой.
	StateChoosingRole State = "choosing_role"

	// StateEnteringFullName — ожидается ввод ФИО текстом.
	StateEnteringFullName State = "entering_full_name"

	// StateEnteringPassword — ожидается ввод пароля текстом.
	StateEnteringPassword State = "entering_password"
)

// SessionTTL — срок жизни незавершённой сессии регистрации.
const SessionTTL = 30 * time.Minute

// Session — накопленные данные одного диалога регистрации.
// Ключом служит chat_id, поэтому параллельные диалоги разных
// пользователей не пересекаются.
type Session struct {
	State State

	// Role выбирается на первом шаге.
	Role records.Role

	// PrincipalID и Login заполняются после успешного поиска по ФИО.
	PrincipalID int64
	Login       string

	// PromptMessageID — сообщение с подсказкой о формате ФИО; бот удаляет
	// его после корректного ввода. Ноль — подсказки нет.
	PromptMessageID int64
}

// StateStore хранит сессии регистрации по chat_id. Реализация обязана
// вытеснять записи по истечении SessionTTL.
type StateStore interface {
	// Get возвращает сессию чата или ErrNoSession.
	Get(ctx context.Context, chatID int64) (*Session, error)

	// Put сохраняет сессию и продлевает её срок жизни.
	Put(ctx context.Context, chatID int64, s *Session) error

	// Delete удаляет сессию. Отсутствующая сессия — не ошибка.
	Delete(ctx context.Context, chatID int64) error
}

// Ошибки регистрации.
var (
	ErrNoSession         = shared.NewDomainError("registration", "Get", shared.ErrNotFound, "no active registration session")
	ErrUnexpectedState   = shared.NewDomainError("registration", "Advance", shared.ErrStateTransition, "input does not match the current registration step")
	ErrAlreadyRegistered = shared.NewDomainError("registration", "Begin", shared.ErrAlreadyExists, "chat is already bound to a participant")
	ErrWeakPassword      = shared.NewDomainError("registration", "SubmitPassword", shared.ErrValidation, "password must be at least 4 characters")
)
