package registration

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/pkg/security"
)

// MinPasswordLength — минимальная длина пароля при регистрации.
const MinPasswordLength = 4

// Machine — машина состояний регистрации. Каждый метод обрабатывает одно
// входящее событие диалога и переводит сессию в следующее состояние.
// Ошибки валидации (неверное ФИО, короткий пароль, участник не найден)
// оставляют сессию в текущем состоянии: пользователь просто пробует снова.
type Machine struct {
	store    StateStore
	students records.StudentRepository
	curators records.CuratorRepository
	handles  records.HandleRepository
	logger   *slog.Logger
}

// NewMachine создаёт машину регистрации.
func NewMachine(
	store StateStore,
	students records.StudentRepository,
	curators records.CuratorRepository,
	handles records.HandleRepository,
	logger *slog.Logger,
) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		store:    store,
		students: students,
		curators: curators,
		handles:  handles,
		logger:   logger,
	}
}

// Session возвращает текущую сессию чата или ErrNoSession.
func (m *Machine) Session(ctx context.Context, chatID int64) (*Session, error) {
	return m.store.Get(ctx, chatID)
}

// Begin начинает (или перезапускает) диалог регистрации. Повторный /start
// посреди диалога сбрасывает накопленное состояние — пользователь всегда
// может начать заново. Уже привязанный чат — ErrAlreadyRegistered.
func (m *Machine) Begin(ctx context.Context, chatID int64) error {
	bound, err := m.handles.Exists(ctx, chatID)
	if err != nil {
		return err
	}
	if bound {
		return ErrAlreadyRegistered
	}
	return m.store.Put(ctx, chatID, &Session{State: StateChoosingRole})
}

// ChooseRole фиксирует выбранную роль и переводит диалог к вводу ФИО.
// Самостоятельно зарегистрироваться могут только студент и куратор.
func (m *Machine) ChooseRole(ctx context.Context, chatID int64, role records.Role) error {
	session, err := m.store.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if session.State != StateChoosingRole {
		return ErrUnexpectedState
	}
	if role != records.RoleStudent && role != records.RoleCurator {
		return records.ErrUnknownRole
	}

	session.Role = role
	session.State = StateEnteringFullName
	return m.store.Put(ctx, chatID, session)
}

// RememberPrompt сохраняет в сессии идентификатор сообщения-подсказки,
// чтобы бот мог удалить его после корректного ввода ФИО.
func (m *Machine) RememberPrompt(ctx context.Context, chatID, messageID int64) error {
	session, err := m.store.Get(ctx, chatID)
	if err != nil {
		return err
	}
	session.PromptMessageID = messageID
	return m.store.Put(ctx, chatID, session)
}

// SubmitFullName разбирает введённое ФИО и ищет участника выбранной роли.
// ФИО не из трёх слов — records.ErrBadFullName; неизвестное ФИО — ошибка
// поиска соответствующей роли. В обоих случаях состояние не меняется.
func (m *Machine) SubmitFullName(ctx context.Context, chatID int64, input string) error {
	session, err := m.store.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if session.State != StateEnteringFullName {
		return ErrUnexpectedState
	}

	name, err := records.ParseFullName(input)
	if err != nil {
		return err
	}

	switch session.Role {
	case records.RoleStudent:
		student, err := m.students.GetByFullName(ctx, name)
		if err != nil {
			return err
		}
		if student.Registered() {
			return ErrAlreadyRegistered
		}
		session.PrincipalID = student.ID
		if student.Login != nil {
			session.Login = *student.Login
		}

	case records.RoleCurator:
		curator, err := m.curators.GetByFullName(ctx, name)
		if err != nil {
			return err
		}
		if curator.HandleID != nil {
			return ErrAlreadyRegistered
		}
		session.PrincipalID = curator.ID
		session.Login = curator.Login

	default:
		return records.ErrUnknownRole
	}

	session.State = StateEnteringPassword
	return m.store.Put(ctx, chatID, session)
}

// SubmitPassword завершает регистрацию: хэширует пароль, привязывает чат
// и сохраняет учётные данные. Возвращает логин участника для показа в
// итоговом сообщении. Короткий пароль — ErrWeakPassword, состояние не
// меняется.
func (m *Machine) SubmitPassword(ctx context.Context, chatID int64, password string) (string, error) {
	session, err := m.store.Get(ctx, chatID)
	if err != nil {
		return "", err
	}
	if session.State != StateEnteringPassword {
		return "", ErrUnexpectedState
	}

	password = strings.TrimSpace(password)
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return "", err
	}

	handle, err := m.ensureHandle(ctx, chatID)
	if err != nil {
		return "", err
	}

	switch session.Role {
	case records.RoleStudent:
		err = m.students.SetCredentials(ctx, session.PrincipalID, hash, handle.ID)
	case records.RoleCurator:
		err = m.curators.SetCredentials(ctx, session.PrincipalID, hash, handle.ID)
	default:
		return "", records.ErrUnknownRole
	}
	if err != nil {
		return "", err
	}

	if err := m.store.Delete(ctx, chatID); err != nil {
		m.logger.Warn("failed to clear registration session", "chat_id", chatID, "error", err)
	}

	m.logger.Info("registration completed",
		"chat_id", chatID,
		"role", session.Role,
		"login", session.Login,
	)
	return session.Login, nil
}

// Abort сбрасывает диалог регистрации чата.
func (m *Machine) Abort(ctx context.Context, chatID int64) error {
	return m.store.Delete(ctx, chatID)
}

// ensureHandle возвращает существующую привязку чата или создаёт новую.
// Повторное использование строки по chat_id гарантирует инвариант
// «на один чат — одна привязка».
func (m *Machine) ensureHandle(ctx context.Context, chatID int64) (*records.ChatHandle, error) {
	handle, err := m.handles.GetByChatID(ctx, chatID)
	switch {
	case err == nil:
		return handle, nil
	case errors.Is(err, records.ErrHandleNotFound):
		return m.handles.Create(ctx, chatID)
	default:
		return nil, err
	}
}
