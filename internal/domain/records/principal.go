// Package records содержит доменную модель учёта промежуточной аттестации:
// участники (администраторы, кураторы, студенты), группы, экзамены и оценки.
// Пакет не зависит от инфраструктуры — только чистые типы и инварианты.
package records

import (
	"strings"

	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLE
// ══════════════════════════════════════════════════════════════════════════════

// Role определяет роль участника системы.
type Role string

const (
	// RoleAdmin — администратор, видит и меняет всё.
	RoleAdmin Role = "admin"

	// RoleCurator — куратор, работает только со своими группами.
	RoleCurator Role = "curator"

	// RoleStudent — студент, видит только собственные данные.
	RoleStudent Role = "student"
)

// IsValid проверяет корректность роли.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCurator, RoleStudent:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление роли.
func (r Role) String() string {
	return string(r)
}

// ParseRole разбирает роль из строки.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FULL NAME
// ══════════════════════════════════════════════════════════════════════════════

// FullName — ФИО участника (фамилия, имя, отчество).
type FullName struct {
	LastName   string
	FirstName  string
	Patronymic string
}

// ParseFullName разбирает ФИО из пользовательского ввода.
// Требуется ровно три слова: "Иванов Иван Иванович".
func ParseFullName(input string) (FullName, error) {
	parts := strings.Fields(input)
	if len(parts) != 3 {
		return FullName{}, ErrBadFullName
	}
	return FullName{
		LastName:   parts[0],
		FirstName:  parts[1],
		Patronymic: parts[2],
	}, nil
}

// Display возвращает ФИО в виде "Фамилия Имя Отчество".
func (n FullName) Display() string {
	return strings.TrimSpace(n.LastName + " " + n.FirstName + " " + n.Patronymic)
}

// Short возвращает "Фамилия Имя" без отчества.
func (n FullName) Short() string {
	return strings.TrimSpace(n.LastName + " " + n.FirstName)
}

// IsZero проверяет, что ФИО не заполнено.
func (n FullName) IsZero() bool {
	return n.LastName == "" && n.FirstName == "" && n.Patronymic == ""
}

// ══════════════════════════════════════════════════════════════════════════════
// PRINCIPALS
// ══════════════════════════════════════════════════════════════════════════════

// Principal — аутентифицированный участник любой роли. Используется слоем
// аутентификации как размеченное объединение вместо трёх отдельных типов:
// роль хранится явным дискриминантом, и поиск по логину выполняется одним
// запросом, а не тремя последовательными.
type Principal struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	Name         FullName // пустое для администратора
}

// Admin — администратор системы.
type Admin struct {
	ID           int64
	Login        string
	PasswordHash string
}

// Curator — куратор, владелец групп и экзаменов.
type Curator struct {
	ID           int64
	Login        string
	PasswordHash string
	Name         FullName

	// HandleID — ссылка на привязанный чат (nil, пока куратор не прошёл
	// регистрацию в боте).
	HandleID *int64
}

// Student — студент учебной группы.
type Student struct {
	ID int64

	// Login генерируется при создании студента из ФИО; PasswordHash
	// пуст (nil) до завершения регистрации через бота.
	Login        *string
	PasswordHash *string

	Name        FullName
	DateOfBirth *string
	Telephone   *string
	Mail        *string
	Snils       *string
	GroupID     int64
	HandleID    *int64

	// Verified выставляется после привязки Telegram.
	Verified bool
}

// Registered сообщает, завершил ли студент регистрацию.
func (s *Student) Registered() bool {
	return s.PasswordHash != nil
}

// ChatHandle — внешний идентификатор чата, привязанный к участнику.
// Создаётся только регистрацией в боте; на один chat_id — одна строка.
type ChatHandle struct {
	ID     int64
	ChatID int64
}

// Доменные ошибки участников.
var (
	ErrUnknownRole       = shared.NewDomainError("records", "ParseRole", shared.ErrInvalidInput, "unknown role")
	ErrBadFullName       = shared.NewDomainError("records", "ParseFullName", shared.ErrInvalidFormat, "full name must consist of exactly three words")
	ErrPrincipalNotFound = shared.NewDomainError("records", "GetByLogin", shared.ErrNotFound, "principal not found")
	ErrAdminNotFound     = shared.NewDomainError("records", "GetAdmin", shared.ErrNotFound, "admin not found")
	ErrCuratorNotFound   = shared.NewDomainError("records", "GetCurator", shared.ErrNotFound, "curator not found")
	ErrStudentNotFound   = shared.NewDomainError("records", "GetStudent", shared.ErrNotFound, "student not found")
	ErrHandleNotFound    = shared.NewDomainError("records", "GetHandle", shared.ErrNotFound, "chat handle not bound")
	ErrLoginTaken        = shared.NewDomainError("records", "Register", shared.ErrAlreadyExists, "login already taken")
)
