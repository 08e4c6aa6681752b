// Package service содержит прикладные операции над учётными записями,
// группами, экзаменами и оценками. Сервисы не знают о транспорте: HTTP-слой
// только разбирает запросы и переводит доменные ошибки в статусы.
package service

import (
	"context"
	"log/slog"

	"github.com/Roy42022p/Backend/internal/application/authz"
	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
	"github.com/Roy42022p/Backend/pkg/security"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// Ошибки аутентификации.
var (
	ErrBadCredentials  = shared.NewDomainError("auth", "Login", shared.ErrUnauthorized, "invalid login or password")
	ErrBadSecretKey    = shared.NewDomainError("auth", "Login", shared.ErrUnauthorized, "invalid secret key")
	ErrAdminOnlySignup = shared.NewDomainError("auth", "Register", shared.ErrForbidden, "self-registration is for administrators only")
)

// TokenResult — результат успешной аутентификации.
type TokenResult struct {
	AccessToken string
	TokenType   string
	Role        records.Role
	Username    string
}

// AuthService выполняет вход и самостоятельную регистрацию администратора.
// Привилегированные роли подтверждаются секретным ключом: студенту ключ не
// нужен, администратор и куратор обязаны предъявить свой.
type AuthService struct {
	principals records.PrincipalRepository
	admins     records.AdminRepository
	tokens     *authz.TokenManager
	adminKey   string
	curatorKey string
	logger     *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(
	principals records.PrincipalRepository,
	admins records.AdminRepository,
	tokens *authz.TokenManager,
	adminKey, curatorKey string,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		principals: principals,
		admins:     admins,
		tokens:     tokens,
		adminKey:   adminKey,
		curatorKey: curatorKey,
		logger:     logger,
	}
}

// Login аутентифицирует участника любой роли и выдаёт токен доступа.
// Неверный логин, пароль или секретный ключ неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, login, password, secretKey string) (*TokenResult, error) {
	principal, err := s.principals.GetByLogin(ctx, login)
	if err != nil {
		s.logger.Warn("login failed: principal not found", "login", login)
		return nil, ErrBadCredentials
	}

	if err := security.VerifyPassword(principal.PasswordHash, password); err != nil {
		s.logger.Warn("login failed: wrong password", "login", login)
		return nil, ErrBadCredentials
	}

	if !s.verifySecretKey(secretKey, principal.Role) {
		s.logger.Warn("login failed: wrong secret key", "login", login, "role", principal.Role)
		return nil, ErrBadSecretKey
	}

	token, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", "login", login, "role", principal.Role)
	return &TokenResult{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        principal.Role,
		Username:    principal.Login,
	}, nil
}

// RegisterAdmin регистрирует нового администратора по секретному ключу и
// сразу выдаёт токен. Ключ куратора даёт ErrAdminOnlySignup, неизвестный
// ключ — ErrBadSecretKey.
func (s *AuthService) RegisterAdmin(ctx context.Context, login, password, secretKey string) (*TokenResult, error) {
	role, ok := s.roleByKey(secretKey)
	if !ok {
		s.logger.Warn("admin registration rejected: unknown secret key")
		return nil, ErrBadSecretKey
	}
	if role != records.RoleAdmin {
		s.logger.Warn("admin registration rejected: non-admin key", "role", role)
		return nil, ErrAdminOnlySignup
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &records.Admin{Login: login, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(&records.Principal{
		ID:           admin.ID,
		Login:        admin.Login,
		PasswordHash: admin.PasswordHash,
		Role:         records.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin registered", "login", login)
	return &TokenResult{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        records.RoleAdmin,
		Username:    admin.Login,
	}, nil
}

// verifySecretKey сверяет ключ с ролью: студент проходит без ключа,
// администратор и куратор — только со своим.
func (s *AuthService) verifySecretKey(secretKey string, role records.Role) bool {
	switch role {
	case records.RoleStudent:
		return true
	case records.RoleAdmin:
		return secretKey == s.adminKey
	case records.RoleCurator:
		return secretKey == s.curatorKey
	default:
		return false
	}
}

func (s *AuthService) roleByKey(secretKey string) (records.Role, bool) {
	switch secretKey {
	case s.adminKey:
		return records.RoleAdmin, true
	case s.curatorKey:
		return records.RoleCurator, true
	default:
		return "", false
	}
}
