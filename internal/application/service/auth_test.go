package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roy42022p/Backend/internal/application/authz"
	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/pkg/security"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakePrincipalRepo struct {
	byLogin map[string]*records.Principal
}

func (r *fakePrincipalRepo) GetByLogin(_ context.Context, login string) (*records.Principal, error) {
	p, ok := r.byLogin[login]
	if !ok {
		return nil, records.ErrPrincipalNotFound
	}
	return p, nil
}

type fakeAdminRepo struct {
	created []*records.Admin
}

func (r *fakeAdminRepo) Create(_ context.Context, a *records.Admin) error {
	a.ID = int64(len(r.created) + 1)
	r.created = append(r.created, a)
	return nil
}

func (r *fakeAdminRepo) GetByLogin(_ context.Context, _ string) (*records.Admin, error) {
	return nil, records.ErrAdminNotFound
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

const (
	testAdminKey   = "admin-key"
	testCuratorKey = "curator-key"
)

func newTestAuthService(t *testing.T) (*AuthService, *authz.TokenManager, *fakeAdminRepo) {
	t.Helper()

	studentHash, err := security.HashPassword("student-pass")
	require.NoError(t, err)
	curatorHash, err := security.HashPassword("curator-pass")
	require.NoError(t, err)

	principals := &fakePrincipalRepo{byLogin: map[string]*records.Principal{
		"sidorovSS":    {ID: 10, Login: "sidorovSS", PasswordHash: studentHash, Role: records.RoleStudent},
		"kuznetsovaAP": {ID: 3, Login: "kuznetsovaAP", PasswordHash: curatorHash, Role: records.RoleCurator},
	}}
	admins := &fakeAdminRepo{}
	tokens := authz.NewTokenManager("test-secret", "test", time.Hour)

	return NewAuthService(principals, admins, tokens, testAdminKey, testCuratorKey, nil), tokens, admins
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestAuthService_LoginStudent(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)

	// Студенту секретный ключ не нужен.
	result, err := svc.Login(context.Background(), "sidorovSS", "student-pass", "")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, records.RoleStudent, result.Role)
	assert.Equal(t, "sidorovSS", result.Username)

	claims, err := tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(10), claims.PrincipalID)
	assert.Equal(t, records.RoleStudent, claims.Role)
}

func TestAuthService_LoginCuratorRequiresKey(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "kuznetsovaAP", "curator-pass", "")
	assert.ErrorIs(t, err, ErrBadSecretKey)

	result, err := svc.Login(ctx, "kuznetsovaAP", "curator-pass", testCuratorKey)
	require.NoError(t, err)
	assert.Equal(t, records.RoleCurator, result.Role)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "sidorovSS", "wrong-pass", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Login(ctx, "nobody", "student-pass", "")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	svc, tokens, admins := newTestAuthService(t)

	result, err := svc.RegisterAdmin(context.Background(), "root", "root-pass", testAdminKey)
	require.NoError(t, err)
	assert.Equal(t, records.RoleAdmin, result.Role)
	require.Len(t, admins.created, 1)

	// Пароль хранится хэшем и проходит проверку.
	assert.NoError(t, security.VerifyPassword(admins.created[0].PasswordHash, "root-pass"))

	claims, err := tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, records.RoleAdmin, claims.Role)
}

func TestAuthService_RegisterAdminRejectsOtherKeys(t *testing.T) {
	svc, _, admins := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterAdmin(ctx, "root", "root-pass", testCuratorKey)
	assert.ErrorIs(t, err, ErrAdminOnlySignup)

	_, err = svc.RegisterAdmin(ctx, "root", "root-pass", "garbage")
	assert.ErrorIs(t, err, ErrBadSecretKey)

	assert.Empty(t, admins.created)
}
