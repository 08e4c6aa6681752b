package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

func newTestManager(ttl time.Duration) *TokenManager {
	return NewTokenManager("test-secret", "test-issuer", ttl)
}

func TestTokenManager_IssueVerify(t *testing.T) {
	m := newTestManager(time.Hour)

	token, err := m.Issue(&records.Principal{
		ID:    42,
		Login: "ivanovII",
		Role:  records.RoleCurator,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.PrincipalID)
	assert.Equal(t, records.RoleCurator, claims.Role)
	assert.Equal(t, "ivanovII", claims.Subject)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestTokenManager_VerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(time.Hour)

	_, err := m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_VerifyRejectsForeignSignature(t *testing.T) {
	token, err := newTestManager(time.Hour).Issue(&records.Principal{ID: 1, Login: "admin", Role: records.RoleAdmin})
	require.NoError(t, err)

	other := NewTokenManager("another-secret", "test-issuer", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_VerifyRejectsExpired(t *testing.T) {
	m := newTestManager(-time.Minute)
	token, err := m.Issue(&records.Principal{ID: 1, Login: "admin", Role: records.RoleAdmin})
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequire(t *testing.T) {
	claims := &Claims{Role: records.RoleCurator}

	assert.NoError(t, Require(claims, records.RoleAdmin, records.RoleCurator))
	assert.ErrorIs(t, Require(claims, records.RoleAdmin), ErrAccessDenied)
	assert.ErrorIs(t, Require(claims), ErrAccessDenied)
}

func TestClaims_Scope(t *testing.T) {
	curator := &Claims{Role: records.RoleCurator, PrincipalID: 7}
	scope := curator.Scope()
	assert.True(t, scope.Restricted())
	assert.Equal(t, int64(7), scope.PrincipalID)

	admin := &Claims{Role: records.RoleAdmin, PrincipalID: 1}
	assert.False(t, admin.Scope().Restricted())
}
