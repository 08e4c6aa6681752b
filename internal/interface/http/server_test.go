package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roy42022p/Backend/internal/application/authz"
	"github.com/Roy42022p/Backend/internal/application/service"
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

type fakeAdminRepo struct{}

func (r *fakeAdminRepo) Create(_ context.Context, a *records.Admin) error {
	a.ID = 1
	return nil
}

func (r *fakeAdminRepo) GetByLogin(_ context.Context, _ string) (*records.Admin, error) {
	return nil, records.ErrAdminNotFound
}

type fakeGroupRepo struct {
	records.GroupRepository

	groups []records.GroupInfo
}

func (r *fakeGroupRepo) List(_ context.Context, scope records.Scope) ([]records.GroupInfo, error) {
	if !scope.Restricted() {
		return r.groups, nil
	}
	owned := make([]records.GroupInfo, 0)
	for _, g := range r.groups {
		if g.CuratorID == scope.PrincipalID {
			owned = append(owned, g)
		}
	}
	return owned, nil
}

type fakeCuratorRepo struct {
	records.CuratorRepository
}

func (r *fakeCuratorRepo) GetByID(_ context.Context, id int64) (*records.Curator, error) {
	return nil, records.ErrCuratorNotFound
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

type testAPI struct {
	server *Server
	tokens *authz.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	adminHash, err := security.HashPassword("admin-pass")
	require.NoError(t, err)

	principals := &fakePrincipalRepo{byLogin: map[string]*records.Principal{
		"root": {ID: 1, Login: "root", PasswordHash: adminHash, Role: records.RoleAdmin},
	}}
	groups := &fakeGroupRepo{groups: []records.GroupInfo{
		{Group: records.Group{ID: 1, Name: "ИС-21", CuratorID: 3}, StudentsCount: 25},
		{Group: records.Group{ID: 2, Name: "ИС-22", CuratorID: 4}, StudentsCount: 20},
	}}

	tokens := authz.NewTokenManager("test-secret", "test", time.Hour)
	svcs := Services{
		Auth:   service.NewAuthService(principals, &fakeAdminRepo{}, tokens, "admin-key", "curator-key", nil),
		Groups: service.NewGroupService(groups, &fakeCuratorRepo{}, nil),
	}

	server := NewServer(Options{Address: "127.0.0.1:0", Tokens: tokens}, svcs)
	return &testAPI{server: server, tokens: tokens}
}

func (a *testAPI) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) tokenFor(t *testing.T, role records.Role, id int64) string {
	t.Helper()
	token, err := a.tokens.Issue(&records.Principal{ID: id, Login: "test", Role: role})
	require.NoError(t, err)
	return token
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestAPI_Login(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"username": "root", "password": "admin-pass", "secret_key": "admin-key"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp["token_type"])
	assert.Equal(t, "admin", resp["role"])
	assert.NotEmpty(t, resp["access_token"])
}

func TestAPI_LoginBadPassword(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"username": "root", "password": "wrong", "secret_key": "admin-key"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Тело ошибки — {"detail": ...}.
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "detail")
}

func TestAPI_LoginValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"username": "root"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GroupsRequireToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodGet, "/api/v1/group", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.request(t, http.MethodGet, "/api/v1/group", "garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_GroupsForbiddenForStudent(t *testing.T) {
	api := newTestAPI(t)

	token := api.tokenFor(t, records.RoleStudent, 10)
	rec := api.request(t, http.MethodGet, "/api/v1/group", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_GroupsListAdminSeesAll(t *testing.T) {
	api := newTestAPI(t)

	token := api.tokenFor(t, records.RoleAdmin, 1)
	rec := api.request(t, http.MethodGet, "/api/v1/group", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "ИС-21", resp[0]["name"])
	assert.Equal(t, float64(25), resp[0]["students_count"])
}

func TestAPI_GroupsListCuratorScoped(t *testing.T) {
	api := newTestAPI(t)

	token := api.tokenFor(t, records.RoleCurator, 3)
	rec := api.request(t, http.MethodGet, "/api/v1/group", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "ИС-21", resp[0]["name"])
}

func TestAPI_GroupCreateUnknownCurator(t *testing.T) {
	api := newTestAPI(t)

	token := api.tokenFor(t, records.RoleAdmin, 1)
	rec := api.request(t, http.MethodPost, "/api/v1/group/create", token,
		`{"name": "ИС-23", "curator_id": 99}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
