package registration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakeStudentRepo struct {
	records.StudentRepository

	byName map[string]*records.Student

	credentialsID     int64
	credentialsHandle int64
}

func (r *fakeStudentRepo) GetByFullName(_ context.Context, name records.FullName) (*records.Student, error) {
	s, ok := r.byName[name.Display()]
	if !ok {
		return nil, records.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) SetCredentials(_ context.Context, id int64, _ string, handleID int64) error {
	r.credentialsID = id
	r.credentialsHandle = handleID
	return nil
}

type fakeCuratorRepo struct {
	records.CuratorRepository

	byName map[string]*records.Curator

	credentialsID int64
}

func (r *fakeCuratorRepo) GetByFullName(_ context.Context, name records.FullName) (*records.Curator, error) {
	c, ok := r.byName[name.Display()]
	if !ok {
		return nil, records.ErrCuratorNotFound
	}
	return c, nil
}

func (r *fakeCuratorRepo) SetCredentials(_ context.Context, id int64, _ string, _ int64) error {
	r.credentialsID = id
	return nil
}

type fakeHandleRepo struct {
	bound   map[int64]bool
	handles map[int64]*records.ChatHandle
	nextID  int64
}

func newFakeHandleRepo() *fakeHandleRepo {
	return &fakeHandleRepo{
		bound:   make(map[int64]bool),
		handles: make(map[int64]*records.ChatHandle),
		nextID:  1,
	}
}

func (r *fakeHandleRepo) Exists(_ context.Context, chatID int64) (bool, error) {
	return r.bound[chatID], nil
}

func (r *fakeHandleRepo) GetByChatID(_ context.Context, chatID int64) (*records.ChatHandle, error) {
	h, ok := r.handles[chatID]
	if !ok {
		return nil, records.ErrHandleNotFound
	}
	return h, nil
}

func (r *fakeHandleRepo) Create(_ context.Context, chatID int64) (*records.ChatHandle, error) {
	h := &records.ChatHandle{ID: r.nextID, ChatID: chatID}
	r.nextID++
	r.handles[chatID] = h
	return h, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

const testChatID int64 = 100500

func newTestMachine(t *testing.T) (*Machine, *fakeStudentRepo, *fakeCuratorRepo, *fakeHandleRepo) {
	t.Helper()

	login := "sidorovSS"
	students := &fakeStudentRepo{byName: map[string]*records.Student{
		"Сидоров Семён Семёнович": {
			ID:    7,
			Login: &login,
			Name:  records.FullName{LastName: "Сидоров", FirstName: "Семён", Patronymic: "Семёнович"},
		},
	}}
	curators := &fakeCuratorRepo{byName: map[string]*records.Curator{
		"Кузнецова Анна Павловна": {
			ID:    3,
			Login: "kuznetsovaAP",
			Name:  records.FullName{LastName: "Кузнецова", FirstName: "Анна", Patronymic: "Павловна"},
		},
	}}
	handles := newFakeHandleRepo()

	store := NewMemoryStore(SessionTTL)
	t.Cleanup(store.Close)

	return NewMachine(store, students, curators, handles, nil), students, curators, handles
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestMachine_StudentHappyPath(t *testing.T) {
	ctx := context.Background()
	m, students, _, handles := newTestMachine(t)

	require.NoError(t, m.Begin(ctx, testChatID))
	require.NoError(t, m.ChooseRole(ctx, testChatID, records.RoleStudent))
	require.NoError(t, m.SubmitFullName(ctx, testChatID, "Сидоров Семён Семёнович"))

	login, err := m.SubmitPassword(ctx, testChatID, "secret42")
	require.NoError(t, err)
	assert.Equal(t, "sidorovSS", login)

	assert.Equal(t, int64(7), students.credentialsID)
	assert.True(t, handles.handles[testChatID] != nil)

	// Сессия удалена после завершения.
	_, err = m.Session(ctx, testChatID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMachine_CuratorHappyPath(t *testing.T) {
	ctx := context.Background()
	m, _, curators, _ := newTestMachine(t)

	require.NoError(t, m.Begin(ctx, testChatID))
	require.NoError(t, m.ChooseRole(ctx, testChatID, records.RoleCurator))
	require.NoError(t, m.SubmitFullName(ctx, testChatID, "Кузнецова Анна Павловна"))

	login, err := m.SubmitPassword(ctx, testChatID, "secret42")
	require.NoError(t, err)
	assert.Equal(t, "kuznetsovaAP", login)
	assert.Equal(t, int64(3), curators.credentialsID)
}

func TestMachine_BeginAlreadyRegistered(t *testing.T) {
	ctx := context.Background()
	m, _, _, handles := newTestMachine(t)
	handles.bound[testChatID] = true

	assert.ErrorIs(t, m.Begin(ctx, testChatID), ErrAlreadyRegistered)
}

func TestMachine_BadFullNameKeepsState(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := newTestMachine(t)

	require.NoError(t, m.Begin(ctx, testChatID))
	require.NoError(t, m.ChooseRole(ctx, testChatID, records.RoleStudent))

	err := m.SubmitFullName(ctx, testChatID, "Сидоров Семён")
	assert.ErrorIs(t, err, records.ErrBadFullName)

	// Ошибка ввода не сбивает этап: корректный повтор проходит.
	session, err := m.Session(ctx, testChatID)
	require.NoError(t, err)
	assert.Equal(t, StateEnteringFullName, session.State)
	assert.NoError(t, m.SubmitFullName(ctx, testChatID, "Сидоров Семён Семёнович"))
}

func TestMachine_UnknownStudent(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := newTestMachine(t)

	require.NoError(t, m.Begin(ctx, testChatID))
	require.NoError(t, m.ChooseRole(ctx, testChatID, records.RoleStudent))

	err := m.SubmitFullName(ctx, testChatID, "Неизвестный Никто Никакович")
	assert.ErrorIs(t, err, records.ErrStudentNotFound)

	// Ненайденное ФИО не обрывает диалог: этап сохраняется, и повтор с
	// правильным именем продолжает регистрацию.
	session, err := m.Session(ctx, testChatID)
	require.NoError(t, err)
	assert.Equal(t, StateEnteringFullName, session.State)
	require.NoError(t, m.SubmitFullName(ctx, testChatID, "Сидоров Семён Семёнович"))

	session, err = m.Session(ctx, testChatID)
	require.NoError(t, err)
	assert.Equal(t, StateEnteringPassword, session.State)
}

func TestMachine_AlreadyRegisteredStudent(t *testing.T) {
	ctx := context.Background()
	m, students, _, _ := newTestMachine(t)

	hash := "$2a$10$hash"
	students.byName["Сидоров Семён Семёнович"].PasswordHash = &hash

	require.NoError(t, m.Begin(ctx, testChatID))
	require.NoError(t, m.ChooseRole(ctx, testChatID, records.RoleStudent))

	err := m.SubmitFullName(ctx, testChatID, "Сидоров Семён Семёнович")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestMachine_WeakPassword(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := newTestMachine(t)

	require.NoError(t, m.Begin(ctx, testChatID))
	require.NoError(t, m.ChooseRole(ctx, testChatID, records.RoleStudent))
	require.NoError(t, m.SubmitFullName(ctx, testChatID, "Сидоров Семён Семёнович"))

	_, err := m.SubmitPassword(ctx, testChatID, "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	// Состояние сохраняется, нормальный пароль принимается.
	_, err = m.SubmitPassword(ctx, testChatID, "1234")
	assert.NoError(t, err)
}

func TestMachine_OutOfOrderInput(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := newTestMachine(t)

	require.NoError(t, m.Begin(ctx, testChatID))

	// Пароль до выбора роли и ввода ФИО не принимается.
	_, err := m.SubmitPassword(ctx, testChatID, "secret42")
	assert.ErrorIs(t, err, ErrUnexpectedState)

	err = m.SubmitFullName(ctx, testChatID, "Сидоров Семён Семёнович")
	assert.ErrorIs(t, err, ErrUnexpectedState)
}

func TestMachine_ChooseRoleRejectsAdmin(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := newTestMachine(t)

	require.NoError(t, m.Begin(ctx, testChatID))
	assert.ErrorIs(t, m.ChooseRole(ctx, testChatID, records.RoleAdmin), records.ErrUnknownRole)
}

func TestMachine_RememberPrompt(t *testing.T) {
	ctx := context.Background()
	m, _, _, _ := newTestMachine(t)

	require.NoError(t, m.Begin(ctx, testChatID))
	require.NoError(t, m.ChooseRole(ctx, testChatID, records.RoleStudent))
	require.NoError(t, m.RememberPrompt(ctx, testChatID, 555))

	session, err := m.Session(ctx, testChatID)
	require.NoError(t, err)
	assert.Equal(t, int64(555), session.PromptMessageID)
}
