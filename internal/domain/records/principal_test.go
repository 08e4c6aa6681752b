package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("  Curator ")
	require.NoError(t, err)
	assert.Equal(t, RoleCurator, role)

	role, err = ParseRole("STUDENT")
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, role)

	_, err = ParseRole("teacher")
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseFullName(t *testing.T) {
	name, err := ParseFullName("Иванов Иван Иванович")
	require.NoError(t, err)
	assert.Equal(t, "Иванов", name.LastName)
	assert.Equal(t, "Иван", name.FirstName)
	assert.Equal(t, "Иванович", name.Patronymic)

	// Лишние пробелы не мешают разбору.
	name, err = ParseFullName("  Петров   Пётр  Петрович ")
	require.NoError(t, err)
	assert.Equal(t, "Петров", name.LastName)
	assert.Equal(t, "Пётр", name.FirstName)

	_, err = ParseFullName("Иванов Иван")
	assert.ErrorIs(t, err, ErrBadFullName)

	_, err = ParseFullName("Иванов Иван Иванович лишнее")
	assert.ErrorIs(t, err, ErrBadFullName)

	_, err = ParseFullName("")
	assert.ErrorIs(t, err, ErrBadFullName)
}

func TestFullName_Display(t *testing.T) {
	name := FullName{LastName: "Иванов", FirstName: "Иван", Patronymic: "Иванович"}
	assert.Equal(t, "Иванов Иван Иванович", name.Display())
	assert.Equal(t, "Иванов Иван", name.Short())
	assert.False(t, name.IsZero())

	assert.True(t, FullName{}.IsZero())
	assert.Equal(t, "", FullName{}.Display())
}

func TestStudent_Registered(t *testing.T) {
	var s Student
	assert.False(t, s.Registered())

	hash := "$2a$10$hash"
	s.PasswordHash = &hash
	assert.True(t, s.Registered())
}
