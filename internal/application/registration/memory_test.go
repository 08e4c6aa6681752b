package registration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Put(ctx, 1, &Session{State: StateChoosingRole}))

	session, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateChoosingRole, session.State)

	// Get возвращает копию: мутация не трогает хранилище.
	session.State = StateEnteringPassword
	again, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateChoosingRole, again.State)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()

	require.NoError(t, store.Put(ctx, 1, &Session{State: StateChoosingRole}))
	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNoSession)
}
