package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManagerCreateResolve(t *testing.T) {
	m := NewMemoryManager(time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestMemoryManagerUnknownToken(t *testing.T) {
	m := NewMemoryManager(time.Hour)

	_, err := m.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMemoryManagerDestroyIsIdempotent(t *testing.T) {
	m := NewMemoryManager(time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, token))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// destroying again is not an error
	require.NoError(t, m.Destroy(ctx, token))
	require.NoError(t, m.Destroy(ctx, "never-existed"))
}

func TestMemoryManagerExpiry(t *testing.T) {
	m := NewMemoryManager(time.Hour)
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }

	token, err := m.Create(ctx, 9)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token)
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(time.Hour + time.Second) }
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMemoryManagerReloginKeepsPriorSessions(t *testing.T) {
	m := NewMemoryManager(time.Hour)
	ctx := context.Background()

	first, err := m.Create(ctx, 3)
	require.NoError(t, err)
	second, err := m.Create(ctx, 3)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// both devices stay logged in
	userID, err := m.Resolve(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(3), userID)
	userID, err = m.Resolve(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, int64(3), userID)
}

func TestMemoryManagerPurgeExpired(t *testing.T) {
	m := NewMemoryManager(time.Hour)
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }

	stale, err := m.Create(ctx, 1)
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(30 * time.Minute) }
	fresh, err := m.Create(ctx, 2)
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(time.Hour + time.Minute) }
	purged, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = m.Resolve(ctx, stale)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	userID, err := m.Resolve(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, int64(2), userID)
}
