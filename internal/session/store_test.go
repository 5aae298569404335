package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/devfolio/internal/terminal"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sess := terminal.NewSession(time.Now().UTC().Truncate(time.Second))
	sess.Feature = "challenges"
	sess.Challenge.Selected = "two-sum"
	sess.Challenge.HintsShown = 2
	sess.History = []string{"start challenges", "select two-sum"}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Feature, got.Feature)
	assert.Equal(t, sess.Challenge, got.Challenge)
	assert.Equal(t, sess.History, got.History)
	assert.True(t, sess.CreatedAt.Equal(got.CreatedAt))

	// Mutating the loaded copy must not leak back without Save.
	got.History = append(got.History, "hint")
	again, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, again.History, 2)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	sess := terminal.NewSession(now)
	require.NoError(t, store.Save(context.Background(), sess))
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Minute)
	_, err := store.Load(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreSaveSweepsExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, store.Save(ctx, terminal.NewSession(now)))
	}
	assert.Equal(t, 100, store.Len())

	now = now.Add(30 * time.Second)
	fresh := terminal.NewSession(now)
	require.NoError(t, store.Save(ctx, fresh))
	assert.Equal(t, 101, store.Len(), "nothing has expired yet")

	now = now.Add(45 * time.Second)
	require.NoError(t, store.Save(ctx, terminal.NewSession(now)))
	assert.Equal(t, 2, store.Len())

	_, err := store.Load(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := DialRedis(context.Background(), "redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	testStore(t, store)
}

func TestRedisStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := DialRedis(context.Background(), "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sess := terminal.NewSession(time.Now())
	require.NoError(t, store.Save(context.Background(), sess))

	mr.FastForward(2 * time.Minute)
	_, err = store.Load(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDialRedisBadURL(t *testing.T) {
	_, err := DialRedis(context.Background(), "://nope", time.Minute)
	assert.Error(t, err)
}
