package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ink-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.SessionConfig{DBPath: filepath.Join(t.TempDir(), "sessions.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	state := []byte(`{"history":[],"hypotheses":[]}`)
	require.NoError(t, s.Save(ctx, "session-1", state))

	got, err := s.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, state, got)
}

func TestSaveReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "session-1", []byte("old")))
	require.NoError(t, s.Save(ctx, "session-1", []byte("new")))

	got, err := s.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got)
}

func TestLoadMissing(t *testing.T) {
	s := testStore(t)
	_, err := s.Load(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "session-1", []byte("state")))
	require.NoError(t, s.Delete(ctx, "session-1"))

	_, err := s.Load(ctx, "session-1")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing session is a no-op.
	require.NoError(t, s.Delete(ctx, "session-1"))
}

func TestSweepOlderThan(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "fresh", []byte("state")))

	// Backdate a second session past the sweep age.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO beams (key, state, updated_at) VALUES (?, ?, ?)`,
		"stale", []byte("state"), time.Now().UTC().Add(-2*time.Hour))
	require.NoError(t, err)

	n, err := s.SweepOlderThan(ctx, time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Load(ctx, "stale")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Load(ctx, "fresh")
	require.NoError(t, err)
}
