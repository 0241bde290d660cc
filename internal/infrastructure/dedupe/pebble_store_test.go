package dedupe

import (
	"marketplace_escrow/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openStore(t *testing.T, dir string) *PebbleStore {
	t.Helper()
	s, err := Open(dir)
	require.NoError(t, err)
	return s
}

func TestPebbleStore(t *testing.T) {
	logger.SetLogger(zap.NewNop())

	t.Run("mark then seen", func(t *testing.T) {
		s := openStore(t, t.TempDir())
		defer s.Close()

		seen, err := s.Seen("d-1")
		require.NoError(t, err)
		assert.False(t, seen)

		at := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
		require.NoError(t, s.Mark("d-1", at))
		seen, err = s.Seen("d-1")
		require.NoError(t, err)
		assert.True(t, seen)

		got, err := s.ProcessedAt("d-1")
		require.NoError(t, err)
		assert.True(t, got.Equal(at))
	})

	t.Run("survives reopen", func(t *testing.T) {
		dir := t.TempDir()
		s := openStore(t, dir)
		require.NoError(t, s.Mark("d-2", time.Now()))
		require.NoError(t, s.Close())

		s = openStore(t, dir)
		defer s.Close()
		seen, err := s.Seen("d-2")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("empty id", func(t *testing.T) {
		s := openStore(t, t.TempDir())
		defer s.Close()
		_, err := s.Seen("")
		assert.ErrorIs(t, err, ErrEmptyMessageID)
		assert.ErrorIs(t, s.Mark("", time.Now()), ErrEmptyMessageID)
	})

	t.Run("prune drops old records only", func(t *testing.T) {
		s := openStore(t, t.TempDir())
		defer s.Close()
		now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
		require.NoError(t, s.Mark("old", now.Add(-48*time.Hour)))
		require.NoError(t, s.Mark("new", now))

		n, err := s.Prune(now.Add(-24 * time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		seen, _ := s.Seen("old")
		assert.False(t, seen)
		seen, _ = s.Seen("new")
		assert.True(t, seen)
	})
}
