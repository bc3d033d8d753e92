package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"vampires/game"
	"vampires/searcher"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("falling back to defaults without a file", func(t *testing.T) {
		var c Config

		require.NoError(t, c.Load(""))
		require.Equal(t, searcher.MaxDepth, c.Depth)
		require.Equal(t, 2*time.Second, c.Duration)
		require.Equal(t, searcher.Discount, c.Discount)
		require.Equal(t, game.DefaultWeights, c.Weights())
		require.Equal(t, zerolog.InfoLevel, c.Level())
	})

	t.Run("reading values from a yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("depth: 2\nduration: 500ms\nthreads: 4\nprune_directions: true\nlog_level: debug\n"), 0o644))
		var c Config

		require.NoError(t, c.Load(path))
		require.Equal(t, 2, c.Depth)
		require.Equal(t, 500*time.Millisecond, c.Duration)
		require.Equal(t, 4, c.Threads)
		require.True(t, c.PruneDirections)
		require.Equal(t, zerolog.DebugLevel, c.Level())
	})

	t.Run("letting the environment override the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("depth: 2\n"), 0o644))
		t.Setenv("VAMPIRES_DEPTH", "3")
		var c Config

		require.NoError(t, c.Load(path))
		require.Equal(t, 3, c.Depth)
	})

	t.Run("failing on a missing file", func(t *testing.T) {
		var c Config

		require.Error(t, c.Load(filepath.Join(t.TempDir(), "missing.yaml")))
	})

	t.Run("rejecting out of range values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("discount: 1.5\ntruncation: 1\nlog_level: loud\n"), 0o644))
		var c Config

		err := c.Load(path)

		require.ErrorContains(t, err, "discount")
		require.ErrorContains(t, err, "truncation")
		require.ErrorContains(t, err, "log level")
	})
}

func TestSearchOptions(t *testing.T) {
	t.Run("adding truncation only when configured", func(t *testing.T) {
		var c Config
		require.NoError(t, c.Load(""))
		base := len(c.SearchOptions())

		c.Truncation = 0.8

		require.Len(t, c.SearchOptions(), base+1)
	})
}
