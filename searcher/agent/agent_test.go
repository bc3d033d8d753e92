package agent

import (
	"context"
	"testing"

	"vampires/game"
	"vampires/searcher"

	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T) *game.Board {
	t.Helper()
	b := game.NewBoard(3, 3, game.Vampires)
	require.NoError(t, b.ApplyUpdate([]game.Update{
		{At: game.Coord{X: 0, Y: 0}, Vampires: 3},
		{At: game.Coord{X: 1, Y: 1}, Werewolves: 2},
		{At: game.Coord{X: 2, Y: 2}, Humans: 1},
	}))
	return b
}

func TestEvaluationAgent(t *testing.T) {
	t.Run("playing a guaranteed rout", func(t *testing.T) {
		a := NewEvaluationAgent(searcher.NewAlphaBeta(1, searcher.WithDepth(1)))

		ms, metric, err := a.FindMove(context.Background(), newBoard(t))

		require.NoError(t, err)
		require.Equal(t, game.MoveSet{{From: game.Coord{X: 0, Y: 0}, Units: 3, To: game.Coord{X: 1, Y: 1}}}, ms)
		require.Equal(t, 1, metric.Depth)
	})
}

func TestSamplingAgent(t *testing.T) {
	t.Run("playing legal move-sets", func(t *testing.T) {
		b := newBoard(t)
		for _, a := range []Agent{NewRandomAgent(1), NewSamplingAgent(0.1, 1)} {
			for i := 0; i < 20; i++ {
				ms, _, err := a.FindMove(context.Background(), b)

				require.NoError(t, err)
				require.NoError(t, b.Validate(ms))
			}
		}
	})

	t.Run("repeating choices for the same seed", func(t *testing.T) {
		b := newBoard(t)
		a1, a2 := NewSamplingAgent(0.5, 42), NewSamplingAgent(0.5, 42)

		for i := 0; i < 10; i++ {
			ms1, _, err := a1.FindMove(context.Background(), b)
			require.NoError(t, err)
			ms2, _, err := a2.FindMove(context.Background(), b)
			require.NoError(t, err)

			require.Equal(t, ms1, ms2)
		}
	})

	t.Run("failing without any move-set", func(t *testing.T) {
		b := game.NewBoard(2, 2, game.Vampires)

		_, _, err := NewRandomAgent(1).FindMove(context.Background(), b)

		require.ErrorIs(t, err, searcher.ErrNoMove)
	})
}

func TestSample(t *testing.T) {
	policy := []float64{0.2, 0.5, 0.3}

	t.Run("picking the bucket holding the draw", func(t *testing.T) {
		require.Equal(t, 0, sample(policy, 0.1))
		require.Equal(t, 1, sample(policy, 0.6))
		require.Equal(t, 2, sample(policy, 0.95))
	})

	t.Run("falling back to the last move on rounding errors", func(t *testing.T) {
		require.Equal(t, 2, sample(policy, 1.0))
	})
}
