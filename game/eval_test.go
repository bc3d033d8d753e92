package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateUnits(t *testing.T) {
	t.Run("scoring a wiped-out enemy as a win on any board size", func(t *testing.T) {
		small := newTestBoard(t, 2, 2, Vampires, Update{At: Coord{0, 0}, Vampires: 1})
		large := newTestBoard(t, 30, 30, Vampires, Update{At: Coord{29, 29}, Vampires: 50}, Update{At: Coord{3, 3}, Humans: 9})

		require.Equal(t, MaxScore, EvaluateUnits(small))
		require.Equal(t, MaxScore, EvaluateUnits(large))
	})

	t.Run("scoring a wiped-out own faction as a loss", func(t *testing.T) {
		b := newTestBoard(t, 2, 2, Werewolves, Update{At: Coord{0, 0}, Vampires: 1})

		require.Equal(t, MinScore, EvaluateUnits(b))
		require.True(t, b.IsTerminal())
	})

	t.Run("never decreasing as own units grow", func(t *testing.T) {
		b := newTestBoard(t, 5, 5, Vampires,
			Update{At: Coord{0, 0}, Vampires: 2},
			Update{At: Coord{4, 4}, Werewolves: 6},
			Update{At: Coord{2, 2}, Humans: 4},
		)

		last := EvaluateUnits(b)
		for units := 3; units <= 40; units++ {
			b.Set(Coord{0, 0}, Cell{0, units, 0})
			score := EvaluateUnits(b)
			require.GreaterOrEqual(t, score, last, "Should not drop at %d units", units)
			require.Less(t, score, MaxScore)
			require.Greater(t, score, MinScore)
			last = score
		}
	})

	t.Run("scoring symmetric positions as zero", func(t *testing.T) {
		b := newTestBoard(t, 3, 3, Vampires,
			Update{At: Coord{0, 0}, Vampires: 3},
			Update{At: Coord{2, 2}, Werewolves: 3},
		)

		require.InDelta(t, 0.0, EvaluateUnits(b), tolerance)
		b.SetPlayer(Werewolves)
		require.InDelta(t, 0.0, EvaluateUnits(b), tolerance)
	})
}

func TestDistanceToHumans(t *testing.T) {
	t.Run("weighting each cluster by the nearest group able to convert it", func(t *testing.T) {
		b := newTestBoard(t, 6, 6, Vampires,
			Update{At: Coord{0, 0}, Humans: 4},
			Update{At: Coord{1, 0}, Vampires: 3},
			Update{At: Coord{2, 1}, Vampires: 5},
			Update{At: Coord{5, 5}, Humans: 9},
		)

		// The 3-unit group is too small, the 5-unit group sits 2 cells away, and nothing converts 9
		require.InDelta(t, 2.0, b.DistanceToHumans(Vampires), tolerance)
		require.Zero(t, b.DistanceToHumans(Werewolves))
	})
}
