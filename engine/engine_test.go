package engine

import (
	"context"
	"testing"

	"vampires/experiments/metrics"
	"vampires/game"
	"vampires/searcher"
	"vampires/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func newBoard(t *testing.T, width, height int, updates ...game.Update) *game.Board {
	t.Helper()
	b := game.NewBoard(width, height, game.Vampires)
	require.NoError(t, b.ApplyUpdate(updates))
	return b
}

// scriptedAgent plays the given move-sets in order, then defers to next.
type scriptedAgent struct {
	moves []game.MoveSet
	next  agent.Agent
}

func (a *scriptedAgent) FindMove(ctx context.Context, b *game.Board) (game.MoveSet, metrics.SearchMetric, error) {
	if len(a.moves) == 0 {
		return a.next.FindMove(ctx, b)
	}
	ms := a.moves[0]
	a.moves = a.moves[1:]
	return ms, metrics.SearchMetric{}, nil
}

func TestWinner(t *testing.T) {
	t.Run("naming the surviving faction", func(t *testing.T) {
		b := newBoard(t, 2, 2, game.Update{At: game.Coord{X: 0, Y: 0}, Werewolves: 1}, game.Update{At: game.Coord{X: 1, Y: 1}, Humans: 9})

		require.Equal(t, "werewolves", Winner(b, false))
	})

	t.Run("waiting while both factions stand", func(t *testing.T) {
		b := newBoard(t, 2, 2, game.Update{At: game.Coord{X: 0, Y: 0}, Werewolves: 1}, game.Update{At: game.Coord{X: 1, Y: 1}, Vampires: 3})

		require.Equal(t, "", Winner(b, false))
		require.Equal(t, "vampires", Winner(b, true), "Should count units once the game is stopped")
	})

	t.Run("calling a draw on equal units", func(t *testing.T) {
		b := newBoard(t, 2, 2, game.Update{At: game.Coord{X: 0, Y: 0}, Werewolves: 3}, game.Update{At: game.Coord{X: 1, Y: 1}, Vampires: 3})

		require.Equal(t, "", Winner(b, true))
	})
}

func TestDiff(t *testing.T) {
	t.Run("listing only changed cells", func(t *testing.T) {
		before := newBoard(t, 3, 3,
			game.Update{At: game.Coord{X: 0, Y: 0}, Vampires: 3},
			game.Update{At: game.Coord{X: 1, Y: 1}, Humans: 2},
			game.Update{At: game.Coord{X: 2, Y: 2}, Werewolves: 2},
		)
		after := before.Clone()
		after.Set(game.Coord{X: 0, Y: 0}, game.Cell{})
		after.Set(game.Coord{X: 1, Y: 1}, game.Cell{0, 5, 0})

		got := Diff(before, after)

		require.ElementsMatch(t, []game.Update{
			{At: game.Coord{X: 0, Y: 0}},
			{At: game.Coord{X: 1, Y: 1}, Vampires: 5},
		}, got)
		require.Empty(t, Diff(after, after.Clone()))
	})
}

func TestGenerateMap(t *testing.T) {
	t.Run("building a reproducible playable layout", func(t *testing.T) {
		m1, err := GenerateMap(rand.New(rand.NewSource(7)), 8, 6, 5, 4)
		require.NoError(t, err)
		m2, err := GenerateMap(rand.New(rand.NewSource(7)), 8, 6, 5, 4)
		require.NoError(t, err)

		require.Equal(t, m1, m2)
		require.Len(t, m1.Cells, 7)

		b, err := m1.Board(game.Werewolves)
		require.NoError(t, err)
		require.Equal(t, game.Werewolves, b.Player())
		require.Equal(t, 4, b.Units(game.Vampires))
		require.Equal(t, 4, b.Units(game.Werewolves))
		require.Equal(t, 5, b.GroupCount(game.Humans))
	})

	t.Run("rejecting impossible layouts", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))

		_, err := GenerateMap(rng, 2, 6, 1, 4)
		require.Error(t, err)
		_, err = GenerateMap(rng, 3, 3, 8, 4)
		require.Error(t, err)
		_, err = GenerateMap(rng, 3, 3, 1, 0)
		require.Error(t, err)
	})
}

func TestLocalEngine(t *testing.T) {
	t.Run("playing a full game between random agents", func(t *testing.T) {
		m, err := GenerateMap(rand.New(rand.NewSource(3)), 5, 5, 3, 4)
		require.NoError(t, err)
		b, err := m.Board(game.Vampires)
		require.NoError(t, err)
		e := NewLocalEngine(b, agent.NewRandomAgent(1), agent.NewRandomAgent(2), 5, 50)

		winner, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, winner, gameMetric.Winner)
		require.Equal(t, "vampires", gameMetric.StartingPlayer)
		require.Equal(t, len(moveMetrics), gameMetric.TotalMoves)
		require.LessOrEqual(t, len(moveMetrics), 50)
		require.Zero(t, gameMetric.Rejected)
		require.Equal(t, "vampires", moveMetrics[0].Player)
		require.Equal(t, "werewolves", moveMetrics[1].Player)
	})

	t.Run("ending a game with a guaranteed rout", func(t *testing.T) {
		b := newBoard(t, 3, 3,
			game.Update{At: game.Coord{X: 0, Y: 0}, Vampires: 3},
			game.Update{At: game.Coord{X: 1, Y: 1}, Werewolves: 2},
		)
		searchAgent := agent.NewEvaluationAgent(searcher.NewAlphaBeta(1, searcher.WithDepth(2)))
		e := NewLocalEngine(b, searchAgent, agent.NewRandomAgent(1), 1, 10)

		winner, gameMetric, _, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, "vampires", winner)
		require.Equal(t, 1, gameMetric.TotalMoves)
	})

	t.Run("replacing an illegal move-set with a legal one", func(t *testing.T) {
		b := newBoard(t, 3, 3,
			game.Update{At: game.Coord{X: 0, Y: 0}, Vampires: 3},
			game.Update{At: game.Coord{X: 2, Y: 2}, Werewolves: 3},
		)
		cheater := &scriptedAgent{
			moves: []game.MoveSet{{{From: game.Coord{X: 0, Y: 0}, Units: 3, To: game.Coord{X: 2, Y: 2}}}},
			next:  agent.NewRandomAgent(1),
		}
		e := NewLocalEngine(b, cheater, agent.NewRandomAgent(2), 1, 4)

		_, gameMetric, _, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, 1, gameMetric.Rejected)
	})

	t.Run("stopping on a failing agent", func(t *testing.T) {
		b := newBoard(t, 3, 3,
			game.Update{At: game.Coord{X: 0, Y: 0}, Vampires: 3},
			game.Update{At: game.Coord{X: 2, Y: 2}, Werewolves: 3},
		)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := NewLocalEngine(b, agent.NewRandomAgent(1), agent.NewRandomAgent(2), 1, 4)

		_, _, _, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSampleOutcome(t *testing.T) {
	boards := []*game.Board{game.NewBoard(1, 1, game.Vampires), game.NewBoard(1, 1, game.Vampires)}
	outcomes := []game.Outcome{{Probability: 0.25, Board: boards[0]}, {Probability: 0.75, Board: boards[1]}}

	t.Run("drawing the outcome holding the sample", func(t *testing.T) {
		require.Same(t, boards[0], sampleOutcome(outcomes, 0.2))
		require.Same(t, boards[1], sampleOutcome(outcomes, 0.3))
		require.Same(t, boards[1], sampleOutcome(outcomes, 1.0))
	})
}
