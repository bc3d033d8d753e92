package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vampires/experiments/metrics"
	"vampires/game"
	"vampires/searcher"
	"vampires/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// LocalEngine referees a game between two in-process agents, drawing every
// battle outcome from the exact combat distribution.
type LocalEngine struct {
	Board    *game.Board
	Agents   map[game.Population]agent.Agent
	maxTurns int
	rng      *rand.Rand
}

// NewLocalEngine seats first as the faction to act on board and second as its opponent.
func NewLocalEngine(board *game.Board, first, second agent.Agent, seed uint64, maxTurns int) *LocalEngine {
	if maxTurns <= 0 {
		maxTurns = MaxTurns
	}
	return &LocalEngine{
		Board: board,
		Agents: map[game.Population]agent.Agent{
			board.Player():            first,
			board.Player().Opponent(): second,
		},
		maxTurns: maxTurns,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Run executes the entire game loop until a winner is found or the turn limit is hit.
func (e *LocalEngine) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.Board.Player().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s are starting", e.Board.Player())

	turn := 1
	for ; Winner(e.Board, false) == "" && turn <= e.maxTurns; turn++ {
		player := e.Board.Player()
		ms, searchMetric, rejected, err := e.findMove(ctx, player)
		if errors.Is(err, searcher.ErrNoMove) {
			log.Debug().Int("turn", turn).Msgf("%s cannot move; passing", player)
			e.Board.SetPlayer(player.Opponent())
			continue
		}
		if err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("turn %d: %w", turn, err)
		}
		if rejected {
			gameMetric.Rejected++
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       player.String(),
			Units:        e.Board.Units(player),
			SearchMetric: searchMetric,
		})
		e.Board = e.Step(ms)
	}

	winner := Winner(e.Board, true)
	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	if Winner(e.Board, false) == "" {
		log.Info().Int("turns", e.maxTurns).Msgf("stopped at the turn limit, winner on units: %q", winner)
	} else {
		log.Info().Int("turns", turn-1).Msgf("game over, winner: %s", winner)
	}
	return winner, gameMetric, moveMetrics, nil
}

// findMove asks the agent of player for a move-set and replaces an illegal one
// with the first generated move-set.
func (e *LocalEngine) findMove(ctx context.Context, player game.Population) (game.MoveSet, metrics.SearchMetric, bool, error) {
	ms, searchMetric, err := e.Agents[player].FindMove(ctx, e.Board.Clone())
	if err != nil && !errors.Is(err, searcher.ErrNoMove) {
		return nil, searchMetric, false, err
	}

	verr := err
	if verr == nil {
		verr = e.Board.Validate(ms)
	}
	if verr == nil {
		return ms, searchMetric, false, nil
	}

	fallback := e.Board.NextMoves(true)
	if len(fallback) == 0 {
		return nil, searchMetric, false, searcher.ErrNoMove
	}
	log.Warn().Err(verr).Str("player", player.String()).Msg("agent returned an invalid move-set, forcing the first legal one")
	return fallback[0], searchMetric, true, nil
}

// Step resolves a legal move-set on the current board and draws one outcome.
func (e *LocalEngine) Step(ms game.MoveSet) *game.Board {
	return sampleOutcome(game.Resolve(e.Board, ms), e.rng.Float64())
}

func sampleOutcome(outcomes []game.Outcome, sampled float64) *game.Board {
	cumulative := 0.0
	for _, o := range outcomes {
		cumulative += o.Probability
		if sampled < cumulative {
			return o.Board
		}
	}
	return outcomes[len(outcomes)-1].Board // Fallback in case of rounding errors
}
