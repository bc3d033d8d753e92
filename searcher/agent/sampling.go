package agent

import (
	"context"
	"math"
	"sync"

	"vampires/experiments/metrics"
	"vampires/game"
	"vampires/searcher"

	"golang.org/x/exp/rand"
)

type samplingAgent struct {
	temperature float64
	evaluate    game.Evaluate

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSamplingAgent returns an agent sampling a move-set from a softmax over
// the one-ply expected evaluation of every move-set. A non-positive
// temperature samples uniformly.
func NewSamplingAgent(temperature float64, seed uint64) Agent {
	return &samplingAgent{
		temperature: temperature,
		evaluate:    game.EvaluateUnits,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// NewRandomAgent returns an agent playing uniformly random move-sets.
func NewRandomAgent(seed uint64) Agent {
	return NewSamplingAgent(0, seed)
}

func (a *samplingAgent) FindMove(ctx context.Context, board *game.Board) (game.MoveSet, metrics.SearchMetric, error) {
	moveSets := board.NextMoves(true)
	if len(moveSets) == 0 {
		return nil, metrics.SearchMetric{}, searcher.ErrNoMove
	}

	policy := make([]float64, len(moveSets))
	for i, ms := range moveSets {
		if err := ctx.Err(); err != nil {
			return nil, metrics.SearchMetric{}, err
		}
		policy[i] = a.weight(board, ms)
	}
	policy = normalize(policy)

	a.mu.Lock()
	defer a.mu.Unlock()
	return moveSets[sample(policy, a.rng.Float64())], metrics.SearchMetric{Depth: 1}, nil
}

func (a *samplingAgent) weight(board *game.Board, ms game.MoveSet) float64 {
	if a.temperature <= 0 {
		return 1
	}
	expected := 0.0
	for _, o := range game.Resolve(board, ms) {
		expected -= o.Probability * a.evaluate(o.Board)
	}
	return math.Exp(expected / a.temperature)
}

func normalize(policy []float64) []float64 {
	sum := 0.0
	for _, p := range policy {
		sum += p
	}
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
