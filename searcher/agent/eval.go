package agent

import (
	"context"

	"vampires/experiments/metrics"
	"vampires/game"
	"vampires/searcher"
)

type evaluationAgent struct {
	search *searcher.AlphaBeta
}

// NewEvaluationAgent returns an agent playing the best move-set found by search.
func NewEvaluationAgent(search *searcher.AlphaBeta) Agent {
	return evaluationAgent{search: search}
}

func (a evaluationAgent) FindMove(ctx context.Context, board *game.Board) (game.MoveSet, metrics.SearchMetric, error) {
	return a.search.Search(ctx, board)
}
