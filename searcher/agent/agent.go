package agent

import (
	"context"

	"vampires/experiments/metrics"
	"vampires/game"
)

type Agent interface {
	// FindMove returns a move-set for the faction to act and performance metrics (if collected) from the search
	FindMove(ctx context.Context, board *game.Board) (game.MoveSet, metrics.SearchMetric, error)
}
