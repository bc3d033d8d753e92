package searcher

import (
	"context"
	"fmt"
	"time"

	"vampires/experiments/metrics"
	"vampires/game"

	"github.com/rs/zerolog/log"
)

type Option func(a *AlphaBeta)

type AlphaBeta struct {
	goroutines int
	depth      int
	duration   time.Duration
	discount   float64
	truncation float64 // Exact chance nodes when 0
	generator  game.Generator
	evaluate   game.Evaluate
	metrics    metrics.Collector
}

func WithDepth(depth int) Option {
	return func(a *AlphaBeta) {
		if depth > 0 {
			a.depth = depth
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(a *AlphaBeta) {
		if duration > 0 {
			a.duration = duration
		}
	}
}

func WithDiscount(discount float64) Option {
	return func(a *AlphaBeta) {
		if discount > 0 && discount <= 1 {
			a.discount = discount
		}
	}
}

// WithTruncation evaluates only the most probable outcomes of a move-set
// covering at least the given cumulative probability.
func WithTruncation(threshold float64) Option {
	return func(a *AlphaBeta) {
		if threshold > 0 && threshold < 1 {
			a.truncation = threshold
		}
	}
}

func WithGenerator(generator game.Generator) Option {
	return func(a *AlphaBeta) {
		a.generator = generator
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(a *AlphaBeta) {
		if evaluate != nil {
			a.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(a *AlphaBeta) {
		a.metrics = metrics.NewCollector()
	}
}

func NewAlphaBeta(goroutines int, options ...Option) *AlphaBeta {
	a := &AlphaBeta{ // Default values
		goroutines: max(goroutines, 1),
		depth:      MaxDepth,
		discount:   Discount,
		generator:  game.DefaultGenerator,
		evaluate:   game.EvaluateUnits,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Search deepens iteratively from one ply up to the depth budget, stopping
// early when ctx is done or the duration budget runs out. It returns the best
// move-set of the deepest iteration that completed. If none completed, it
// falls back to the first generated move-set.
func (a *AlphaBeta) Search(ctx context.Context, b *game.Board) (game.MoveSet, metrics.SearchMetric, error) {
	if a.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.duration)
		defer cancel()
	}

	a.metrics.Start(a.goroutines, a.depth)
	var best game.MoveSet
	for depth := 1; depth <= a.depth; depth++ {
		score, ms, err := a.searchRoot(ctx, b, depth)
		if err != nil {
			log.Debug().Err(err).Int("depth", depth).Msg("abandoning unfinished depth")
			break
		}
		if ms == nil {
			break
		}
		best = ms
		a.metrics.CompleteDepth(depth, score)
		log.Debug().Int("depth", depth).Float64("score", score).Str("move", fmt.Sprint(ms)).Msg("completed depth")
	}

	if best == nil {
		moveSets := a.generator.NextMoves(b, true)
		if len(moveSets) == 0 {
			return nil, a.metrics.Complete(), ErrNoMove
		}
		log.Warn().Msg("no depth completed; playing the first move-set")
		best = moveSets[0]
	}
	return best, a.metrics.Complete(), nil
}
