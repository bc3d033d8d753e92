package searcher

import (
	"context"
	"math"
	"sync"

	"vampires/game"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// Negamax searches depth plies below b within the window [alpha, beta] and
// returns the score from the acting faction's perspective with the best
// move-set. Scores outside the window are clamped to its bounds. Only the
// first ply may split a group. ctx is checked between move-sets.
func (a *AlphaBeta) Negamax(ctx context.Context, b *game.Board, depth int, alpha, beta float64) (float64, game.MoveSet, error) {
	return a.negamax(ctx, b, depth, alpha, beta, true)
}

func (a *AlphaBeta) negamax(ctx context.Context, b *game.Board, depth int, alpha, beta float64, root bool) (float64, game.MoveSet, error) {
	a.metrics.AddNode()
	if depth <= 0 || b.IsTerminal() {
		return a.evaluate(b), nil, nil
	}
	moveSets := a.generator.NextMoves(b, root)
	if len(moveSets) == 0 {
		return a.evaluate(b), nil, nil
	}

	var best game.MoveSet
	for _, ms := range moveSets {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		score, err := a.value(ctx, b, ms, depth, alpha, beta)
		if err != nil {
			return 0, nil, err
		}
		if score >= beta {
			a.metrics.AddCutoff()
			return beta, ms, nil
		}
		if score > alpha {
			alpha, best = score, ms
		}
	}
	return alpha, best, nil
}

// value scores one move-set: the discounted negated child score when the
// outcome is certain, the discounted expectation over outcomes otherwise.
func (a *AlphaBeta) value(ctx context.Context, b *game.Board, ms game.MoveSet, depth int, alpha, beta float64) (float64, error) {
	outcomes := a.outcomes(b, ms)
	if len(outcomes) == 1 {
		// The child window is widened by the discount so its bounds map back onto [alpha, beta]
		score, _, err := a.negamax(ctx, outcomes[0].Board, depth-1, -beta/a.discount, -alpha/a.discount, false)
		return -score * a.discount, err
	}

	a.metrics.AddChanceNode()
	expected := 0.0
	for _, o := range outcomes {
		score, _, err := a.negamax(ctx, o.Board, depth-1, math.Inf(-1), math.Inf(1), false)
		if err != nil {
			return 0, err
		}
		expected -= o.Probability * score
	}
	return expected * a.discount, nil
}

func (a *AlphaBeta) outcomes(b *game.Board, ms game.MoveSet) []game.Outcome {
	outcomes := game.Resolve(b, ms)
	if a.truncation <= 0 || len(outcomes) == 1 {
		return outcomes
	}
	return truncate(outcomes, a.truncation)
}

// truncate keeps the most probable outcomes until their cumulative probability
// reaches threshold, then renormalizes them.
func truncate(outcomes []game.Outcome, threshold float64) []game.Outcome {
	sorted := slices.Clone(outcomes)
	slices.SortStableFunc(sorted, func(x, y game.Outcome) int {
		switch {
		case x.Probability > y.Probability:
			return -1
		case x.Probability < y.Probability:
			return 1
		}
		return 0
	})

	kept, total := 0, 0.0
	for kept < len(sorted) && total < threshold {
		total += sorted[kept].Probability
		kept++
	}
	sorted = sorted[:kept]
	for i := range sorted {
		sorted[i].Probability /= total
	}
	return sorted
}

// searchRoot runs one full-window iteration at the root, splitting root
// move-sets over goroutines when more than one is configured. Workers share
// the root alpha so later move-sets search with the best bound found so far.
func (a *AlphaBeta) searchRoot(ctx context.Context, b *game.Board, depth int) (float64, game.MoveSet, error) {
	if a.goroutines <= 1 {
		return a.negamax(ctx, b, depth, math.Inf(-1), math.Inf(1), true)
	}

	a.metrics.AddNode()
	if b.IsTerminal() {
		return a.evaluate(b), nil, nil
	}
	moveSets := a.generator.NextMoves(b, true)
	if len(moveSets) == 0 {
		return a.evaluate(b), nil, nil
	}

	var (
		mu    sync.Mutex
		alpha = math.Inf(-1)
		best  game.MoveSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.goroutines)
	for _, ms := range moveSets {
		ms := ms
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mu.Lock()
			bound := alpha
			mu.Unlock()

			score, err := a.value(gctx, b, ms, depth, bound, math.Inf(1))
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if score > alpha {
				alpha, best = score, ms
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return alpha, best, nil
}
