package engine

import (
	"context"

	"vampires/experiments/metrics"
	"vampires/game"

	"github.com/samber/lo"
)

const MaxTurns = 200

type Engine interface {
	// Run plays a game till a faction is wiped out or a max number of turns is reached
	Run(ctx context.Context) (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

// Winner returns the surviving faction once the other is wiped out, or the
// faction with more units when ended is set. It returns "" otherwise.
func Winner(b *game.Board, ended bool) string {
	vampires, werewolves := b.Units(game.Vampires), b.Units(game.Werewolves)
	switch {
	case werewolves == 0 && vampires > 0:
		return game.Vampires.String()
	case vampires == 0 && werewolves > 0:
		return game.Werewolves.String()
	case !ended:
		return ""
	case vampires > werewolves:
		return game.Vampires.String()
	case werewolves > vampires:
		return game.Werewolves.String()
	}
	return ""
}

// Diff lists the cells whose content differs between two boards of the same size.
func Diff(before, after *game.Board) []game.Update {
	var touched []game.Coord
	for _, p := range []game.Population{game.Humans, game.Vampires, game.Werewolves} {
		touched = append(touched, before.GroupsOf(p)...)
		touched = append(touched, after.GroupsOf(p)...)
	}
	touched = lo.Uniq(touched)
	touched = lo.Filter(touched, func(c game.Coord, _ int) bool { return before.At(c) != after.At(c) })

	return lo.Map(touched, func(c game.Coord, _ int) game.Update {
		cell := after.At(c)
		return game.Update{At: c, Humans: cell[game.Humans], Vampires: cell[game.Vampires], Werewolves: cell[game.Werewolves]}
	})
}
