package game

import "math"

const (
	MaxScore = 1.0
	MinScore = -1.0
)

// Weights tunes the heuristic. The raw score is squashed through tanh(raw/Scale).
type Weights struct {
	Units  float64 // Per unit of advantage over the enemy
	Humans float64 // Per unit of DistanceToHumans
	Scale  float64
}

var DefaultWeights = Weights{Units: 1, Humans: 0.2, Scale: 20}

// EvaluateUnits scores the board with DefaultWeights.
func EvaluateUnits(b *Board) float64 {
	return DefaultWeights.Evaluate(b)
}

// Evaluate scores the board from the acting faction's perspective between
// MinScore and MaxScore. A faction without groups has lost.
func (w Weights) Evaluate(b *Board) float64 {
	own, enemy := b.player, b.player.Opponent()
	if b.GroupCount(enemy) == 0 {
		return MaxScore
	}
	if b.GroupCount(own) == 0 {
		return MinScore
	}

	scale := w.Scale
	if scale <= 0 {
		scale = DefaultWeights.Scale
	}
	diff := float64(b.Units(own) - b.Units(enemy))
	raw := w.Units*diff + w.Humans*b.DistanceToHumans(own)
	return math.Tanh(raw / scale)
}

// IsTerminal reports whether either faction has been wiped out.
func (b *Board) IsTerminal() bool {
	return b.GroupCount(Vampires) == 0 || b.GroupCount(Werewolves) == 0
}

// DistanceToHumans sums, over every human cell, its count divided by the
// Chebyshev distance to the nearest group of p able to convert it outright.
// Human cells no group of p can convert contribute nothing.
func (b *Board) DistanceToHumans(p Population) float64 {
	total := 0.0
	for _, hi := range b.groups[Humans] {
		humans := b.cells[hi][Humans]
		nearest := math.MaxInt
		for _, gi := range b.groups[p] {
			if b.cells[gi][p] < humans {
				continue
			}
			nearest = min(nearest, Chebyshev(b.coord(hi), b.coord(gi)))
		}
		if nearest == math.MaxInt {
			continue
		}
		total += float64(humans) / float64(max(nearest, 1))
	}
	return total
}
