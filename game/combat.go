package game

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// Outcome is one possible board after a move-set, with its probability.
type Outcome struct {
	Probability float64
	Board       *Board
}

// branch is one result of a single move: the destination cell and its probability.
// A bounced attack leaves both cells untouched.
type branch struct {
	probability float64
	cell        Cell
	bounced     bool
}

// Resolve applies a move-set for the faction to act and returns the exact
// distribution over resulting boards. Moves resolve in order, each against the
// boards produced by the moves before it. Identical boards are merged, keeping
// first-seen order. The acting faction of every outcome is the opponent. The
// input board is not modified. Resolve panics if a move takes more units than
// its source holds.
func Resolve(b *Board, ms MoveSet) []Outcome {
	player := b.player
	outcomes := []Outcome{{Probability: 1, Board: b.Clone()}}
	for _, m := range ms {
		next := make([]Outcome, 0, len(outcomes))
		seen := make(map[uint64][]int)
		for _, o := range outcomes {
			branches := resolveMove(o.Board, player, m)
			for _, br := range branches {
				board := o.Board
				if len(branches) > 1 {
					board = board.Clone()
				}
				board.apply(player, m, br)
				next = mergeOutcome(next, seen, Outcome{Probability: o.Probability * br.probability, Board: board})
			}
		}
		outcomes = next
	}

	for _, o := range outcomes {
		o.Board.player = player.Opponent()
	}
	return outcomes
}

func (b *Board) apply(player Population, m Move, br branch) {
	if br.bounced {
		return
	}
	from := b.At(m.From)
	from[player] -= m.Units
	b.Set(m.From, from)
	b.Set(m.To, br.cell)
}

func mergeOutcome(outcomes []Outcome, seen map[uint64][]int, o Outcome) []Outcome {
	key := o.Board.Hash()
	for _, i := range seen[key] {
		if outcomes[i].Board.Equal(o.Board) {
			outcomes[i].Probability += o.Probability
			return outcomes
		}
	}
	seen[key] = append(seen[key], len(outcomes))
	return append(outcomes, o)
}

// resolveMove returns the distribution of the destination cell after one move.
func resolveMove(b *Board, player Population, m Move) []branch {
	if have := b.At(m.From)[player]; m.Units > have {
		panic(fmt.Sprintf("move %v needs %d units, source holds %d", m, m.Units, have))
	}

	u := m.Units
	dest := b.At(m.To)
	enemy := player.Opponent()
	switch {
	case dest[Humans] > 0:
		return humanBattle(player, u, dest[Humans])
	case dest[enemy] > 0:
		return enemyBattle(player, u, dest[enemy])
	}
	var cell Cell
	cell[player] = dest[player] + u
	return []branch{{probability: 1, cell: cell}}
}

// humanBattle resolves u attackers against h humans. Attackers at least as
// numerous as the humans convert them all. Otherwise the attackers win with
// p = u/2h; each attacker survives and each human converts with probability p
// on a win, and each human survives with probability 1-p on a loss.
func humanBattle(player Population, u, h int) []branch {
	if u >= h {
		var cell Cell
		cell[player] = u + h
		return []branch{{probability: 1, cell: cell}}
	}

	p := float64(u) / float64(2*h)
	survivors := distuv.Binomial{N: float64(u), P: p}
	converted := distuv.Binomial{N: float64(h), P: p}
	resisting := distuv.Binomial{N: float64(h), P: 1 - p}

	branches := make([]branch, 0, (u+1)*(h+1)+h+1)
	for s := 0; s <= u; s++ {
		ps := survivors.Prob(float64(s))
		for c := 0; c <= h; c++ {
			var cell Cell
			cell[player] = s + c
			branches = append(branches, branch{probability: p * ps * converted.Prob(float64(c)), cell: cell})
		}
	}
	for r := 0; r <= h; r++ {
		var cell Cell
		cell[Humans] = r
		branches = append(branches, branch{probability: (1 - p) * resisting.Prob(float64(r)), cell: cell})
	}
	return branches
}

// enemyBattle resolves u attackers against e defenders. Attackers with 1.5
// times the defenders rout them; attackers with at most two thirds of the
// defenders bounce. Otherwise the attackers win with p = u/2e when u <= e and
// p = u/e - 0.5 beyond; the winner's units each survive with probability p for
// the attackers or 1-p for the defenders, and the loser is wiped out.
func enemyBattle(player Population, u, e int) []branch {
	enemy := player.Opponent()
	switch {
	case 2*u >= 3*e:
		var cell Cell
		cell[player] = u
		return []branch{{probability: 1, cell: cell}}
	case 3*u <= 2*e:
		return []branch{{probability: 1, bounced: true}}
	}

	var p float64
	if u <= e {
		p = float64(u) / float64(2*e)
	} else {
		p = float64(u)/float64(e) - 0.5
	}
	attackers := distuv.Binomial{N: float64(u), P: p}
	defenders := distuv.Binomial{N: float64(e), P: 1 - p}

	branches := make([]branch, 0, u+e+2)
	for s := 0; s <= u; s++ {
		var cell Cell
		cell[player] = s
		branches = append(branches, branch{probability: p * attackers.Prob(float64(s)), cell: cell})
	}
	for s := 0; s <= e; s++ {
		var cell Cell
		cell[enemy] = s
		branches = append(branches, branch{probability: (1 - p) * defenders.Prob(float64(s)), cell: cell})
	}
	return branches
}
