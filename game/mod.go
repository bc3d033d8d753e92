package game

import "errors"

// Population identifies one of the three unit populations a cell can hold.
type Population int

const (
	Humans Population = iota
	Vampires
	Werewolves
)

var (
	ErrAmbiguousStart = errors.New("start cell is not owned by exactly one faction")
	ErrOutOfBounds    = errors.New("cell is outside the board")
	ErrNegativeCount  = errors.New("negative population count")
	ErrSharedCell     = errors.New("cell holds more than one population")
)

func (p Population) String() string {
	switch p {
	case Humans:
		return "humans"
	case Vampires:
		return "vampires"
	case Werewolves:
		return "werewolves"
	}
	return "unknown"
}

// Opponent returns the competing faction. Humans have no opponent.
func (p Population) Opponent() Population {
	switch p {
	case Vampires:
		return Werewolves
	case Werewolves:
		return Vampires
	}
	return Humans
}

// Evaluates the board to a score between MinScore and MaxScore indicating how
// favorable the position is for the faction about to act.
type Evaluate func(*Board) float64
