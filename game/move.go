package game

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash"
	"golang.org/x/exp/slices"
)

// Move sends Units of the acting faction from one cell to an adjacent one.
type Move struct {
	From  Coord
	Units int
	To    Coord
}

// MoveSet is every move a faction makes in one turn.
type MoveSet []Move

var (
	ErrEmptyMoveSet         = errors.New("move-set must contain at least one move")
	ErrSameCell             = errors.New("source and destination must differ")
	ErrNotAdjacent          = errors.New("destination is not adjacent to source")
	ErrNonPositiveUnits     = errors.New("unit count must be positive")
	ErrInsufficientUnits    = errors.New("not enough units at source")
	ErrDuplicateDestination = errors.New("cell is the destination of more than one move")
	ErrSourceIsDestination  = errors.New("cell is both a source and a destination")
)

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)-%d->(%d,%d)", m.From.X, m.From.Y, m.Units, m.To.X, m.To.Y)
}

func compareCoords(a, b Coord) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

func compareMoves(a, b Move) int {
	if c := compareCoords(a.From, b.From); c != 0 {
		return c
	}
	if c := compareCoords(a.To, b.To); c != 0 {
		return c
	}
	return a.Units - b.Units
}

// Canonical returns a sorted copy so that equal move-sets compare equal
// regardless of move order.
func (ms MoveSet) Canonical() MoveSet {
	sorted := slices.Clone(ms)
	slices.SortFunc(sorted, compareMoves)
	return sorted
}

// Key hashes the canonical form of the move-set.
func (ms MoveSet) Key() uint64 {
	buf := make([]byte, 0, len(ms)*20)
	for _, m := range ms.Canonical() {
		for _, v := range []int{m.From.X, m.From.Y, m.Units, m.To.X, m.To.Y} {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
	}
	return xxhash.Sum64(buf)
}

// Validate checks an externally supplied move-set against the board for the
// faction to act. It never mutates the board.
func (b *Board) Validate(ms MoveSet) error {
	if len(ms) == 0 {
		return ErrEmptyMoveSet
	}

	committed := make(map[Coord]int)
	destinations := make(map[Coord]bool)
	for _, m := range ms {
		switch {
		case !b.Contains(m.From) || !b.Contains(m.To):
			return fmt.Errorf("move %v: %w", m, ErrOutOfBounds)
		case m.From == m.To:
			return fmt.Errorf("move %v: %w", m, ErrSameCell)
		case !Adjacent(m.From, m.To):
			return fmt.Errorf("move %v: %w", m, ErrNotAdjacent)
		case m.Units <= 0:
			return fmt.Errorf("move %v: %w", m, ErrNonPositiveUnits)
		case destinations[m.To]:
			return fmt.Errorf("move %v: %w", m, ErrDuplicateDestination)
		}
		destinations[m.To] = true
		committed[m.From] += m.Units
	}

	for _, m := range ms {
		if destinations[m.From] {
			return fmt.Errorf("move %v: %w", m, ErrSourceIsDestination)
		}
		if have := b.At(m.From)[b.player]; committed[m.From] > have {
			return fmt.Errorf("move %v: %d committed, %d present: %w", m, committed[m.From], have, ErrInsufficientUnits)
		}
	}
	return nil
}
