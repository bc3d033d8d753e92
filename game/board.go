package game

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Coord addresses a cell: X is the column, Y the row.
type Coord struct {
	X, Y int
}

// Cell holds the unit count of each population, indexed by Population.
type Cell [3]int

// Owner returns the population present in the cell, or false when it is empty.
// At rest at most one population is present.
func (c Cell) Owner() (Population, bool) {
	for p := Humans; p <= Werewolves; p++ {
		if c[p] > 0 {
			return p, true
		}
	}
	return Humans, false
}

// Update overwrites one cell with the given counts.
type Update struct {
	At                           Coord
	Humans, Vampires, Werewolves int
}

func (u Update) cell() Cell {
	return Cell{u.Humans, u.Vampires, u.Werewolves}
}

// The 8 neighbor offsets in a fixed order, used wherever directions are enumerated.
var directions = [8]Coord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Board is the grid plus, per population, the sorted indices of the cells that
// population occupies. All writes go through set so the indices never go stale.
type Board struct {
	width, height int
	cells         []Cell
	groups        [3][]int
	player        Population // Faction to act
}

func NewBoard(width, height int, player Population) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid board size %dx%d", width, height))
	}
	return &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		player: player,
	}
}

// NewBoardFromMap builds the initial board from the map records and derives the
// faction the local player controls from its start cell.
func NewBoardFromMap(width, height int, start Coord, updates []Update) (*Board, error) {
	b := NewBoard(width, height, Vampires)
	if err := b.ApplyUpdate(updates); err != nil {
		return nil, err
	}
	if !b.Contains(start) {
		return nil, fmt.Errorf("start %v: %w", start, ErrOutOfBounds)
	}
	player, err := DetectFaction(b.At(start))
	if err != nil {
		return nil, fmt.Errorf("start %v: %w", start, err)
	}
	b.player = player
	return b, nil
}

// DetectFaction returns the faction that owns the start cell.
func DetectFaction(start Cell) (Population, error) {
	switch {
	case start[Vampires] > 0 && start[Werewolves] == 0:
		return Vampires, nil
	case start[Werewolves] > 0 && start[Vampires] == 0:
		return Werewolves, nil
	}
	return Humans, ErrAmbiguousStart
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Player returns the faction about to act.
func (b *Board) Player() Population { return b.player }

// SetPlayer changes the faction about to act.
func (b *Board) SetPlayer(p Population) { b.player = p }

func (b *Board) Contains(c Coord) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

func (b *Board) index(c Coord) int { return c.Y*b.width + c.X }

func (b *Board) coord(i int) Coord { return Coord{X: i % b.width, Y: i / b.width} }

func (b *Board) At(c Coord) Cell {
	return b.cells[b.index(c)]
}

// Set overwrites one cell. It panics when c is off the board.
func (b *Board) Set(c Coord, cell Cell) {
	if !b.Contains(c) {
		panic(fmt.Sprintf("cell %v outside %dx%d board", c, b.width, b.height))
	}
	b.set(b.index(c), cell)
}

func (b *Board) set(i int, cell Cell) {
	for p := Humans; p <= Werewolves; p++ {
		pos, found := slices.BinarySearch(b.groups[p], i)
		switch {
		case cell[p] > 0 && !found:
			b.groups[p] = slices.Insert(b.groups[p], pos, i)
		case cell[p] <= 0 && found:
			b.groups[p] = slices.Delete(b.groups[p], pos, pos+1)
		}
		if cell[p] < 0 {
			cell[p] = 0
		}
	}
	b.cells[i] = cell
}

// ApplyUpdate overwrites the named cells. The batch is checked as a whole first
// and nothing is written if any record is invalid.
func (b *Board) ApplyUpdate(updates []Update) error {
	for _, u := range updates {
		if !b.Contains(u.At) {
			return fmt.Errorf("update %v: %w", u.At, ErrOutOfBounds)
		}
		cell := u.cell()
		present := 0
		for _, n := range cell {
			if n < 0 {
				return fmt.Errorf("update %v: %w", u.At, ErrNegativeCount)
			}
			if n > 0 {
				present++
			}
		}
		if present > 1 {
			return fmt.Errorf("update %v: %w", u.At, ErrSharedCell)
		}
	}
	for _, u := range updates {
		b.set(b.index(u.At), u.cell())
	}
	return nil
}

// Clone returns a deep copy sharing no memory with b.
func (b *Board) Clone() *Board {
	clone := &Board{
		width:  b.width,
		height: b.height,
		cells:  slices.Clone(b.cells),
		player: b.player,
	}
	for p := range b.groups {
		clone.groups[p] = slices.Clone(b.groups[p])
	}
	return clone
}

// GroupsOf returns the cells occupied by a population in row-major order.
func (b *Board) GroupsOf(p Population) []Coord {
	return lo.Map(b.groups[p], func(i int, _ int) Coord { return b.coord(i) })
}

// GroupCount returns the number of cells occupied by a population.
func (b *Board) GroupCount(p Population) int {
	return len(b.groups[p])
}

// Units returns the total count of a population across the board.
func (b *Board) Units(p Population) int {
	return lo.SumBy(b.groups[p], func(i int) int { return b.cells[i][p] })
}

// Neighbors returns the on-board 8-neighbors of c in direction order.
func (b *Board) Neighbors(c Coord) []Coord {
	neighbors := make([]Coord, 0, len(directions))
	for _, d := range directions {
		n := Coord{X: c.X + d.X, Y: c.Y + d.Y}
		if b.Contains(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// Adjacent reports whether a and b are distinct 8-neighbors.
func Adjacent(a, b Coord) bool {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	return a != b && dx <= 1 && dy <= 1
}

// Chebyshev returns the larger of the column and row offsets between a and b.
func Chebyshev(a, b Coord) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

// Hash returns a 64-bit key over the grid and the acting faction.
func (b *Board) Hash() uint64 {
	buf := make([]byte, 0, 8+len(b.groups[Humans])*16+len(b.groups[Vampires])*16+len(b.groups[Werewolves])*16)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(b.player))
	for p := Humans; p <= Werewolves; p++ {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(b.groups[p])))
		for _, i := range b.groups[p] {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(i))
			buf = binary.LittleEndian.AppendUint32(buf, uint32(b.cells[i][p]))
		}
	}
	return xxhash.Sum64(buf)
}

// Equal reports whether both boards have the same size, cells and acting faction.
func (b *Board) Equal(other *Board) bool {
	return b.width == other.width &&
		b.height == other.height &&
		b.player == other.player &&
		slices.Equal(b.cells, other.cells)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
