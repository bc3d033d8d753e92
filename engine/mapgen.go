package engine

import (
	"fmt"

	"vampires/game"

	"golang.org/x/exp/rand"
)

const (
	MinSize  = 3
	MaxSize  = 40
	MinHomes = 2
	MaxHomes = 10
)

// Map is an initial layout: the start cells of both factions and every
// occupied cell.
type Map struct {
	Width, Height int
	Starts        map[game.Population]game.Coord
	Cells         []game.Update
}

// GenerateMap places both factions with the same number of units in opposite
// corners and scatters human homes over distinct free cells. Layouts are
// reproducible for a given seed.
func GenerateMap(rng *rand.Rand, width, height, homes, units int) (Map, error) {
	if width < MinSize || height < MinSize || width > MaxSize || height > MaxSize {
		return Map{}, fmt.Errorf("map size %dx%d outside [%d, %d]", width, height, MinSize, MaxSize)
	}
	if homes < 0 || homes > width*height-2 {
		return Map{}, fmt.Errorf("cannot place %d homes on a %dx%d map", homes, width, height)
	}
	if units <= 0 {
		return Map{}, fmt.Errorf("starting units must be positive, got %d", units)
	}

	vampires := game.Coord{X: 0, Y: rng.Intn(height)}
	werewolves := game.Coord{X: width - 1, Y: height - 1 - vampires.Y}
	m := Map{
		Width:  width,
		Height: height,
		Starts: map[game.Population]game.Coord{game.Vampires: vampires, game.Werewolves: werewolves},
		Cells: []game.Update{
			{At: vampires, Vampires: units},
			{At: werewolves, Werewolves: units},
		},
	}

	taken := map[game.Coord]bool{vampires: true, werewolves: true}
	for placed := 0; placed < homes; {
		c := game.Coord{X: rng.Intn(width), Y: rng.Intn(height)}
		if taken[c] {
			continue
		}
		taken[c] = true
		m.Cells = append(m.Cells, game.Update{At: c, Humans: 1 + rng.Intn(units)})
		placed++
	}
	return m, nil
}

// Board builds the initial board with the given faction to act.
func (m Map) Board(player game.Population) (*game.Board, error) {
	b, err := game.NewBoardFromMap(m.Width, m.Height, m.Starts[player], m.Cells)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}
	return b, nil
}
