package communication

import (
	"context"
	"fmt"

	"vampires/game"
)

type Kind int

const (
	Set    Kind = iota // Board size
	Hum                // Human home cells, informational
	Home               // Own start cell
	Map                // Initial cells
	Update             // Changed cells, sent when the receiver is to act
	End                // Game over, another may follow
	Bye                // Session over
)

func (k Kind) String() string {
	switch k {
	case Set:
		return "set"
	case Hum:
		return "hum"
	case Home:
		return "hme"
	case Map:
		return "map"
	case Update:
		return "upd"
	case End:
		return "end"
	case Bye:
		return "bye"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one already-parsed message from the game server. Only the fields
// of its Kind are set.
type Event struct {
	Kind          Kind
	Width, Height int
	Home          game.Coord
	Homes         []game.Coord
	Cells         []game.Update
}

// Communicator abstracts the transport between a player and the game server.
type Communicator interface {
	ReceiveEvent(ctx context.Context) (Event, error)
	SendMoves(ctx context.Context, moves game.MoveSet) error
}
