package communication

import (
	"context"

	"vampires/game"
)

// Pipe connects a player and an in-process game server. The player side
// implements Communicator; the server uses SendEvent and ReceiveMoves.
type Pipe struct {
	events chan Event
	moves  chan game.MoveSet
}

func NewPipe() *Pipe {
	return &Pipe{
		events: make(chan Event, 8),
		moves:  make(chan game.MoveSet),
	}
}

func (p *Pipe) ReceiveEvent(ctx context.Context) (Event, error) {
	select {
	case ev := <-p.events:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func (p *Pipe) SendMoves(ctx context.Context, moves game.MoveSet) error {
	select {
	case p.moves <- moves:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipe) SendEvent(ctx context.Context, ev Event) error {
	select {
	case p.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipe) ReceiveMoves(ctx context.Context) (game.MoveSet, error) {
	select {
	case moves := <-p.moves:
		return moves, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
