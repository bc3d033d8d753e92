package player

import (
	"context"
	"errors"
	"fmt"

	"vampires/communication"
	"vampires/experiments/metrics"
	"vampires/game"
	"vampires/searcher/agent"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnexpectedEvent = errors.New("unexpected event")
	ErrMissingSize     = errors.New("map received before the board size")
	ErrMissingHome     = errors.New("map received before the start cell")
)

// Player represents a game player talking to a game server.
type Player struct {
	Name         string
	Communicator communication.Communicator
	Agent        agent.Agent
	Board        *game.Board
	Moves        []metrics.MoveMetric

	width, height int
	home          *game.Coord
	faction       game.Population
	step          int
}

// NewPlayer creates a new Player instance.
func NewPlayer(name string, comm communication.Communicator, a agent.Agent) *Player {
	return &Player{
		Name:         name,
		Communicator: comm,
		Agent:        a,
	}
}

// Play handles server events until the session ends, answering every update
// with a move-set.
func (p *Player) Play(ctx context.Context) error {
	for {
		ev, err := p.Communicator.ReceiveEvent(ctx)
		if err != nil {
			return fmt.Errorf("failed to receive event: %w", err)
		}
		if ev.Kind == communication.Bye {
			log.Info().Str("player", p.Name).Msg("session over")
			return nil
		}
		if err := p.Handle(ctx, ev); err != nil {
			return fmt.Errorf("%s: %w", ev.Kind, err)
		}
	}
}

// Handle applies one event to the local board and plays when it is our turn.
func (p *Player) Handle(ctx context.Context, ev communication.Event) error {
	switch ev.Kind {
	case communication.Set:
		p.width, p.height = ev.Width, ev.Height
		p.home, p.Board = nil, nil
	case communication.Hum:
		log.Debug().Str("player", p.Name).Int("homes", len(ev.Homes)).Msg("ignoring human homes")
	case communication.Home:
		home := ev.Home
		p.home = &home
	case communication.Map:
		return p.initBoard(ev.Cells)
	case communication.Update:
		if p.Board == nil {
			return fmt.Errorf("update before map: %w", ErrUnexpectedEvent)
		}
		if err := p.Board.ApplyUpdate(ev.Cells); err != nil {
			return fmt.Errorf("failed to apply update: %w", err)
		}
		return p.takeTurn(ctx)
	case communication.End:
		log.Info().Str("player", p.Name).Int("moves", p.step).Msg("game over")
		p.Board = nil
	default:
		return ErrUnexpectedEvent
	}
	return nil
}

func (p *Player) initBoard(cells []game.Update) error {
	if p.width <= 0 || p.height <= 0 {
		return ErrMissingSize
	}
	if p.home == nil {
		return ErrMissingHome
	}
	board, err := game.NewBoardFromMap(p.width, p.height, *p.home, cells)
	if err != nil {
		return fmt.Errorf("failed to initialize board: %w", err)
	}
	p.Board, p.faction, p.step = board, board.Player(), 0
	log.Info().Str("player", p.Name).Str("faction", p.faction.String()).Msgf("playing on a %dx%d board", p.width, p.height)
	return nil
}

func (p *Player) takeTurn(ctx context.Context) error {
	// An update always means we are to act
	p.Board.SetPlayer(p.faction)
	p.step++

	moves, searchMetric, err := p.Agent.FindMove(ctx, p.Board.Clone())
	if err != nil {
		return fmt.Errorf("failed to find move: %w", err)
	}
	p.Moves = append(p.Moves, metrics.MoveMetric{
		Step:         p.step,
		Player:       p.faction.String(),
		Units:        p.Board.Units(p.faction),
		SearchMetric: searchMetric,
	})
	log.Debug().Str("player", p.Name).Int("step", p.step).Str("moves", fmt.Sprint(moves)).Msg("sending moves")
	return p.Communicator.SendMoves(ctx, moves)
}
