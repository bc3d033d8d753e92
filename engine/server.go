package engine

import (
	"context"
	"fmt"

	"vampires/communication"
	"vampires/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Server hosts games between two players connected through in-process pipes.
// It sends each player the session events and referees the move-sets they
// answer with; an illegal move-set forfeits the game.
type Server struct {
	seats    map[game.Population]*communication.Pipe
	maxTurns int
	rng      *rand.Rand
}

func NewServer(seed uint64, maxTurns int) *Server {
	if maxTurns <= 0 {
		maxTurns = MaxTurns
	}
	return &Server{
		seats: map[game.Population]*communication.Pipe{
			game.Vampires:   communication.NewPipe(),
			game.Werewolves: communication.NewPipe(),
		},
		maxTurns: maxTurns,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Seat returns the communicator of the player controlling a faction.
func (s *Server) Seat(faction game.Population) communication.Communicator {
	return s.seats[faction]
}

// Play runs one game on m, vampires first, and returns the winner.
func (s *Server) Play(ctx context.Context, m Map) (string, error) {
	board, err := m.Board(game.Vampires)
	if err != nil {
		return "", err
	}

	var homes []game.Coord
	for _, c := range m.Cells {
		if c.Humans > 0 {
			homes = append(homes, c.At)
		}
	}
	for faction, seat := range s.seats {
		for _, ev := range []communication.Event{
			{Kind: communication.Set, Width: m.Width, Height: m.Height},
			{Kind: communication.Hum, Homes: homes},
			{Kind: communication.Home, Home: m.Starts[faction]},
			{Kind: communication.Map, Cells: m.Cells},
		} {
			if err := seat.SendEvent(ctx, ev); err != nil {
				return "", fmt.Errorf("failed to send %s: %w", ev.Kind, err)
			}
		}
	}

	seen := map[game.Population]*game.Board{
		game.Vampires:   board.Clone(),
		game.Werewolves: board.Clone(),
	}
	winner := ""
	for turn := 1; Winner(board, false) == "" && turn <= s.maxTurns; turn++ {
		player := board.Player()
		seat := s.seats[player]
		update := communication.Event{Kind: communication.Update, Cells: Diff(seen[player], board)}
		if err := seat.SendEvent(ctx, update); err != nil {
			return "", fmt.Errorf("turn %d: failed to send update: %w", turn, err)
		}
		seen[player] = board.Clone()

		ms, err := seat.ReceiveMoves(ctx)
		if err != nil {
			return "", fmt.Errorf("turn %d: failed to receive moves: %w", turn, err)
		}
		if err := board.Validate(ms); err != nil {
			log.Warn().Err(err).Int("turn", turn).Msgf("%s forfeit with an illegal move-set", player)
			winner = player.Opponent().String()
			break
		}
		board = sampleOutcome(game.Resolve(board, ms), s.rng.Float64())
	}
	if winner == "" {
		winner = Winner(board, true)
	}

	for _, seat := range s.seats {
		if err := seat.SendEvent(ctx, communication.Event{Kind: communication.End}); err != nil {
			return "", fmt.Errorf("failed to send end: %w", err)
		}
	}
	log.Info().Msgf("game over, winner: %q", winner)
	return winner, nil
}

// Close ends the session of both players.
func (s *Server) Close(ctx context.Context) error {
	for _, seat := range s.seats {
		if err := seat.SendEvent(ctx, communication.Event{Kind: communication.Bye}); err != nil {
			return fmt.Errorf("failed to send bye: %w", err)
		}
	}
	return nil
}
