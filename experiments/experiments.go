package experiments

import (
	"context"
	"fmt"

	"vampires/config"
	"vampires/engine"
	"vampires/experiments/metrics"
	"vampires/game"
	"vampires/player"
	"vampires/searcher"
	"vampires/searcher/agent"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Contestant is a named agent factory; every game gets a fresh agent.
type Contestant struct {
	Name string
	New  func(seed uint64) agent.Agent
}

// Contestants returns the search agent described by cfg and the baselines it
// is measured against.
func Contestants(cfg config.Config) []Contestant {
	return []Contestant{
		{Name: "search", New: func(uint64) agent.Agent {
			return agent.NewEvaluationAgent(searcher.NewAlphaBeta(cfg.Threads, cfg.SearchOptions()...))
		}},
		{Name: "sampling", New: func(seed uint64) agent.Agent { return agent.NewSamplingAgent(0.1, seed) }},
		{Name: "random", New: func(seed uint64) agent.Agent { return agent.NewRandomAgent(seed) }},
	}
}

type Result struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// Wins counts the games won by each agent name; draws are counted under "".
func (r Result) Wins() map[string]int {
	return lo.CountValuesBy(r.Games, func(g metrics.GameRecord) string {
		switch g.Winner {
		case game.Vampires.String():
			return g.Vampires
		case game.Werewolves.String():
			return g.Werewolves
		}
		return ""
	})
}

// RunSelfPlay pits the first contestant against each other one on generated
// maps, swapping sides every game.
func RunSelfPlay(ctx context.Context, cfg config.Config, contestants []Contestant) (Result, error) {
	var result Result
	if len(contestants) < 2 {
		return result, fmt.Errorf("need at least two contestants, got %d", len(contestants))
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	hero := contestants[0]

	log.Info().Msgf("starting self-play experiment with %d games per match-up...", cfg.Games)
	for mi, rival := range contestants[1:] {
		for i := 0; i < cfg.Games; i++ {
			vampires, werewolves := hero, rival
			if i%2 == 1 {
				vampires, werewolves = rival, hero
			}
			m, err := engine.GenerateMap(rng, cfg.Width, cfg.Height, cfg.Homes, cfg.Units)
			if err != nil {
				return result, err
			}
			board, err := m.Board(game.Vampires)
			if err != nil {
				return result, err
			}

			e := engine.NewLocalEngine(board, vampires.New(rng.Uint64()), werewolves.New(rng.Uint64()), rng.Uint64(), cfg.MaxTurns)
			winner, gameMetric, moveMetrics, err := e.Run(ctx)
			if err != nil {
				return result, fmt.Errorf("match-up %d game %d: %w", mi+1, i+1, err)
			}

			id := len(result.Games) + 1
			result.Games = append(result.Games, metrics.GameRecord{
				ID:         id,
				Vampires:   vampires.Name,
				Werewolves: werewolves.Name,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				name := vampires.Name
				if mm.Player == game.Werewolves.String() {
					name = werewolves.Name
				}
				result.Moves = append(result.Moves, metrics.MoveRecord{Game: id, Agent: name, MoveMetric: mm})
			}
			log.Info().Msgf("completed %s vs %s game %d of %d with winner: %q", vampires.Name, werewolves.Name, i+1, cfg.Games, winner)
		}
	}
	log.Info().Interface("wins", result.Wins()).Msg("completed self-play experiment")
	return result, nil
}

// Store writes the setup and records of an experiment under cfg.OutputDir.
func Store(cfg config.Config, name string, result Result) (string, error) {
	writer, err := metrics.NewWriter(cfg.OutputDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteSetup(cfg); err != nil {
		return "", err
	}
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return "", err
	}
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return "", err
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return writer.Dir(), nil
}

// RunSession plays one game between two players talking to a server through
// in-process pipes and returns the winner.
func RunSession(ctx context.Context, cfg config.Config, vampires, werewolves Contestant) (string, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	m, err := engine.GenerateMap(rng, cfg.Width, cfg.Height, cfg.Homes, cfg.Units)
	if err != nil {
		return "", err
	}
	server := engine.NewServer(rng.Uint64(), cfg.MaxTurns)

	players := []*player.Player{
		player.NewPlayer(vampires.Name, server.Seat(game.Vampires), vampires.New(rng.Uint64())),
		player.NewPlayer(werewolves.Name, server.Seat(game.Werewolves), werewolves.New(rng.Uint64())),
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range players {
		p := p
		g.Go(func() error { return p.Play(ctx) })
	}

	var winner string
	g.Go(func() error {
		var err error
		if winner, err = server.Play(ctx, m); err != nil {
			return err
		}
		return server.Close(ctx)
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("session failed: %w", err)
	}
	return winner, nil
}
