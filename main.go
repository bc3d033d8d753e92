package main

import (
	"context"
	"os"
	"os/signal"

	"vampires/config"
	"vampires/experiments"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	var cfg config.Config
	if err := cfg.Load(path); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	contestants := experiments.Contestants(cfg)
	switch cfg.Mode {
	case config.ModeSession:
		winner, err := experiments.RunSession(ctx, cfg, contestants[0], contestants[1])
		if err != nil {
			log.Fatal().Err(err).Msg("session failed")
		}
		log.Info().Msgf("session over, winner: %q", winner)
	default:
		result, err := experiments.RunSelfPlay(ctx, cfg, contestants)
		if err != nil {
			log.Fatal().Err(err).Msg("self-play failed")
		}
		if _, err := experiments.Store(cfg, "selfplay", result); err != nil {
			log.Fatal().Err(err).Msg("failed to store results")
		}
	}
}
