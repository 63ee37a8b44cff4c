// Command bot plays four in a row over stdin and stdout using the line
// protocol. Logs go to stderr.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamasit07/four-in-a-row-bot/internal/config"
	"github.com/iamasit07/four-in-a-row-bot/internal/logger"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/bot"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/session"
	"github.com/iamasit07/four-in-a-row-bot/internal/transport/stdio"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	depth := flag.Int("depth", 0, "fixed search depth; 0 follows the depth schedule")
	noPrune := flag.Bool("no-prune", !cfg.Pruning, "search without alpha-beta cutoffs")
	flag.Parse()

	logger.Init(cfg.LogLevel, cfg.LogPretty)

	opts := cfg.EngineOptions()
	opts = append(opts, bot.WithPruning(!*noPrune))
	if *depth > 0 {
		opts = append(opts, bot.WithMaxDepth(*depth))
	}
	engine := bot.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("schedule", engine.Schedule().String()).Bool("pruning", !*noPrune).Msg("bot ready")
	sess := session.New(session.State{}, engine, cfg.MoveTimeout)
	if err := stdio.Run(ctx, os.Stdin, os.Stdout, sess); err != nil {
		log.Error().Err(err).Msg("bot stopped")
		os.Exit(1)
	}
}
