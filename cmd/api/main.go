package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/config"
	"github.com/iamasit07/four-in-a-row-bot/internal/logger"
	"github.com/iamasit07/four-in-a-row-bot/internal/repository/memory"
	"github.com/iamasit07/four-in-a-row-bot/internal/repository/postgres"
	"github.com/iamasit07/four-in-a-row-bot/internal/repository/redis"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/bot"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/cleanup"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/game"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/session"
	transportHttp "github.com/iamasit07/four-in-a-row-bot/internal/transport/http"
	"github.com/iamasit07/four-in-a-row-bot/internal/transport/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const cleanupInterval = time.Hour

func main() {
	config.LoadEnvFiles()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Decision history is optional.
	var decisions game.DecisionRepository
	var decisionRepo *postgres.DecisionRepo
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		log.Info().Msg("running database migrations")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		decisionRepo = postgres.NewDecisionRepo(db)
		decisions = decisionRepo
	} else {
		log.Warn().Msg("DATABASE_URL not set, decision history disabled")
	}

	// Games live in Redis when it is reachable so replicas can share them.
	var cache session.CacheRepository
	var localCache *memory.Cache
	client, err := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis setup failed")
	}
	if client != nil {
		defer client.Close()
		cache = redis.NewCache(client)
	} else {
		localCache = memory.NewCache()
		cache = localCache
	}

	store := session.NewStore(cache, cfg.SessionTTL)
	engineOpts := cfg.EngineOptions()
	newEngine := func() *bot.Engine { return bot.New(engineOpts...) }
	games := game.NewService(store, decisions, newEngine, cfg.MoveTimeout)

	connManager := websocket.NewConnectionManager()
	wsHandler := websocket.NewHandler(connManager, games, cfg.JWTSecret)

	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		WebSocket:      wsHandler.HandleWebSocket,
	}, games)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	var worker *cleanup.Worker
	if localCache != nil || decisionRepo != nil {
		var pruner cleanup.Pruner
		if localCache != nil {
			pruner = localCache
		}
		var cleaner cleanup.DecisionCleaner
		if decisionRepo != nil {
			cleaner = decisionRepo
		}
		worker = cleanup.NewWorker(pruner, cleaner, cfg.DecisionRetention, cleanupInterval)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("schedule", cfg.DepthSchedule.String()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if worker != nil {
		g.Go(func() error { return worker.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server is shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		connManager.CloseAll("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
	games.Wait()
	log.Info().Msg("server exited gracefully")
}
