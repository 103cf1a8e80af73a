package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colortrainer/assets"
	"github.com/robalobadob/colortrainer/internal/config"
	"github.com/robalobadob/colortrainer/internal/db"
	"github.com/robalobadob/colortrainer/internal/httpserver"
	"github.com/robalobadob/colortrainer/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	st := newStore(cfg, conn)
	go store.RunJanitor(ctx, st, cfg.SessionTTL, sweepInterval(cfg.SessionTTL))

	srv := httpserver.New(cfg, st, conn)
	log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("starting colortrainer")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func newStore(cfg config.Config, conn *sql.DB) store.Store {
	if cfg.Store == "memory" {
		return store.NewMemoryStore()
	}
	return store.NewSQLStore(conn)
}

// sweepInterval runs the janitor a few times per TTL, at most once a minute.
func sweepInterval(ttl time.Duration) time.Duration {
	if every := ttl / 4; every > time.Minute {
		return every
	}
	return time.Minute
}
