package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/georiddle/api/internal/config"
	"github.com/georiddle/api/internal/database"
	"github.com/georiddle/api/internal/georiddle"
	"github.com/georiddle/api/internal/migrations"
	"github.com/georiddle/api/internal/places"
	"github.com/georiddle/api/internal/riddle"
	"github.com/georiddle/api/internal/server"
	"github.com/georiddle/api/internal/spawn"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	// Optional .env for local development; the environment wins.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	directory, err := places.NewGoogleDirectory(cfg.GoogleAPIKey, logger)
	if err != nil {
		return fmt.Errorf("creating places directory: %w", err)
	}

	// The category table is built once here and passed down; nothing
	// reads it as ambient global state.
	table := georiddle.NewPriorityTable(georiddle.DefaultCategories())

	generator := riddle.NewChatGenerator(cfg.RiddleBaseURL, cfg.RiddleAPIKey, cfg.RiddleModel)
	provider := riddle.NewProvider(table, generator, nil, logger)
	spawner := spawn.New(table, provider, nil, logger)

	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:      logger,
		Store:       server.NewSQLiteStore(db),
		Directory:   directory,
		Spawner:     spawner,
		DB:          db,
		SPADir:      cfg.SPADir,
		CORSOrigins: cfg.CORSOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
