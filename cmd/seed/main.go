// Command seed fills a PitchHub database with fake users, pitches, likes,
// comments and messages for local development.
//
//	go run ./cmd/seed -db data/pitchhub.db -users 25 -seed 7
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/pitchhub/internal/auth"
	"github.com/sakif/pitchhub/internal/config"
	"github.com/sakif/pitchhub/internal/repository/sqlite"
	"github.com/sakif/pitchhub/internal/seed"
	"github.com/sakif/pitchhub/internal/service"
)

func main() {
	defaults := seed.DefaultOptions()

	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	dbPath := flag.String("db", "", "database path (overrides config)")
	opts := seed.Options{}
	flag.Int64Var(&opts.Seed, "seed", defaults.Seed, "random seed; the same seed produces the same data")
	flag.IntVar(&opts.Users, "users", defaults.Users, "number of users to create")
	flag.IntVar(&opts.PitchesPerUser, "pitches", defaults.PitchesPerUser, "pitches per user")
	flag.IntVar(&opts.LikesPerPitch, "likes", defaults.LikesPerPitch, "likes per pitch")
	flag.IntVar(&opts.CommentsPerUser, "comments", defaults.CommentsPerUser, "comments per user")
	flag.IntVar(&opts.MessagesPerUser, "messages", defaults.MessagesPerUser, "messages per user")
	fast := flag.Bool("fast", true, "hash passwords at the minimum bcrypt cost")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			logger.Error("failed to create database directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to create token service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	passwords := auth.NewPasswordService()
	if *fast {
		passwords = auth.NewPasswordServiceWithCost(4)
	}

	notifier := service.NewNotifier(db, logger)
	svc := seed.Services{
		Auth:         service.NewAuthService(db, tokens, passwords, logger),
		Pitches:      service.NewPitchService(db, db, db, db, logger),
		Interactions: service.NewInteractionService(db, db, db, db, notifier, logger),
		Messaging:    service.NewMessagingService(db, db, notifier, logger),
	}

	if _, err := seed.New(svc, opts, logger).Run(context.Background()); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		db.Close()
		os.Exit(1)
	}
	logger.Info("all seeded users share one password", slog.String("password", seed.DefaultPassword))
}
