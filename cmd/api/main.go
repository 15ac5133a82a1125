package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/skillswap/backend/internal/auth"
	"github.com/skillswap/backend/internal/badges"
	"github.com/skillswap/backend/internal/config"
	"github.com/skillswap/backend/internal/content"
	"github.com/skillswap/backend/internal/credits"
	"github.com/skillswap/backend/internal/dashboard"
	"github.com/skillswap/backend/internal/ledger"
	"github.com/skillswap/backend/internal/notifications"
	"github.com/skillswap/backend/internal/reviews"
	"github.com/skillswap/backend/internal/router"
	"github.com/skillswap/backend/internal/sessions"
	"github.com/skillswap/backend/internal/skills"
	"github.com/skillswap/backend/internal/users"
	"github.com/skillswap/backend/internal/validation"
	"github.com/skillswap/backend/internal/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL. Ensure Postgres is running, e.g. make dev-up or docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL database")

	// River migrations
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed. If the error is 'connection refused', start PostgreSQL first", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	validator, err := validation.New()
	if err != nil {
		slog.Error("Failed to compile request schemas", "error", err)
		os.Exit(1)
	}

	// Ledger
	ledgerRepo := ledger.NewRepository(pool)
	ledgerSvc := ledger.NewService(ledgerRepo)

	notificationRepo := notifications.NewRepository(pool)

	// Badge worker and River client
	badgeRepo := badges.NewRepository(pool)
	workers := river.NewWorkers()
	river.AddWorker(workers, badges.NewAwardBadgesWorker(badgeRepo, notificationRepo, logger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	insertAwardBadges := func(ctx context.Context, tx pgx.Tx, args badges.AwardBadgesArgs) error {
		_, err := riverClient.InsertTx(ctx, tx, args, nil)
		return err
	}

	// Auth
	authRepo := auth.NewRepository(pool)
	authSvc := auth.NewService(authRepo, ledgerSvc, notificationRepo, cfg.JWTSecret)
	authHandler := auth.NewHandler(authSvc, logger)

	// Users
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, ledgerRepo, logger)

	// Skills
	skillRepo := skills.NewRepository(pool)
	skillHandler := skills.NewHandler(skillRepo, validator, logger)

	// Sessions
	sessionRepo := sessions.NewRepository(pool)
	sessionSvc := sessions.NewService(sessionRepo, ledgerSvc, notificationRepo, insertAwardBadges, logger)
	sessionHandler := sessions.NewHandler(sessionSvc, validator, logger)

	// Reviews, credits, content, notifications
	reviewRepo := reviews.NewRepository(pool)
	reviewHandler := reviews.NewHandler(reviewRepo, notificationRepo, validator, logger)
	creditHandler := credits.NewHandler(ledgerSvc, notificationRepo, validator, logger)
	contentRepo := content.NewRepository(pool)
	contentHandler := content.NewHandler(contentRepo, validator, logger)
	notificationHandler := notifications.NewHandler(notificationRepo, logger)

	// Dashboard and search
	dashRepo := dashboard.NewRepository(pool)
	dashHandler := dashboard.NewHandler(dashRepo, ledgerRepo, contentRepo, logger)

	mux := router.New(router.Handlers{
		Auth:          authHandler,
		Users:         userHandler,
		Skills:        skillHandler,
		Sessions:      sessionHandler,
		Reviews:       reviewHandler,
		Credits:       creditHandler,
		Content:       contentHandler,
		Notifications: notificationHandler,
		Dashboard:     dashHandler,
		Web:           web.NewHandler(),
	}, authSvc, userRepo)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	// Start River client (processes badge jobs)
	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	addr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
