package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"flappy-game/internal/archive"
	"flappy-game/internal/config"
	"flappy-game/internal/database"
	"flappy-game/internal/notification"
	"flappy-game/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	db, err := database.New(cfg.DSN(), log)
	if err != nil {
		log.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate("migrations"); err != nil {
		log.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifications := notification.NewManager(db, log)
	go notifications.RunCleanup(ctx)

	go archive.NewJob(db, cfg.SMTP, log).Run(ctx)

	srv := server.NewGameServer(db, cfg, notifications, log)
	if err := srv.Run(ctx, net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)); err != nil {
		log.Error("server error", "err", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
