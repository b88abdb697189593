package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/config"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/server"
)

const appVersion = "dev"

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "bracket-score-sync",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}
	srv.Run(ctx, stop)
}
