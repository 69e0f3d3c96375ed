package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/go-pwsafe/pwsafe/internal/cliapp"
	"github.com/go-pwsafe/pwsafe/internal/config"
	"github.com/go-pwsafe/pwsafe/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := logging.NewSlogLogger(slog.New(handler))

	app := cliapp.NewApp(cfg, logger)
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
