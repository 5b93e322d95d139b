package main

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kreddys/ghostwriter-sub000/internal/app"
	"github.com/kreddys/ghostwriter-sub000/internal/config"
	"github.com/kreddys/ghostwriter-sub000/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	// An argument overrides the configured topic; it may be a topic
	// phrase or a direct article URL.
	input := strings.Join(os.Args[1:], " ")

	if err := application.Run(ctx, input); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
