package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"go-esg-platform/internal/app"
	"go-esg-platform/internal/logger"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(logger.New(os.Stdout, os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL")))

	application, err := app.New(context.Background())
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
