package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mpcconsole/internal/buildinfo"
	"mpcconsole/internal/client/cli"
	"mpcconsole/internal/client/config"
	"mpcconsole/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()

	// Keep interactive output clean; raise the level via MPC_LOG_DEBUG.
	logOut := io.Writer(io.Discard)
	level := slog.LevelError
	if os.Getenv("MPC_LOG_DEBUG") != "" {
		logOut = os.Stderr
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(logOut, level)

	app := cli.NewApp(cfg, logger)
	if err := app.Init(ctx); err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%v", err)
	}
}
