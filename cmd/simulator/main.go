package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mpcconsole/internal/buildinfo"
	"mpcconsole/internal/logging"
	"mpcconsole/internal/simulator"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	addr := flag.String("a", ":8080", "listen address")
	step := flag.Duration("s", 2*time.Second, "transaction lifecycle step interval")
	flag.Parse()

	// Must match the console's session secret, tokens are issued there.
	secret := os.Getenv("MPC_SESSION_SECRET")
	if secret == "" {
		secret = "dev-only-insecure-secret"
	}

	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cluster := simulator.NewCluster()
	go cluster.Run(ctx, *step)

	srv := &http.Server{
		Addr:    *addr,
		Handler: simulator.NewServer(cluster, []byte(secret), logger).Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "simulator listening", "addr", *addr, "step", step.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}
