package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"mpcconsole/internal/client/api"
	"mpcconsole/internal/client/config"
	"mpcconsole/internal/client/credstore"
	"mpcconsole/internal/client/guard"
	"mpcconsole/internal/client/services"
	"mpcconsole/internal/client/store"
	"mpcconsole/internal/client/synccache"
	"mpcconsole/internal/logging"
)

// App wires the console together: credential store, cache, services and
// the REPL that drives them.
type App struct {
	cfg *config.Config
	log logging.Logger

	db    *sql.DB
	creds *credstore.Store
	cache *synccache.Cache

	health *services.HealthService
	clust  *services.ClusterService
	wallet *services.WalletService
	txs    *services.TransactionService
	setup  *services.SetupService

	reader *bufio.Reader
	out    io.Writer
	online atomic.Bool
}

func NewApp(cfg *config.Config, log logging.Logger) *App {
	return &App{cfg: cfg, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// Init opens the local database, restores any persisted session and
// builds the service layer on top of the backend client.
func (a *App) Init(ctx context.Context) error {
	db, err := store.Open(ctx, a.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening state db: %w", err)
	}
	a.db = db

	a.creds = credstore.New(db, []byte(a.cfg.SessionSecret), a.log)
	if err := a.creds.Init(ctx); err != nil {
		db.Close()
		return fmt.Errorf("loading auth state: %w", err)
	}

	client := api.NewHTTPClient(a.cfg.ServerURL, a.creds)
	a.cache = synccache.New(a.log)
	a.cache.SetOnUnauthorized(a.onUnauthorized)

	a.health = services.NewHealthService(client, a.cache)
	a.clust = services.NewClusterService(client, a.cache)
	a.wallet = services.NewWalletService(client, a.cache)
	a.txs = services.NewTransactionService(client, a.cache)
	a.setup = services.NewSetupService(client, a.cache)
	return nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Run starts the connectivity watcher and enters the REPL. It returns
// when the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.startOnlineWatcher(ctx)
	return a.repl(ctx)
}

// onUnauthorized is invoked by the cache when the backend rejects the
// bearer token. The session is dropped so the next prompt lands on the
// login screen.
func (a *App) onUnauthorized() {
	ctx := context.Background()
	if err := a.creds.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout after rejected token", "err", err)
	}
	fmt.Fprintf(a.out, "\nsession rejected by backend, logged out -> %s\n", guard.PathLogin)
}

// startOnlineWatcher subscribes to the health endpoint and flips the
// online flag as results come in, announcing mode changes.
func (a *App) startOnlineWatcher(ctx context.Context) {
	sub := a.health.WatchEvery(a.cfg.HealthCheckInterval)
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-sub.C:
				if !ok {
					return
				}
				up := e.Err == nil
				if a.online.CompareAndSwap(!up, up) {
					if up {
						fmt.Fprintln(a.out, "\n[backend online]")
					} else {
						fmt.Fprintln(a.out, "\n[backend offline, showing cached data]")
					}
				}
			}
		}
	}()
}
