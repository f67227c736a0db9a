// Package services contains the application services of the console: thin
// resource-oriented wrappers that route every backend read through the sync
// cache (one canonical key per resource) and every write through
// mutate-then-invalidate, so views converge without per-view fetch logic.
package services

import (
	"context"
	"time"

	"mpcconsole/internal/client/synccache"
)

// Canonical cache keys. Invalidation matches by prefix, so parameterized
// keys extend their family prefix (e.g. "transactions?limit=100").
const (
	KeyHealth        = "health"
	KeyClusterStatus = "cluster/status"
	KeyClusterNodes  = "cluster/nodes"
	KeyDkgStatus     = "dkg/status"
	KeyAuxInfoStatus = "auxinfo/status"
	KeyPresigStatus  = "presignatures/status"
	KeyTransactions  = "transactions"
	KeyTransaction   = "transaction/"
	KeyWalletBalance = "wallet/balance"
	KeyWalletAddress = "wallet/address"
)

// Refresh schedules per resource, mirroring how quickly each backend value
// settles.
var (
	healthOpts        = synccache.Options{RefreshInterval: 10 * time.Second, StaleTime: 5 * time.Second}
	clusterStatusOpts = synccache.Options{RefreshInterval: 10 * time.Second, StaleTime: 5 * time.Second}
	clusterNodesOpts  = synccache.Options{RefreshInterval: 30 * time.Second, StaleTime: 10 * time.Second}
	dkgStatusOpts     = synccache.Options{RefreshInterval: 10 * time.Second, StaleTime: 5 * time.Second}
	auxInfoOpts       = synccache.Options{RefreshInterval: 10 * time.Second, StaleTime: 5 * time.Second}
	presigStatusOpts  = synccache.Options{RefreshInterval: 10 * time.Second, StaleTime: 5 * time.Second}
	transactionsOpts  = synccache.Options{RefreshInterval: 15 * time.Second}
	transactionOpts   = synccache.Options{RefreshInterval: 5 * time.Second}
	balanceOpts       = synccache.Options{RefreshInterval: 30 * time.Second, StaleTime: 10 * time.Second}
	addressOpts       = synccache.Options{StaleTime: 5 * time.Minute} // address rarely changes
)

// read performs a typed one-shot read through the cache. On error the last
// known-good payload (possibly nil) is still returned so callers can render
// stale data alongside the failure.
func read[T any](ctx context.Context, c *synccache.Cache, key string, fetch func(ctx context.Context) (T, error), opts synccache.Options) (T, error) {
	e, err := c.Read(ctx, key, func(ctx context.Context) (any, error) { return fetch(ctx) }, opts)
	data, _ := e.Data.(T)
	return data, err
}

// watch subscribes to a key with the given fetcher.
func watch[T any](c *synccache.Cache, key string, fetch func(ctx context.Context) (T, error), opts synccache.Options) *synccache.Subscription {
	return c.Subscribe(key, func(ctx context.Context) (any, error) { return fetch(ctx) }, opts)
}
