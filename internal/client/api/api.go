// Package api is the console's transport layer to the cluster backend.
// It defines the Client interface consumed by services and an HTTP
// implementation of it.
package api

import (
	"context"

	"mpcconsole/internal/client/models"
)

// Client covers every backend endpoint the console consumes. All methods
// honor context cancellation, time out after a fixed upper bound, and map
// HTTP failures to sentinel errors in internal/common: a 401-class response
// becomes common.ErrUnauthorized, connectivity failures become
// common.ErrUnavailable.
type Client interface {
	Health(ctx context.Context) (*models.Health, error)

	ClusterStatus(ctx context.Context) (*models.ClusterStatus, error)
	ClusterNodes(ctx context.Context) (*models.ListNodesResponse, error)

	DkgStatus(ctx context.Context) (*models.DkgStatus, error)
	InitiateDkg(ctx context.Context, req *models.DkgInitiateRequest) (*models.DkgResponse, error)
	JoinDkg(ctx context.Context, sessionID string) (*models.DkgResponse, error)

	AuxInfoStatus(ctx context.Context) (*models.AuxInfoStatus, error)
	GenerateAuxInfo(ctx context.Context, req *models.AuxInfoGenerateRequest) (*models.AuxInfoGenerateResponse, error)

	PresigStatus(ctx context.Context) (*models.PresigStatus, error)
	GeneratePresignatures(ctx context.Context, count int) (*models.GeneratePresigResponse, error)

	ListTransactions(ctx context.Context, limit, offset int) (*models.ListTransactionsResponse, error)
	GetTransaction(ctx context.Context, txid string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.CreateTransactionResponse, error)

	WalletBalance(ctx context.Context) (*models.WalletBalance, error)
	WalletAddress(ctx context.Context) (*models.WalletAddress, error)
}

// TokenSource supplies the current bearer token, or "" when no session is
// active. The credential store implements it; the HTTP client consults it
// on every request so a re-login is picked up without rebuilding clients.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }
