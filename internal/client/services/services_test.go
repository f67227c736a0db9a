package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/synccache"
	"mpcconsole/internal/common"
)

// fakeClient implements api.Client for service tests, counting calls and
// returning canned payloads.
type fakeClient struct {
	HealthErr error

	ClusterStatusRet   *models.ClusterStatus
	ClusterStatusErr   error
	ClusterStatusCalls atomic.Int64

	ListRet   *models.ListTransactionsResponse
	ListErr   error
	ListCalls atomic.Int64

	GetTxRet *models.Transaction
	GetTxErr error

	CreateRet   *models.CreateTransactionResponse
	CreateErr   error
	CreateCalls atomic.Int64

	BalanceRet   *models.WalletBalance
	BalanceCalls atomic.Int64

	PresigRet      *models.PresigStatus
	PresigCalls    atomic.Int64
	GenPresigRet   *models.GeneratePresigResponse
	GenPresigCalls atomic.Int64

	LastCreateReq *models.CreateTransactionRequest
}

func (f *fakeClient) Health(ctx context.Context) (*models.Health, error) {
	if f.HealthErr != nil {
		return nil, f.HealthErr
	}
	return &models.Health{Status: "ok"}, nil
}

func (f *fakeClient) ClusterStatus(ctx context.Context) (*models.ClusterStatus, error) {
	f.ClusterStatusCalls.Add(1)
	return f.ClusterStatusRet, f.ClusterStatusErr
}

func (f *fakeClient) ClusterNodes(ctx context.Context) (*models.ListNodesResponse, error) {
	return &models.ListNodesResponse{}, nil
}

func (f *fakeClient) DkgStatus(ctx context.Context) (*models.DkgStatus, error) {
	return &models.DkgStatus{}, nil
}

func (f *fakeClient) InitiateDkg(ctx context.Context, req *models.DkgInitiateRequest) (*models.DkgResponse, error) {
	return &models.DkgResponse{Success: true, Protocol: req.Protocol}, nil
}

func (f *fakeClient) JoinDkg(ctx context.Context, sessionID string) (*models.DkgResponse, error) {
	return &models.DkgResponse{Success: true, SessionID: sessionID}, nil
}

func (f *fakeClient) AuxInfoStatus(ctx context.Context) (*models.AuxInfoStatus, error) {
	return &models.AuxInfoStatus{}, nil
}

func (f *fakeClient) GenerateAuxInfo(ctx context.Context, req *models.AuxInfoGenerateRequest) (*models.AuxInfoGenerateResponse, error) {
	return &models.AuxInfoGenerateResponse{Success: true, SessionID: "aux-1"}, nil
}

func (f *fakeClient) PresigStatus(ctx context.Context) (*models.PresigStatus, error) {
	f.PresigCalls.Add(1)
	return f.PresigRet, nil
}

func (f *fakeClient) GeneratePresignatures(ctx context.Context, count int) (*models.GeneratePresigResponse, error) {
	f.GenPresigCalls.Add(1)
	return f.GenPresigRet, nil
}

func (f *fakeClient) ListTransactions(ctx context.Context, limit, offset int) (*models.ListTransactionsResponse, error) {
	f.ListCalls.Add(1)
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetTransaction(ctx context.Context, txid string) (*models.Transaction, error) {
	return f.GetTxRet, f.GetTxErr
}

func (f *fakeClient) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.CreateTransactionResponse, error) {
	f.CreateCalls.Add(1)
	f.LastCreateReq = req
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) WalletBalance(ctx context.Context) (*models.WalletBalance, error) {
	f.BalanceCalls.Add(1)
	return f.BalanceRet, nil
}

func (f *fakeClient) WalletAddress(ctx context.Context) (*models.WalletAddress, error) {
	return &models.WalletAddress{Address: "bc1qexample", AddressType: "p2wpkh"}, nil
}

func newCache() *synccache.Cache { return synccache.New(nil) }

func TestClusterService_StatusServedThroughCache(t *testing.T) {
	f := &fakeClient{ClusterStatusRet: &models.ClusterStatus{Status: "healthy", TotalNodes: 5}}
	svc := NewClusterService(f, newCache())
	ctx := context.Background()

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, "healthy", st.Status)

	// Second read within StaleTime is served from cache.
	_, err = svc.Status(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.ClusterStatusCalls.Load())
}

func TestClusterService_ErrorKeepsStaleData(t *testing.T) {
	f := &fakeClient{ClusterStatusRet: &models.ClusterStatus{Status: "healthy"}}
	cache := newCache()
	svc := NewClusterService(f, cache)
	ctx := context.Background()

	_, err := svc.Status(ctx)
	require.NoError(t, err)

	f.ClusterStatusErr = errors.New("connection refused")
	cache.Invalidate(KeyClusterStatus)

	st, err := svc.Status(ctx)
	require.Error(t, err)
	require.NotNil(t, st, "stale status stays renderable")
	require.Equal(t, "healthy", st.Status)
}

func TestTransactionService_CreateInvalidatesListAndBalance(t *testing.T) {
	f := &fakeClient{
		ListRet:    &models.ListTransactionsResponse{Total: 0},
		BalanceRet: &models.WalletBalance{Total: 100_000},
		CreateRet:  &models.CreateTransactionResponse{TxID: "tx-1", State: "pending"},
	}
	cache := newCache()
	svc := NewTransactionService(f, cache)
	wallet := NewWalletService(f, cache)
	ctx := context.Background()

	listSub := svc.WatchList(100, 0)
	defer listSub.Close()
	balSub := wallet.WatchBalance()
	defer balSub.Close()

	require.Eventually(t, func() bool { return f.ListCalls.Load() == 1 && f.BalanceCalls.Load() == 1 },
		time.Second, 5*time.Millisecond)

	resp, err := svc.Create(ctx, &models.CreateTransactionRequest{Recipient: "bc1q", AmountSats: 5000})
	require.NoError(t, err)
	require.Equal(t, "tx-1", resp.TxID)

	require.Eventually(t, func() bool { return f.ListCalls.Load() == 2 && f.BalanceCalls.Load() == 2 },
		time.Second, 5*time.Millisecond)
}

func TestTransactionService_CreateValidation(t *testing.T) {
	f := &fakeClient{}
	svc := NewTransactionService(f, newCache())
	ctx := context.Background()

	tests := []struct {
		name string
		req  *models.CreateTransactionRequest
	}{
		{"missing recipient", &models.CreateTransactionRequest{AmountSats: 1}},
		{"zero amount", &models.CreateTransactionRequest{Recipient: "bc1q"}},
		{"negative amount", &models.CreateTransactionRequest{Recipient: "bc1q", AmountSats: -5}},
		{"oversized metadata", &models.CreateTransactionRequest{
			Recipient: "bc1q", AmountSats: 1,
			Metadata: string(make([]byte, models.MaxMetadataBytes+1)),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			require.ErrorIs(t, err, common.ErrValidation)
		})
	}
	require.EqualValues(t, 0, f.CreateCalls.Load(), "invalid requests never reach the backend")
}

func TestTransactionService_CreateFailureDoesNotInvalidate(t *testing.T) {
	f := &fakeClient{
		ListRet:   &models.ListTransactionsResponse{},
		CreateErr: errors.New("pool exhausted"),
	}
	cache := newCache()
	svc := NewTransactionService(f, cache)

	sub := svc.WatchList(100, 0)
	defer sub.Close()
	require.Eventually(t, func() bool { return f.ListCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err := svc.Create(context.Background(), &models.CreateTransactionRequest{Recipient: "bc1q", AmountSats: 1})
	require.Error(t, err)

	time.Sleep(50 * time.Millisecond)
	require.EqualValues(t, 1, f.ListCalls.Load())
}

func TestSetupService_PresigCountBounds(t *testing.T) {
	f := &fakeClient{GenPresigRet: &models.GeneratePresigResponse{Generated: 10}}
	svc := NewSetupService(f, newCache())
	ctx := context.Background()

	for _, count := range []int{0, -1, 51, 1000} {
		_, err := svc.GeneratePresignatures(ctx, count)
		require.ErrorIs(t, err, common.ErrValidation, "count %d", count)
	}
	require.EqualValues(t, 0, f.GenPresigCalls.Load())

	resp, err := svc.GeneratePresignatures(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 10, resp.Generated)
}

func TestSetupService_InitiateDkgValidation(t *testing.T) {
	svc := NewSetupService(&fakeClient{}, newCache())
	ctx := context.Background()

	_, err := svc.InitiateDkg(ctx, &models.DkgInitiateRequest{Protocol: "ecdsa", Threshold: 3, TotalNodes: 5})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.InitiateDkg(ctx, &models.DkgInitiateRequest{Protocol: "frost", Threshold: 6, TotalNodes: 5})
	require.ErrorIs(t, err, common.ErrValidation)

	resp, err := svc.InitiateDkg(ctx, &models.DkgInitiateRequest{Protocol: "cggmp24", Threshold: 3, TotalNodes: 5})
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func TestSetupService_GenerateAuxInfoDefaults(t *testing.T) {
	svc := NewSetupService(&fakeClient{}, newCache())

	resp, err := svc.GenerateAuxInfo(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, resp.Success)
}
