package services

import (
	"context"
	"fmt"

	"mpcconsole/internal/client/api"
	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/synccache"
	"mpcconsole/internal/common"
)

// TransactionService lists, inspects, and submits transactions. Submissions
// go through mutate-then-invalidate so the list and the wallet balance
// refetch together.
type TransactionService struct {
	client api.Client
	cache  *synccache.Cache
}

func NewTransactionService(client api.Client, cache *synccache.Cache) *TransactionService {
	return &TransactionService{client: client, cache: cache}
}

func listKey(limit, offset int) string {
	return fmt.Sprintf("%s?limit=%d&offset=%d", KeyTransactions, limit, offset)
}

func (s *TransactionService) List(ctx context.Context, limit, offset int) (*models.ListTransactionsResponse, error) {
	fetch := func(ctx context.Context) (*models.ListTransactionsResponse, error) {
		return s.client.ListTransactions(ctx, limit, offset)
	}
	return read(ctx, s.cache, listKey(limit, offset), fetch, transactionsOpts)
}

func (s *TransactionService) Get(ctx context.Context, txid string) (*models.Transaction, error) {
	fetch := func(ctx context.Context) (*models.Transaction, error) {
		return s.client.GetTransaction(ctx, txid)
	}
	return read(ctx, s.cache, KeyTransaction+txid, fetch, transactionOpts)
}

// WatchList keeps a transaction page refreshed while the subscription lives.
func (s *TransactionService) WatchList(limit, offset int) *synccache.Subscription {
	fetch := func(ctx context.Context) (*models.ListTransactionsResponse, error) {
		return s.client.ListTransactions(ctx, limit, offset)
	}
	return watch(s.cache, listKey(limit, offset), fetch, transactionsOpts)
}

// Watch follows a single transaction through its lifecycle.
func (s *TransactionService) Watch(txid string) *synccache.Subscription {
	fetch := func(ctx context.Context) (*models.Transaction, error) {
		return s.client.GetTransaction(ctx, txid)
	}
	return watch(s.cache, KeyTransaction+txid, fetch, transactionOpts)
}

// Create validates the request locally, submits it, and invalidates the
// transaction list and the wallet balance. Validation failures surface as
// common.ErrValidation before anything is sent.
func (s *TransactionService) Create(ctx context.Context, req *models.CreateTransactionRequest) (*models.CreateTransactionResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	var resp *models.CreateTransactionResponse
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.client.CreateTransaction(ctx, req)
		return err
	}, KeyTransactions, KeyWalletBalance)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func validateCreate(req *models.CreateTransactionRequest) error {
	if req.Recipient == "" {
		return fmt.Errorf("%w: recipient is required", common.ErrValidation)
	}
	if req.AmountSats <= 0 {
		return fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}
	if len(req.Metadata) > models.MaxMetadataBytes {
		return fmt.Errorf("%w: metadata exceeds %d bytes", common.ErrValidation, models.MaxMetadataBytes)
	}
	return nil
}
