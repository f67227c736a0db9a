package services

import (
	"context"

	"mpcconsole/internal/client/api"
	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/synccache"
)

// WalletService reads balance and receiving address through the cache.
type WalletService struct {
	client api.Client
	cache  *synccache.Cache
}

func NewWalletService(client api.Client, cache *synccache.Cache) *WalletService {
	return &WalletService{client: client, cache: cache}
}

func (s *WalletService) Balance(ctx context.Context) (*models.WalletBalance, error) {
	return read(ctx, s.cache, KeyWalletBalance, s.client.WalletBalance, balanceOpts)
}

func (s *WalletService) Address(ctx context.Context) (*models.WalletAddress, error) {
	return read(ctx, s.cache, KeyWalletAddress, s.client.WalletAddress, addressOpts)
}

func (s *WalletService) WatchBalance() *synccache.Subscription {
	return watch(s.cache, KeyWalletBalance, s.client.WalletBalance, balanceOpts)
}
