package services

import (
	"context"
	"time"

	"mpcconsole/internal/client/api"
	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/synccache"
)

// ClusterService reads cluster and node health through the cache.
type ClusterService struct {
	client api.Client
	cache  *synccache.Cache
}

func NewClusterService(client api.Client, cache *synccache.Cache) *ClusterService {
	return &ClusterService{client: client, cache: cache}
}

func (s *ClusterService) Status(ctx context.Context) (*models.ClusterStatus, error) {
	return read(ctx, s.cache, KeyClusterStatus, s.client.ClusterStatus, clusterStatusOpts)
}

func (s *ClusterService) Nodes(ctx context.Context) (*models.ListNodesResponse, error) {
	return read(ctx, s.cache, KeyClusterNodes, s.client.ClusterNodes, clusterNodesOpts)
}

// WatchStatus keeps cluster status refreshed while the subscription lives.
func (s *ClusterService) WatchStatus() *synccache.Subscription {
	return watch(s.cache, KeyClusterStatus, s.client.ClusterStatus, clusterStatusOpts)
}

func (s *ClusterService) WatchNodes() *synccache.Subscription {
	return watch(s.cache, KeyClusterNodes, s.client.ClusterNodes, clusterNodesOpts)
}

// HealthService polls the backend liveness endpoint; its cache entry backs
// the connectivity banner.
type HealthService struct {
	client api.Client
	cache  *synccache.Cache
}

func NewHealthService(client api.Client, cache *synccache.Cache) *HealthService {
	return &HealthService{client: client, cache: cache}
}

func (s *HealthService) Check(ctx context.Context) (*models.Health, error) {
	return read(ctx, s.cache, KeyHealth, s.client.Health, healthOpts)
}

func (s *HealthService) Watch() *synccache.Subscription {
	return watch(s.cache, KeyHealth, s.client.Health, healthOpts)
}

// WatchEvery is Watch with a caller-chosen probe interval. Zero falls back
// to the default schedule.
func (s *HealthService) WatchEvery(interval time.Duration) *synccache.Subscription {
	opts := healthOpts
	if interval > 0 {
		opts.RefreshInterval = interval
	}
	return watch(s.cache, KeyHealth, s.client.Health, opts)
}
