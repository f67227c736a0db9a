package services

import (
	"context"
	"fmt"

	"mpcconsole/internal/client/api"
	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/synccache"
	"mpcconsole/internal/common"
)

// SetupService drives the admin ceremonies: DKG, auxiliary parameter
// generation, and presignature pool top-ups.
type SetupService struct {
	client api.Client
	cache  *synccache.Cache
}

func NewSetupService(client api.Client, cache *synccache.Cache) *SetupService {
	return &SetupService{client: client, cache: cache}
}

func (s *SetupService) DkgStatus(ctx context.Context) (*models.DkgStatus, error) {
	return read(ctx, s.cache, KeyDkgStatus, s.client.DkgStatus, dkgStatusOpts)
}

func (s *SetupService) AuxInfoStatus(ctx context.Context) (*models.AuxInfoStatus, error) {
	return read(ctx, s.cache, KeyAuxInfoStatus, s.client.AuxInfoStatus, auxInfoOpts)
}

func (s *SetupService) PresigStatus(ctx context.Context) (*models.PresigStatus, error) {
	return read(ctx, s.cache, KeyPresigStatus, s.client.PresigStatus, presigStatusOpts)
}

func (s *SetupService) WatchPresigStatus() *synccache.Subscription {
	return watch(s.cache, KeyPresigStatus, s.client.PresigStatus, presigStatusOpts)
}

func (s *SetupService) InitiateDkg(ctx context.Context, req *models.DkgInitiateRequest) (*models.DkgResponse, error) {
	if req.Protocol != "cggmp24" && req.Protocol != "frost" {
		return nil, fmt.Errorf("%w: unknown protocol %q", common.ErrValidation, req.Protocol)
	}
	if req.Threshold < 1 || req.TotalNodes < req.Threshold {
		return nil, fmt.Errorf("%w: need 1 <= threshold <= total nodes", common.ErrValidation)
	}

	var resp *models.DkgResponse
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.client.InitiateDkg(ctx, req)
		return err
	}, KeyDkgStatus)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateAuxInfo starts aux parameter generation. A nil request falls back
// to the default five-party ceremony.
func (s *SetupService) GenerateAuxInfo(ctx context.Context, req *models.AuxInfoGenerateRequest) (*models.AuxInfoGenerateResponse, error) {
	if req == nil {
		req = &models.AuxInfoGenerateRequest{NumParties: 5, Participants: []int{1, 2, 3, 4, 5}}
	}

	var resp *models.AuxInfoGenerateResponse
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.client.GenerateAuxInfo(ctx, req)
		return err
	}, KeyAuxInfoStatus)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GeneratePresignatures requests a manual pool top-up of count
// presignatures, bounded to 1-50 per request.
func (s *SetupService) GeneratePresignatures(ctx context.Context, count int) (*models.GeneratePresigResponse, error) {
	if count < models.MinPresigCount || count > models.MaxPresigCount {
		return nil, fmt.Errorf("%w: count must be between %d and %d", common.ErrValidation, models.MinPresigCount, models.MaxPresigCount)
	}

	var resp *models.GeneratePresigResponse
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.client.GeneratePresignatures(ctx, count)
		return err
	}, KeyPresigStatus)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
