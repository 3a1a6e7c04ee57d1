package collections

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/logger"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/registry"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
)

type Registry interface {
	ListDevices(ctx context.Context) ([]domain.Device, error)
	ListRequests(ctx context.Context) ([]domain.IssueRequest, error)
}

// Service refetches the two collections from the registry. The fetches run
// concurrently and land independently: one failing never cancels or clears
// the other, and a failed load keeps the previous contents.
type Service struct {
	registry Registry
	store    store.Store
}

func NewService(reg Registry, st store.Store) *Service {
	return &Service{registry: reg, store: st}
}

func (s *Service) Refresh(ctx context.Context) error {
	var eg errgroup.Group
	eg.Go(func() error { return s.RefreshDevices(ctx) })
	eg.Go(func() error { return s.RefreshRequests(ctx) })
	return eg.Wait()
}

func (s *Service) RefreshDevices(ctx context.Context) error {
	s.store.BeginDevicesLoad()

	devices, err := s.registry.ListDevices(ctx)
	if err != nil {
		s.store.FailDevicesLoad(rawError(err))
		logger.Errorf(ctx, "refresh devices: %s", err.Error())
		return fmt.Errorf("refresh devices: %w", err)
	}
	if ctx.Err() != nil {
		// the caller went away mid-flight; do not apply its update
		return ctx.Err()
	}

	s.store.LoadDevices(devices)
	return nil
}

func (s *Service) RefreshRequests(ctx context.Context) error {
	s.store.BeginRequestsLoad()

	requests, err := s.registry.ListRequests(ctx)
	if err != nil {
		s.store.FailRequestsLoad(rawError(err))
		logger.Errorf(ctx, "refresh issue requests: %s", err.Error())
		return fmt.Errorf("refresh issue requests: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.store.LoadRequests(requests)
	return nil
}

// rawError keeps the backend's error body opaque in the store's last-error
// slot.
func rawError(err error) []byte {
	var apiErr *registry.APIError
	if errors.As(err, &apiErr) && len(apiErr.Raw) > 0 {
		return apiErr.Raw
	}
	return []byte(err.Error())
}
