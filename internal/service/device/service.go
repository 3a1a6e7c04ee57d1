package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
)

// ServiceRegistry adds the mutation calls the service needs on top of what
// the workflow uses.
type ServiceRegistry interface {
	Registry
	UpdateDevice(ctx context.Context, id int64, fields map[string]interface{}) (domain.Device, error)
	DeleteDevice(ctx context.Context, id int64) error
}

// Service owns the live registration workflows and the plain device
// mutations. Terminal records (approved/rejected) are refused before any
// upstream call is made; the registry enforces the same rule authoritatively.
type Service struct {
	registry ServiceRegistry
	store    store.Store

	mu        sync.Mutex
	workflows map[uuid.UUID]*Workflow
}

func NewService(reg ServiceRegistry, st store.Store) *Service {
	return &Service{
		registry:  reg,
		store:     st,
		workflows: make(map[uuid.UUID]*Workflow),
	}
}

func (s *Service) NewRegistration() *Workflow {
	w := NewWorkflow(s.registry, s.store)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[w.ID()] = w
	return w
}

func (s *Service) Registration(id uuid.UUID) (*Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workflows[id]
	if !ok {
		return nil, constants.ErrNotFound
	}
	return w, nil
}

func (s *Service) find(id int64) (domain.Device, error) {
	for _, d := range s.store.Devices() {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Device{}, constants.ErrNotFound
}

func (s *Service) Update(ctx context.Context, id int64, fields map[string]interface{}) (domain.Device, error) {
	current, err := s.find(id)
	if err != nil {
		return domain.Device{}, err
	}
	if current.Terminal() {
		return domain.Device{}, constants.ErrTerminalRecord
	}

	updated, err := s.registry.UpdateDevice(ctx, id, fields)
	if err != nil {
		return domain.Device{}, fmt.Errorf("update device %d: %w", id, err)
	}
	if err := s.store.ReplaceDevice(updated); err != nil {
		return domain.Device{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.find(id)
	if err != nil {
		return err
	}
	if current.Terminal() {
		return constants.ErrTerminalRecord
	}

	if err := s.registry.DeleteDevice(ctx, id); err != nil {
		return fmt.Errorf("delete device %d: %w", id, err)
	}
	return s.store.RemoveDevice(id)
}
