package issuance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
)

const dateLayout = "2006-01-02"

type Registry interface {
	CreateRequest(ctx context.Context, fields map[string]interface{}, upload *domain.Attachment) (domain.IssueRequest, error)
	UpdateRequest(ctx context.Context, id int64, fields map[string]interface{}) (domain.IssueRequest, error)
	SubmitRequest(ctx context.Context, id int64) (domain.IssueRequest, error)
}

// ValidationError is the client-side rejection: nothing was dispatched to the
// registry for the listed fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// Form is the single-step issue-request input.
type Form struct {
	DeviceID           int64
	StartDate          string
	EndDate            string
	ProductionAmount   string
	PeriodOfProduction string
	RecipientAccount   string
	Notes              string
	Upload             *domain.Attachment
}

func (f Form) validate() error {
	bad := make(map[string]string)

	if f.DeviceID == 0 {
		bad["device"] = "a device must be selected"
	}
	start, err := time.Parse(dateLayout, f.StartDate)
	if err != nil {
		bad["start_date"] = "start date must be YYYY-MM-DD"
	}
	end, err := time.Parse(dateLayout, f.EndDate)
	if err != nil {
		bad["end_date"] = "end date must be YYYY-MM-DD"
	} else if bad["start_date"] == "" && end.Before(start) {
		bad["end_date"] = "end date must not precede start date"
	}
	amount, err := decimal.NewFromString(f.ProductionAmount)
	if err != nil || !amount.IsPositive() {
		bad["production_amount"] = "production amount must be a decimal greater than zero"
	}

	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

func (f Form) fields() map[string]interface{} {
	return map[string]interface{}{
		"device":               f.DeviceID,
		"start_date":           f.StartDate,
		"end_date":             f.EndDate,
		"production_amount":    f.ProductionAmount,
		"period_of_production": f.PeriodOfProduction,
		"recipient_account":    f.RecipientAccount,
		"notes":                f.Notes,
	}
}

// Service runs the single-step issue-request workflow.
type Service struct {
	registry Registry
	store    store.Store
}

func NewService(reg Registry, st store.Store) *Service {
	return &Service{registry: reg, store: st}
}

// Create validates client-side and dispatches the create. A validation
// failure never reaches the registry.
func (s *Service) Create(ctx context.Context, f Form) (domain.IssueRequest, error) {
	if err := f.validate(); err != nil {
		return domain.IssueRequest{}, err
	}

	created, err := s.registry.CreateRequest(ctx, f.fields(), f.Upload)
	if err != nil {
		return domain.IssueRequest{}, fmt.Errorf("create issue request: %w", err)
	}
	s.store.AddRequest(created)
	return created, nil
}

// Update replaces the whole record; approved and rejected requests are
// immutable and refused before any call.
func (s *Service) Update(ctx context.Context, id int64, f Form) (domain.IssueRequest, error) {
	current, err := s.find(id)
	if err != nil {
		return domain.IssueRequest{}, err
	}
	if current.Terminal() {
		return domain.IssueRequest{}, constants.ErrTerminalRecord
	}
	if err := f.validate(); err != nil {
		return domain.IssueRequest{}, err
	}

	updated, err := s.registry.UpdateRequest(ctx, id, f.fields())
	if err != nil {
		return domain.IssueRequest{}, fmt.Errorf("update issue request %d: %w", id, err)
	}
	if err := s.store.ReplaceRequest(updated); err != nil {
		return domain.IssueRequest{}, err
	}
	return updated, nil
}

func (s *Service) Submit(ctx context.Context, id int64) (domain.IssueRequest, error) {
	current, err := s.find(id)
	if err != nil {
		return domain.IssueRequest{}, err
	}
	if current.Terminal() {
		return domain.IssueRequest{}, constants.ErrTerminalRecord
	}

	submitted, err := s.registry.SubmitRequest(ctx, id)
	if err != nil {
		return domain.IssueRequest{}, fmt.Errorf("submit issue request %d: %w", id, err)
	}
	if err := s.store.ReplaceRequest(submitted); err != nil {
		return domain.IssueRequest{}, err
	}
	return submitted, nil
}

func (s *Service) find(id int64) (domain.IssueRequest, error) {
	for _, r := range s.store.Requests() {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.IssueRequest{}, constants.ErrNotFound
}
