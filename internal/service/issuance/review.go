package issuance

import (
	"context"
	"fmt"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
)

// Admin review actions. Resolution and rejection reason are mutually
// exclusive: each action sends only its own field.

func (s *Service) Approve(ctx context.Context, id int64) (domain.IssueRequest, error) {
	return s.review(ctx, id, map[string]interface{}{
		"status": string(domain.RequestApproved),
	})
}

func (s *Service) Resolve(ctx context.Context, id int64, resolution string) (domain.IssueRequest, error) {
	return s.review(ctx, id, map[string]interface{}{
		"status":     string(domain.RequestResolved),
		"resolution": resolution,
	})
}

func (s *Service) Reject(ctx context.Context, id int64, reason string) (domain.IssueRequest, error) {
	return s.review(ctx, id, map[string]interface{}{
		"status":           string(domain.RequestRejected),
		"rejection_reason": reason,
	})
}

func (s *Service) review(ctx context.Context, id int64, fields map[string]interface{}) (domain.IssueRequest, error) {
	current, err := s.find(id)
	if err != nil {
		return domain.IssueRequest{}, err
	}
	if current.Terminal() {
		return domain.IssueRequest{}, constants.ErrTerminalRecord
	}

	updated, err := s.registry.UpdateRequest(ctx, id, fields)
	if err != nil {
		return domain.IssueRequest{}, fmt.Errorf("review issue request %d: %w", id, err)
	}
	if err := s.store.ReplaceRequest(updated); err != nil {
		return domain.IssueRequest{}, err
	}
	return updated, nil
}
