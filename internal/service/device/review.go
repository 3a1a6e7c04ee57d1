package device

import (
	"context"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

// Admin review actions. Approval and rejection are terminal: once either
// lands, Update and Delete refuse the record.

func (s *Service) Approve(ctx context.Context, id int64) (domain.Device, error) {
	return s.Update(ctx, id, map[string]interface{}{
		"status": string(domain.DeviceApproved),
	})
}

func (s *Service) Reject(ctx context.Context, id int64, reason string) (domain.Device, error) {
	return s.Update(ctx, id, map[string]interface{}{
		"status":           string(domain.DeviceRejected),
		"rejection_reason": reason,
	})
}
