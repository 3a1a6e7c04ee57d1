package derive

import (
	"github.com/shopspring/decimal"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
)

// Pure selectors over the entity collections. Every function here is total:
// absent users, bare-id owner refs and unparseable numerics degrade to
// empty/zero results, never to a panic that would blank the dashboard.

type EnergyStats map[domain.FuelType]decimal.Decimal

// DevicesOwnedBy returns the devices owned by user. The owner may arrive as
// an embedded object or a bare id; OwnerRef.ID resolves both shapes.
func DevicesOwnedBy(devices []domain.Device, user *domain.User) []domain.Device {
	if user == nil {
		return nil
	}

	var owned []domain.Device
	for _, d := range devices {
		if id := d.User.ID(); id != 0 && id == user.ID {
			owned = append(owned, d)
		}
	}
	return owned
}

// RequestsOwnedBy returns the issue requests submitted by user. Requests
// without a resolvable user reference are skipped.
func RequestsOwnedBy(requests []domain.IssueRequest, user *domain.User) []domain.IssueRequest {
	if user == nil {
		return nil
	}

	var owned []domain.IssueRequest
	for _, r := range requests {
		if id := r.User.ID(); id != 0 && id == user.ID {
			owned = append(owned, r)
		}
	}
	return owned
}

// AdminView returns the whole collection for admins and nothing for everyone
// else. It is a presentation filter, not an authorization boundary: the
// registry enforces access on its side.
func AdminView[T any](collection []T, user *domain.User) []T {
	if user == nil || !user.IsAdmin {
		return nil
	}
	return collection
}

// EnergyStatistics sums device capacity per fuel type. Missing or
// unparseable capacity contributes zero.
func EnergyStatistics(devices []domain.Device) EnergyStats {
	stats := make(EnergyStats)
	for _, d := range devices {
		if d.FuelType == "" {
			continue
		}
		capacity, err := decimal.NewFromString(d.Capacity)
		if err != nil {
			capacity = decimal.Zero
		}
		stats[d.FuelType] = stats[d.FuelType].Add(capacity)
	}
	return stats
}

// PendingCounts counts entities awaiting review, using the per-collection
// predicates configured in the store package.
func PendingCounts(devices []domain.Device, requests []domain.IssueRequest) (pendingDevices, pendingRequests int) {
	for _, d := range devices {
		if store.DevicePending(d) {
			pendingDevices++
		}
	}
	for _, r := range requests {
		if store.RequestPending(r) {
			pendingRequests++
		}
	}
	return pendingDevices, pendingRequests
}
