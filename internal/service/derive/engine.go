package derive

import (
	"sync"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
)

// Summary is the dashboard card read model.
type Summary struct {
	TotalDevices    int         `json:"total_devices"`
	ActiveDevices   int         `json:"active_devices"`
	TotalRequests   int         `json:"total_requests"`
	PendingRequests int         `json:"pending_requests"`
	EnergyStats     EnergyStats `json:"energy_stats"`
}

type summaryKey struct {
	deviceVersion  uint64
	requestVersion uint64
	userID         int64
	isAdmin        bool
	adminWide      bool
	hasUser        bool
}

// Engine memoises the dashboard summary per input fingerprint: as long as the
// collections and the user are unchanged, Summary returns the identical
// cached object, not just an equal one.
type Engine struct {
	store store.Store

	mu     sync.Mutex
	key    summaryKey
	cached *Summary
}

func NewEngine(st store.Store) *Engine {
	return &Engine{store: st}
}

// Summary computes the dashboard summary scoped to user, or registry-wide
// when adminWide is set and the user is an admin.
func (e *Engine) Summary(user *domain.User, adminWide bool) *Summary {
	devVersion, reqVersion := e.store.Versions()
	key := summaryKey{
		deviceVersion:  devVersion,
		requestVersion: reqVersion,
		adminWide:      adminWide,
	}
	if user != nil {
		key.userID = user.ID
		key.isAdmin = user.IsAdmin
		key.hasUser = true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cached != nil && e.key == key {
		return e.cached
	}

	devices := e.store.Devices()
	requests := e.store.Requests()
	if adminWide {
		devices = AdminView(devices, user)
		requests = AdminView(requests, user)
	} else {
		devices = DevicesOwnedBy(devices, user)
		requests = RequestsOwnedBy(requests, user)
	}

	active := 0
	for _, d := range devices {
		if d.Status == domain.DeviceApproved {
			active++
		}
	}
	_, pendingRequests := PendingCounts(nil, requests)

	e.key = key
	e.cached = &Summary{
		TotalDevices:    len(devices),
		ActiveDevices:   active,
		TotalRequests:   len(requests),
		PendingRequests: pendingRequests,
		EnergyStats:     EnergyStatistics(devices),
	}
	return e.cached
}
