package store

import (
	"sync"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

// Status is the per-collection fetch state driving loading indicators.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Pending predicates per collection. The registry's canonical status casing
// is inconsistent between devices ("Pending") and requests ("submitted"), so
// each collection carries its own predicate rather than a shared string
// comparison. Correcting the contract is a one-line change here.
var (
	DevicePending = func(d domain.Device) bool {
		return d.Status == domain.DevicePending || d.Status == domain.DeviceSubmitted
	}
	RequestPending = func(r domain.IssueRequest) bool {
		return r.Status == domain.RequestSubmitted
	}
)

// CollectionState is the fetch status plus the raw error payload of the last
// failed load. The error body is backend-defined and kept opaque.
type CollectionState struct {
	Status    Status
	LastError []byte
}

// Store holds the two entity collections mirrored from the registry. All
// mutation goes through these operations; a load replaces the whole
// collection and a failed load keeps the previous contents
// (stale-but-available).
type Store interface {
	Devices() []domain.Device
	Requests() []domain.IssueRequest
	DeviceState() CollectionState
	RequestState() CollectionState
	// Versions is a cheap change fingerprint for memoised derivations; it
	// advances on every content mutation of the respective collection.
	Versions() (devices, requests uint64)

	BeginDevicesLoad()
	LoadDevices(devices []domain.Device)
	FailDevicesLoad(raw []byte)
	AddDevice(d domain.Device)
	ReplaceDevice(d domain.Device) error
	RemoveDevice(id int64) error

	BeginRequestsLoad()
	LoadRequests(requests []domain.IssueRequest)
	FailRequestsLoad(raw []byte)
	AddRequest(r domain.IssueRequest)
	ReplaceRequest(r domain.IssueRequest) error
	RemoveRequest(id int64) error
}

type store struct {
	mu sync.RWMutex

	devices        []domain.Device
	deviceState    CollectionState
	deviceVersion  uint64
	requests       []domain.IssueRequest
	requestState   CollectionState
	requestVersion uint64
}

func NewStore() Store {
	return &store{
		deviceState:  CollectionState{Status: StatusIdle},
		requestState: CollectionState{Status: StatusIdle},
	}
}

func (s *store) Versions() (uint64, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceVersion, s.requestVersion
}
