package store

import (
	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
)

func (s *store) Devices() []domain.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Device, len(s.devices))
	copy(out, s.devices)
	return out
}

func (s *store) DeviceState() CollectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceState
}

func (s *store) BeginDevicesLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceState = CollectionState{Status: StatusLoading}
}

func (s *store) LoadDevices(devices []domain.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = devices
	s.deviceState = CollectionState{Status: StatusSucceeded}
	s.deviceVersion++
}

// FailDevicesLoad records the failure without touching the collection, so a
// previously loaded view stays usable while the error is shown.
func (s *store) FailDevicesLoad(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceState = CollectionState{Status: StatusFailed, LastError: raw}
}

func (s *store) AddDevice(d domain.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = append(s.devices, d)
	s.deviceVersion++
}

// ReplaceDevice swaps the whole record for the one the registry returned.
// There is no field-level merging: the server copy is the truth.
func (s *store) ReplaceDevice(d domain.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].ID == d.ID {
			s.devices[i] = d
			s.deviceVersion++
			return nil
		}
	}
	return constants.ErrNotFound
}

func (s *store) RemoveDevice(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].ID == id {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			s.deviceVersion++
			return nil
		}
	}
	return constants.ErrNotFound
}
