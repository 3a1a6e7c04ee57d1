package device

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
)

type fakeServiceRegistry struct {
	fakeRegistry
	updateCalls int
	deleteCalls int
}

func (f *fakeServiceRegistry) UpdateDevice(_ context.Context, id int64, fields map[string]interface{}) (domain.Device, error) {
	f.updateCalls++
	d := domain.Device{ID: id}
	if status, ok := fields["status"].(string); ok {
		d.Status = domain.DeviceStatus(status)
	}
	if reason, ok := fields["rejection_reason"].(string); ok {
		d.RejectionReason = reason
	}
	if name, ok := fields["name"].(string); ok {
		d.Name = name
	}
	return d, nil
}

func (f *fakeServiceRegistry) DeleteDevice(_ context.Context, _ int64) error {
	f.deleteCalls++
	return nil
}

func TestRegistrationLookup(t *testing.T) {
	s := NewService(&fakeServiceRegistry{}, store.NewStore())

	w := s.NewRegistration()
	found, err := s.Registration(w.ID())
	require.NoError(t, err)
	assert.Same(t, w, found)

	_, err = s.Registration(uuid.New())
	assert.ErrorIs(t, err, constants.ErrNotFound)
}

func TestUpdateRefusesTerminalRecords(t *testing.T) {
	reg := &fakeServiceRegistry{}
	st := store.NewStore()
	st.LoadDevices([]domain.Device{
		{ID: 1, Status: domain.DeviceApproved},
		{ID: 2, Status: domain.DeviceDraft},
	})
	s := NewService(reg, st)
	ctx := context.Background()

	_, err := s.Update(ctx, 1, map[string]interface{}{"name": "renamed"})
	assert.ErrorIs(t, err, constants.ErrTerminalRecord)
	assert.Zero(t, reg.updateCalls, "no upstream call for a terminal record")

	updated, err := s.Update(ctx, 2, map[string]interface{}{"name": "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "renamed", st.Devices()[1].Name)
}

func TestDeleteRefusesTerminalRecords(t *testing.T) {
	reg := &fakeServiceRegistry{}
	st := store.NewStore()
	st.LoadDevices([]domain.Device{
		{ID: 1, Status: domain.DeviceRejected},
		{ID: 2, Status: domain.DevicePending},
	})
	s := NewService(reg, st)
	ctx := context.Background()

	assert.ErrorIs(t, s.Delete(ctx, 1), constants.ErrTerminalRecord)
	assert.Zero(t, reg.deleteCalls)

	require.NoError(t, s.Delete(ctx, 2))
	assert.Equal(t, 1, reg.deleteCalls)
	require.Len(t, st.Devices(), 1)

	assert.ErrorIs(t, s.Delete(ctx, 99), constants.ErrNotFound)
}

func TestReviewActions(t *testing.T) {
	reg := &fakeServiceRegistry{}
	st := store.NewStore()
	st.LoadDevices([]domain.Device{{ID: 1, Status: domain.DeviceSubmitted}})
	s := NewService(reg, st)
	ctx := context.Background()

	approved, err := s.Approve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceApproved, approved.Status)

	// approval is terminal, rejection afterwards is refused
	_, err = s.Reject(ctx, 1, "late paperwork")
	assert.ErrorIs(t, err, constants.ErrTerminalRecord)
}

func TestRejectCarriesReason(t *testing.T) {
	reg := &fakeServiceRegistry{}
	st := store.NewStore()
	st.LoadDevices([]domain.Device{{ID: 1, Status: domain.DeviceSubmitted}})
	s := NewService(reg, st)

	rejected, err := s.Reject(context.Background(), 1, "incomplete metering evidence")
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceRejected, rejected.Status)
	assert.Equal(t, "incomplete metering evidence", rejected.RejectionReason)
}
