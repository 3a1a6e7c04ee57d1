package derive

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

func TestDevicesOwnedByResolvesBothWireShapes(t *testing.T) {
	alice := &domain.User{ID: 7}

	var embedded, bare, other, malformed domain.Device
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":1,"user":{"id":7}}`), &embedded))
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":2,"user":7}`), &bare))
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":3,"user":8}`), &other))
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":4,"user":"garbage"}`), &malformed))

	owned := DevicesOwnedBy([]domain.Device{embedded, bare, other, malformed}, alice)
	require.Len(t, owned, 2)
	assert.EqualValues(t, 1, owned[0].ID)
	assert.EqualValues(t, 2, owned[1].ID)

	assert.Nil(t, DevicesOwnedBy([]domain.Device{embedded}, nil))
}

func TestRequestsOwnedBy(t *testing.T) {
	alice := &domain.User{ID: 7}
	requests := []domain.IssueRequest{
		{ID: 1, User: domain.OwnerRef{UserID: 7}},
		{ID: 2, User: domain.OwnerRef{UserID: 8}},
		{ID: 3}, // no resolvable owner
	}

	owned := RequestsOwnedBy(requests, alice)
	require.Len(t, owned, 1)
	assert.EqualValues(t, 1, owned[0].ID)
}

func TestAdminViewGating(t *testing.T) {
	devices := []domain.Device{{ID: 1}, {ID: 2}}

	assert.Len(t, AdminView(devices, &domain.User{ID: 1, IsAdmin: true}), 2)
	assert.Nil(t, AdminView(devices, &domain.User{ID: 1}))
	assert.Nil(t, AdminView(devices, nil))
}

func TestEnergyStatisticsNeverPanics(t *testing.T) {
	devices := []domain.Device{
		{FuelType: domain.FuelSolar, Capacity: "10"},
		{FuelType: domain.FuelWind, Capacity: "5"},
		{FuelType: domain.FuelSolar, Capacity: "not-a-number"},
		{FuelType: "", Capacity: "3"},
		{FuelType: domain.FuelWind, Capacity: ""},
	}

	stats := EnergyStatistics(devices)
	require.Len(t, stats, 2)
	assert.True(t, stats[domain.FuelSolar].Equal(decimal.NewFromInt(10)))
	assert.True(t, stats[domain.FuelWind].Equal(decimal.NewFromInt(5)))
}

func TestPendingCounts(t *testing.T) {
	devices := []domain.Device{
		{Status: domain.DevicePending},
		{Status: domain.DeviceSubmitted},
		{Status: domain.DeviceApproved},
		{Status: domain.DeviceDraft},
	}
	requests := []domain.IssueRequest{
		{Status: domain.RequestSubmitted},
		{Status: domain.RequestDraft},
		{Status: domain.RequestApproved},
	}

	pendingDevices, pendingRequests := PendingCounts(devices, requests)
	assert.Equal(t, 2, pendingDevices)
	assert.Equal(t, 1, pendingRequests)
}

func TestDashboardScenario(t *testing.T) {
	devices := []domain.Device{
		{ID: 1, Status: domain.DeviceApproved, FuelType: domain.FuelSolar, Capacity: "10"},
		{ID: 2, Status: domain.DeviceSubmitted, FuelType: domain.FuelWind, Capacity: "5"},
	}

	pendingDevices, _ := PendingCounts(devices, nil)
	assert.Equal(t, 1, pendingDevices)

	stats := EnergyStatistics(devices)
	assert.Equal(t, "10", stats[domain.FuelSolar].String())
	assert.Equal(t, "5", stats[domain.FuelWind].String())
}
