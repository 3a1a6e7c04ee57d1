package domain

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerRefWireShapes(t *testing.T) {
	t.Run("embedded object", func(t *testing.T) {
		var d Device
		require.NoError(t, sonic.Unmarshal([]byte(
			`{"id":1,"user":{"id":7,"first_name":"Tariro","last_name":"Moyo"}}`), &d))
		assert.EqualValues(t, 7, d.User.ID())
		assert.Equal(t, "Tariro Moyo", d.OwnerName())
	})

	t.Run("bare numeric id", func(t *testing.T) {
		var d Device
		require.NoError(t, sonic.Unmarshal([]byte(`{"id":1,"user":7}`), &d))
		assert.EqualValues(t, 7, d.User.ID())
		assert.Empty(t, d.OwnerName())
	})

	t.Run("numeric string id", func(t *testing.T) {
		var d Device
		require.NoError(t, sonic.Unmarshal([]byte(`{"id":1,"user":"7"}`), &d))
		assert.EqualValues(t, 7, d.User.ID())
	})

	t.Run("null and malformed degrade to zero", func(t *testing.T) {
		for _, raw := range []string{
			`{"id":1,"user":null}`,
			`{"id":1,"user":"not-a-number"}`,
			`{"id":1,"user":true}`,
		} {
			var d Device
			require.NoError(t, sonic.Unmarshal([]byte(raw), &d), raw)
			assert.True(t, d.User.IsZero(), raw)
		}
	})
}

func TestDeviceRefWireShapes(t *testing.T) {
	var r IssueRequest
	require.NoError(t, sonic.Unmarshal([]byte(
		`{"id":3,"device":{"id":12,"name":"Kariba South"},"user":5}`), &r))
	assert.EqualValues(t, 12, r.Device.ID())
	assert.Equal(t, "Kariba South", r.Device.Name())
	assert.EqualValues(t, 5, r.User.ID())

	require.NoError(t, sonic.Unmarshal([]byte(`{"id":3,"device":12}`), &r))
	assert.EqualValues(t, 12, r.Device.ID())
	assert.Empty(t, r.Device.Name())
}

func TestOwnerRefMarshalRoundTrip(t *testing.T) {
	bare, err := sonic.Marshal(OwnerRef{UserID: 9})
	require.NoError(t, err)
	assert.JSONEq(t, `9`, string(bare))

	embedded, err := sonic.Marshal(OwnerRef{User: &User{ID: 9, Email: "a@b.c"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9,"email":"a@b.c"}`, string(embedded))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, DeviceApproved.Terminal())
	assert.True(t, DeviceRejected.Terminal())
	assert.False(t, DeviceDraft.Terminal())
	assert.False(t, DevicePending.Terminal())
	assert.False(t, DeviceSubmitted.Terminal())

	assert.True(t, RequestApproved.Terminal())
	assert.True(t, RequestRejected.Terminal())
	assert.False(t, RequestResolved.Terminal())
	assert.False(t, RequestSubmitted.Terminal())
	assert.False(t, RequestDraft.Terminal())
}
