package domain

import (
	"bytes"
	"strconv"

	"github.com/bytedance/sonic"
)

type RequestStatus string

const (
	RequestDraft     RequestStatus = "draft"
	RequestSubmitted RequestStatus = "submitted"
	RequestApproved  RequestStatus = "approved"
	RequestResolved  RequestStatus = "resolved"
	RequestRejected  RequestStatus = "rejected"
)

func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// DeviceRef is the weak device reference on an issue request, with the same
// object-or-bare-id wire duality as OwnerRef.
type DeviceRef struct {
	DeviceID int64
	Device   *Device
}

func (r DeviceRef) ID() int64 {
	if r.Device != nil && r.Device.ID != 0 {
		return r.Device.ID
	}
	return r.DeviceID
}

func (r DeviceRef) Name() string {
	if r.Device == nil {
		return ""
	}
	return r.Device.Name
}

func (r *DeviceRef) UnmarshalJSON(data []byte) error {
	*r = DeviceRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '{':
		var d Device
		if err := sonic.Unmarshal(data, &d); err == nil {
			r.Device = &d
			r.DeviceID = d.ID
		}
	case '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err == nil {
			r.DeviceID, _ = strconv.ParseInt(s, 10, 64)
		}
	default:
		var id int64
		if err := sonic.Unmarshal(data, &id); err == nil {
			r.DeviceID = id
		}
	}
	return nil
}

func (r DeviceRef) MarshalJSON() ([]byte, error) {
	if r.Device != nil {
		return sonic.Marshal(r.Device)
	}
	return sonic.Marshal(r.DeviceID)
}

// IssueRequest claims that a device produced a given amount of energy in a
// period, to be converted into certificates once approved.
type IssueRequest struct {
	ID                 int64         `json:"id"`
	Device             DeviceRef     `json:"device"`
	User               OwnerRef      `json:"user"`
	StartDate          string        `json:"start_date"`
	EndDate            string        `json:"end_date"`
	ProductionAmount   string        `json:"production_amount"`
	PeriodOfProduction string        `json:"period_of_production,omitempty"`
	RecipientAccount   string        `json:"recipient_account,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	Upload             string        `json:"upload,omitempty"`
	Status             RequestStatus `json:"status"`
	Resolution         string        `json:"resolution,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty"`
}

func (r IssueRequest) Terminal() bool {
	return r.Status.Terminal()
}
