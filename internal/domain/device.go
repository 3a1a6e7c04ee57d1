package domain

type FuelType string

const (
	FuelSolar  FuelType = "ES100"
	FuelWind   FuelType = "ES200"
	FuelHydro  FuelType = "ES300"
	FuelMarine FuelType = "ES400"
	FuelBio    FuelType = "ES500"
)

var FuelTypes = []FuelType{FuelSolar, FuelWind, FuelHydro, FuelMarine, FuelBio}

type DeviceStatus string

const (
	DeviceDraft     DeviceStatus = "Draft"
	DevicePending   DeviceStatus = "Pending"
	DeviceSubmitted DeviceStatus = "submitted"
	DeviceApproved  DeviceStatus = "Approved"
	DeviceRejected  DeviceStatus = "Rejected"
)

// Terminal statuses are immutable: approved and rejected records refuse
// update, delete and re-submit both here and upstream.
func (s DeviceStatus) Terminal() bool {
	return s == DeviceApproved || s == DeviceRejected
}

// Attachment is an uploaded supporting document. Content is held in memory
// only while a submission is in flight and never serialised back out.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Content     []byte `json:"-"`
}

// Device is a renewable-energy production facility registered for
// certification. Decimal-valued fields stay strings end to end: the registry
// serialises them as strings and shape validation happens on input.
type Device struct {
	ID                 int64        `json:"id"`
	User               OwnerRef     `json:"user"`
	Name               string       `json:"name"`
	IssuerOrganisation string       `json:"issuer_organisation"`
	DefaultAccountCode string       `json:"default_account_code"`
	Address            string       `json:"address"`
	Country            string       `json:"country"`
	Postcode           string       `json:"postcode"`
	Latitude           string       `json:"latitude"`
	Longitude          string       `json:"longitude"`
	FuelType           FuelType     `json:"device_fuel"`
	TechnologyType     string       `json:"device_technology"`
	Capacity           string       `json:"capacity"`
	CommissioningDate  string       `json:"commissioning_date"`
	EffectiveDate      string       `json:"effective_date"`
	Status             DeviceStatus `json:"status"`
	RejectionReason    string       `json:"rejection_reason,omitempty"`
}

func (d Device) Terminal() bool {
	return d.Status.Terminal()
}

func (d Device) OwnerName() string {
	if d.User.User == nil {
		return ""
	}
	return d.User.User.FullName()
}
