package listview

import (
	"strconv"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

// DeviceView is the table definition every device screen shares: free-text
// search over name, fuel, technology and owner name.
func DeviceView() *View[domain.Device] {
	return NewView[domain.Device]().
		Field("name", func(d domain.Device) (string, bool) {
			return d.Name, d.Name != ""
		}, true).
		Field("device_fuel", func(d domain.Device) (string, bool) {
			return string(d.FuelType), d.FuelType != ""
		}, true).
		Field("device_technology", func(d domain.Device) (string, bool) {
			return d.TechnologyType, d.TechnologyType != ""
		}, true).
		Field("owner", func(d domain.Device) (string, bool) {
			name := d.OwnerName()
			return name, name != ""
		}, true).
		Field("status", func(d domain.Device) (string, bool) {
			return string(d.Status), d.Status != ""
		}, false).
		Field("capacity", func(d domain.Device) (string, bool) {
			return d.Capacity, d.Capacity != ""
		}, false).
		Field("country", func(d domain.Device) (string, bool) {
			return d.Country, d.Country != ""
		}, false)
}

// RequestView searches over id, device name and production amount.
func RequestView() *View[domain.IssueRequest] {
	return NewView[domain.IssueRequest]().
		Field("id", func(r domain.IssueRequest) (string, bool) {
			return strconv.FormatInt(r.ID, 10), r.ID != 0
		}, true).
		Field("device", func(r domain.IssueRequest) (string, bool) {
			name := r.Device.Name()
			return name, name != ""
		}, true).
		Field("production_amount", func(r domain.IssueRequest) (string, bool) {
			return r.ProductionAmount, r.ProductionAmount != ""
		}, true).
		Field("status", func(r domain.IssueRequest) (string, bool) {
			return string(r.Status), r.Status != ""
		}, false).
		Field("start_date", func(r domain.IssueRequest) (string, bool) {
			return r.StartDate, r.StartDate != ""
		}, false)
}
