package dto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FilePart is one multipart file field of a create request.
type FilePart struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// DevicePayload is the flat transfer form the registry expects on device
// creation: scalar fields plus the attachments under their wire field names.
type DevicePayload struct {
	Fields map[string]string
	Files  []FilePart
}

// BuildDevicePayload flattens a draft snapshot into the transfer payload.
// Latitude and longitude are fixed to six decimal places on the wire.
func BuildDevicePayload(s DraftSnapshot) (DevicePayload, error) {
	lat, err := decimal.NewFromString(s.Location.Latitude)
	if err != nil {
		return DevicePayload{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := decimal.NewFromString(s.Location.Longitude)
	if err != nil {
		return DevicePayload{}, fmt.Errorf("parse longitude: %w", err)
	}

	p := DevicePayload{Fields: map[string]string{
		"name":                 s.General.Name,
		"issuer_organisation":  s.General.IssuerOrganisation,
		"default_account_code": s.General.DefaultAccountCode,
		"device_fuel":          string(s.Technical.FuelType),
		"device_technology":    s.Technical.TechnologyType,
		"capacity":             s.Technical.Capacity,
		"commissioning_date":   s.Technical.CommissioningDate,
		"effective_date":       s.Technical.EffectiveDate,
		"address":              s.Location.Address,
		"country":              s.Location.Country,
		"postcode":             s.Location.Postcode,
		"latitude":             lat.StringFixed(6),
		"longitude":            lon.StringFixed(6),
	}}

	for _, key := range RequiredDocuments {
		att := s.Documents[key]
		if att == nil {
			continue
		}
		p.Files = append(p.Files, FilePart{
			Field:       key.WireField(),
			Name:        att.Name,
			ContentType: att.ContentType,
			Content:     att.Content,
		})
	}
	return p, nil
}
