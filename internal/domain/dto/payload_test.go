package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

func completeSnapshot() DraftSnapshot {
	docs := make(map[DocumentKey]*domain.Attachment)
	for _, key := range RequiredDocuments {
		docs[key] = &domain.Attachment{
			Name:        string(key) + ".pdf",
			ContentType: "application/pdf",
			Content:     []byte(key),
		}
	}
	return DraftSnapshot{
		General: GeneralInfo{
			Name:               "Nyangani Hydro I",
			IssuerOrganisation: "ZERA",
			DefaultAccountCode: "ZW-0001",
		},
		Technical: TechnicalDetails{
			FuelType:          domain.FuelHydro,
			TechnologyType:    "TC140",
			Capacity:          "2.75",
			CommissioningDate: "2019-04-01",
			EffectiveDate:     "2024-01-01",
		},
		Location: LocationDetails{
			Address:   "Nyangani Range",
			Country:   "Zimbabwe",
			Postcode:  "00263",
			Latitude:  "-18.3",
			Longitude: "32.84",
		},
		Documents: docs,
	}
}

func TestBuildDevicePayloadFields(t *testing.T) {
	p, err := BuildDevicePayload(completeSnapshot())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"name":                 "Nyangani Hydro I",
		"issuer_organisation":  "ZERA",
		"default_account_code": "ZW-0001",
		"device_fuel":          "ES300",
		"device_technology":    "TC140",
		"capacity":             "2.75",
		"commissioning_date":   "2019-04-01",
		"effective_date":       "2024-01-01",
		"address":              "Nyangani Range",
		"country":              "Zimbabwe",
		"postcode":             "00263",
		"latitude":             "-18.300000",
		"longitude":            "32.840000",
	}, p.Fields)
}

func TestBuildDevicePayloadDocumentWireNames(t *testing.T) {
	p, err := BuildDevicePayload(completeSnapshot())
	require.NoError(t, err)

	var fields []string
	for _, f := range p.Files {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{
		"production_facility_registration",
		"declaration_of_ownership",
		"metering_evidence",
		"single_line_diagram",
		"project_photos",
	}, fields)
}

func TestBuildDevicePayloadBadCoordinates(t *testing.T) {
	s := completeSnapshot()
	s.Location.Latitude = "north-ish"
	_, err := BuildDevicePayload(s)
	assert.Error(t, err)
}

func TestMissingDocumentsOrder(t *testing.T) {
	d := NewRegistrationDraft()
	assert.Equal(t, RequiredDocuments, d.MissingDocuments())

	d.PutDocument(DocMeteringEvidence, &domain.Attachment{Name: "sf02c.pdf"})
	assert.Equal(t, []DocumentKey{
		DocRegistrationForm,
		DocOwnershipDeclaration,
		DocSingleLineDiagram,
		DocProjectPhotos,
	}, d.MissingDocuments())
}

func TestDocumentKeyTables(t *testing.T) {
	for _, key := range RequiredDocuments {
		assert.NotEmpty(t, key.Label(), key)
		assert.NotEmpty(t, key.WireField(), key)
	}
	assert.Empty(t, DocumentKey("bogus").WireField())
}
