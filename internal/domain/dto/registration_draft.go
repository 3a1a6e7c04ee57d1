package dto

import (
	"sync"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

type DocumentKey string

// Internal document keys. The wire field names the registry expects differ
// from these; see documentWireFields. That table is part of the backend
// contract and must be reproduced exactly.
const (
	DocRegistrationForm     DocumentKey = "sf02"
	DocOwnershipDeclaration DocumentKey = "sf02b"
	DocMeteringEvidence     DocumentKey = "sf02c"
	DocSingleLineDiagram    DocumentKey = "sld"
	DocProjectPhotos        DocumentKey = "photos"
)

var RequiredDocuments = []DocumentKey{
	DocRegistrationForm,
	DocOwnershipDeclaration,
	DocMeteringEvidence,
	DocSingleLineDiagram,
	DocProjectPhotos,
}

var documentLabels = map[DocumentKey]string{
	DocRegistrationForm:     "Registration form (SF-02)",
	DocOwnershipDeclaration: "Declaration of ownership",
	DocMeteringEvidence:     "Metering evidence",
	DocSingleLineDiagram:    "Single line diagram",
	DocProjectPhotos:        "Project photos",
}

var documentWireFields = map[DocumentKey]string{
	DocRegistrationForm:     "production_facility_registration",
	DocOwnershipDeclaration: "declaration_of_ownership",
	DocMeteringEvidence:     "metering_evidence",
	DocSingleLineDiagram:    "single_line_diagram",
	DocProjectPhotos:        "project_photos",
}

func (k DocumentKey) Label() string {
	return documentLabels[k]
}

func (k DocumentKey) WireField() string {
	return documentWireFields[k]
}

type GeneralInfo struct {
	Name               string
	IssuerOrganisation string
	DefaultAccountCode string
}

func (g GeneralInfo) Complete() bool {
	return g.Name != "" && g.IssuerOrganisation != "" && g.DefaultAccountCode != ""
}

type TechnicalDetails struct {
	FuelType          domain.FuelType
	TechnologyType    string
	Capacity          string
	CommissioningDate string
	EffectiveDate     string
}

func (t TechnicalDetails) Complete() bool {
	return t.FuelType != "" && t.TechnologyType != "" && t.Capacity != "" &&
		t.CommissioningDate != "" && t.EffectiveDate != ""
}

type LocationDetails struct {
	Address   string
	Country   string
	Postcode  string
	Latitude  string
	Longitude string
}

func (l LocationDetails) Complete() bool {
	return l.Address != "" && l.Country != "" && l.Postcode != "" &&
		l.Latitude != "" && l.Longitude != ""
}

// RegistrationDraft accumulates the staged device form. Setters merge into
// the draft and never discard previously entered data, so backward navigation
// is lossless.
type RegistrationDraft struct {
	mu        sync.Mutex
	general   GeneralInfo
	technical TechnicalDetails
	location  LocationDetails
	documents map[DocumentKey]*domain.Attachment
}

func NewRegistrationDraft() *RegistrationDraft {
	return &RegistrationDraft{documents: make(map[DocumentKey]*domain.Attachment)}
}

func (d *RegistrationDraft) PutGeneral(g GeneralInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.general = g
}

func (d *RegistrationDraft) General() GeneralInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.general
}

func (d *RegistrationDraft) PutTechnical(t TechnicalDetails) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.technical = t
}

func (d *RegistrationDraft) Technical() TechnicalDetails {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.technical
}

func (d *RegistrationDraft) PutLocation(l LocationDetails) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.location = l
}

func (d *RegistrationDraft) Location() LocationDetails {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.location
}

func (d *RegistrationDraft) PutDocument(key DocumentKey, att *domain.Attachment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.documents[key] = att
}

func (d *RegistrationDraft) Document(key DocumentKey) *domain.Attachment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.documents[key]
}

// MissingDocuments returns the required documents not yet attached, in the
// fixed display order.
func (d *RegistrationDraft) MissingDocuments() []DocumentKey {
	d.mu.Lock()
	defer d.mu.Unlock()

	var missing []DocumentKey
	for _, key := range RequiredDocuments {
		if d.documents[key] == nil {
			missing = append(missing, key)
		}
	}
	return missing
}

// DraftSnapshot is an immutable copy of the draft used to build the wire
// payload.
type DraftSnapshot struct {
	General   GeneralInfo
	Technical TechnicalDetails
	Location  LocationDetails
	Documents map[DocumentKey]*domain.Attachment
}

func (d *RegistrationDraft) Snapshot() DraftSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	docs := make(map[DocumentKey]*domain.Attachment, len(d.documents))
	for k, v := range d.documents {
		docs[k] = v
	}
	return DraftSnapshot{
		General:   d.general,
		Technical: d.technical,
		Location:  d.location,
		Documents: docs,
	}
}
