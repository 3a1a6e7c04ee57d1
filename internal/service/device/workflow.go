package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/domain/dto"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/logger"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/registry"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/utils"
)

type Step int

const (
	StepGeneralInfo Step = iota
	StepTechnicalDetails
	StepLocationDetails
	StepDocuments
)

func (s Step) String() string {
	switch s {
	case StepGeneralInfo:
		return "general_info"
	case StepTechnicalDetails:
		return "technical_details"
	case StepLocationDetails:
		return "location_details"
	case StepDocuments:
		return "documents"
	}
	return "unknown"
}

type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	// PhaseCreated is the saga's recorded intermediate state: the device
	// exists upstream as a draft but the submit call has not succeeded yet.
	// Resume retries from here without creating a duplicate.
	PhaseCreated
	PhaseSubmitted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCreated:
		return "created_not_submitted"
	case PhaseSubmitted:
		return "submitted"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// fieldSteps places each wire field on the step that edits it, so upstream
// validation errors can navigate the form back to the first offending step.
var fieldSteps = map[string]Step{
	"name":                 StepGeneralInfo,
	"issuer_organisation":  StepGeneralInfo,
	"default_account_code": StepGeneralInfo,

	"device_fuel":        StepTechnicalDetails,
	"device_technology":  StepTechnicalDetails,
	"capacity":           StepTechnicalDetails,
	"commissioning_date": StepTechnicalDetails,
	"effective_date":     StepTechnicalDetails,

	"address":   StepLocationDetails,
	"country":   StepLocationDetails,
	"postcode":  StepLocationDetails,
	"latitude":  StepLocationDetails,
	"longitude": StepLocationDetails,

	"production_facility_registration": StepDocuments,
	"declaration_of_ownership":         StepDocuments,
	"metering_evidence":                StepDocuments,
	"single_line_diagram":              StepDocuments,
	"project_photos":                   StepDocuments,
}

// Decimal shape bounds per field.
const (
	capacityIntDigits  = 4
	latitudeIntDigits  = 2
	longitudeIntDigits = 3
	fractionDigits     = 6
)

// Registry is the slice of the upstream API the workflow needs.
type Registry interface {
	CreateDevice(ctx context.Context, payload dto.DevicePayload) (domain.Device, error)
	SubmitDevice(ctx context.Context, id int64) (domain.Device, error)
	TechnologyOptions(ctx context.Context, fuel domain.FuelType) ([]domain.TechnologyOption, error)
}

// Workflow is the staged device-registration form: four editing steps with
// per-step completeness gating, then a create-then-submit saga against the
// registry.
type Workflow struct {
	mu       sync.Mutex
	id       uuid.UUID
	registry Registry
	store    store.Store

	draft *dto.RegistrationDraft
	step  Step
	phase Phase

	techOptions []domain.TechnologyOption
	techPending bool

	fieldErrors map[string]string
	createdID   int64
}

func NewWorkflow(reg Registry, st store.Store) *Workflow {
	return &Workflow{
		id:       uuid.New(),
		registry: reg,
		store:    st,
		draft:    dto.NewRegistrationDraft(),
		// technology selection stays unavailable until the first fuel
		// choice resolves its option fetch
		techPending: true,
	}
}

func (w *Workflow) ID() uuid.UUID {
	return w.id
}

func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *Workflow) Draft() *dto.RegistrationDraft {
	return w.draft
}

// Next advances one step when the current step's completeness predicate
// holds.
func (w *Workflow) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if missing := w.missingFields(w.step); len(missing) > 0 {
		return &IncompleteStepError{Step: w.step, Missing: missing}
	}
	if w.step < StepDocuments {
		w.step++
	}
	return nil
}

// Back always succeeds and never touches the draft.
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepGeneralInfo {
		w.step--
	}
}

func (w *Workflow) missingFields(step Step) []string {
	var missing []string
	add := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	switch step {
	case StepGeneralInfo:
		g := w.draft.General()
		add("name", g.Name)
		add("issuer_organisation", g.IssuerOrganisation)
		add("default_account_code", g.DefaultAccountCode)
	case StepTechnicalDetails:
		t := w.draft.Technical()
		add("device_fuel", string(t.FuelType))
		add("device_technology", t.TechnologyType)
		add("capacity", t.Capacity)
		add("commissioning_date", t.CommissioningDate)
		add("effective_date", t.EffectiveDate)
	case StepLocationDetails:
		l := w.draft.Location()
		add("address", l.Address)
		add("country", l.Country)
		add("postcode", l.Postcode)
		add("latitude", l.Latitude)
		add("longitude", l.Longitude)
	case StepDocuments:
		for _, key := range w.draft.MissingDocuments() {
			missing = append(missing, string(key))
		}
	}
	return missing
}

func (w *Workflow) SetGeneral(g dto.GeneralInfo) {
	w.draft.PutGeneral(g)
}

// SetFuelType records the fuel choice and fetches its technology options.
// A fuel change invalidates a technology picked under another fuel family,
// and the technology field stays unavailable until the fetch resolves.
func (w *Workflow) SetFuelType(ctx context.Context, fuel domain.FuelType) error {
	w.mu.Lock()
	current := w.draft.Technical()
	if current.FuelType == fuel && !w.techPending {
		w.mu.Unlock()
		return nil
	}
	current.FuelType = fuel
	current.TechnologyType = ""
	w.draft.PutTechnical(current)
	w.techPending = true
	w.techOptions = nil
	w.mu.Unlock()

	options, err := w.registry.TechnologyOptions(ctx, fuel)
	if err != nil {
		return fmt.Errorf("technology options: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// a later fuel change may have raced this fetch
	if w.draft.Technical().FuelType != fuel {
		return nil
	}
	w.techOptions = options
	w.techPending = false
	return nil
}

func (w *Workflow) TechnologyOptions() (options []domain.TechnologyOption, available bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.techOptions, !w.techPending
}

// SetTechnical merges the technical step. Invalid fields are rejected one by
// one: everything valid is written, the prior value of each invalid field is
// retained, and the rejects come back as a ValidationError.
func (w *Workflow) SetTechnical(t dto.TechnicalDetails) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	bad := make(map[string]string)
	prior := w.draft.Technical()
	t.FuelType = prior.FuelType // fuel changes go through SetFuelType

	if t.Capacity != "" && !utils.ValidDecimalShape(t.Capacity, capacityIntDigits, fractionDigits) {
		bad["capacity"] = fmt.Sprintf("capacity must be a decimal with at most %d integer and %d fractional digits",
			capacityIntDigits, fractionDigits)
		t.Capacity = prior.Capacity
	}
	if t.TechnologyType != "" {
		if w.techPending {
			bad["device_technology"] = "technology options are still loading, pick a fuel type first"
			t.TechnologyType = prior.TechnologyType
		} else if !w.knownTechnology(t.TechnologyType) {
			bad["device_technology"] = "technology does not belong to the selected fuel type"
			t.TechnologyType = prior.TechnologyType
		}
	}

	w.draft.PutTechnical(t)
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

func (w *Workflow) knownTechnology(code string) bool {
	for _, opt := range w.techOptions {
		if opt.Code == code {
			return true
		}
	}
	return false
}

// SetLocation merges the location step under the shared decimal-shape rule
// for latitude and longitude.
func (w *Workflow) SetLocation(l dto.LocationDetails) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	bad := make(map[string]string)
	prior := w.draft.Location()

	if l.Latitude != "" && !utils.ValidDecimalShape(l.Latitude, latitudeIntDigits, fractionDigits) {
		bad["latitude"] = "latitude must be a decimal with at most 2 integer and 6 fractional digits"
		l.Latitude = prior.Latitude
	}
	if l.Longitude != "" && !utils.ValidDecimalShape(l.Longitude, longitudeIntDigits, fractionDigits) {
		bad["longitude"] = "longitude must be a decimal with at most 3 integer and 6 fractional digits"
		l.Longitude = prior.Longitude
	}

	w.draft.PutLocation(l)
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

func (w *Workflow) AttachDocument(key dto.DocumentKey, att *domain.Attachment) error {
	if key.WireField() == "" {
		return fmt.Errorf("unknown document key %q", key)
	}
	w.draft.PutDocument(key, att)
	return nil
}

func (w *Workflow) FieldErrors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]string, len(w.fieldErrors))
	for k, v := range w.fieldErrors {
		out[k] = v
	}
	return out
}

// Submit runs the two-phase exchange: create the device, then transition it
// to submitted. The document check up front is authoritative even when a
// caller bypassed step gating: when it fails the workflow jumps to the
// Documents step and no network call is issued.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	switch w.phase {
	case PhaseSubmitting:
		w.mu.Unlock()
		return errors.New("submission already in progress")
	case PhaseSubmitted:
		w.mu.Unlock()
		return errors.New("device already submitted")
	case PhaseCreated:
		w.mu.Unlock()
		return w.Resume(ctx)
	}

	if missing := w.draft.MissingDocuments(); len(missing) > 0 {
		w.step = StepDocuments
		w.mu.Unlock()
		return &MissingDocumentsError{Keys: missing}
	}
	for step := StepGeneralInfo; step <= StepLocationDetails; step++ {
		if missing := w.missingFields(step); len(missing) > 0 {
			w.step = step
			w.mu.Unlock()
			return &IncompleteStepError{Step: step, Missing: missing}
		}
	}

	w.phase = PhaseSubmitting
	w.fieldErrors = nil
	snapshot := w.draft.Snapshot()
	w.mu.Unlock()

	payload, err := dto.BuildDevicePayload(snapshot)
	if err != nil {
		w.fail(nil)
		return fmt.Errorf("build payload: %w", err)
	}

	created, err := w.registry.CreateDevice(ctx, payload)
	if err != nil {
		w.fail(err)
		return fmt.Errorf("create device: %w", err)
	}

	w.mu.Lock()
	w.phase = PhaseCreated
	w.createdID = created.ID
	w.mu.Unlock()
	w.store.AddDevice(created)

	return w.submitCreated(ctx)
}

// Resume is the idempotent retry entry point for the created-but-unsubmitted
// gap: it skips the create when one already happened.
func (w *Workflow) Resume(ctx context.Context) error {
	w.mu.Lock()
	switch w.phase {
	case PhaseSubmitted:
		w.mu.Unlock()
		return nil
	case PhaseSubmitting:
		w.mu.Unlock()
		return errors.New("submission already in progress")
	}
	created := w.createdID
	w.mu.Unlock()

	if created == 0 {
		return w.Submit(ctx)
	}
	return w.submitCreated(ctx)
}

func (w *Workflow) submitCreated(ctx context.Context) error {
	w.mu.Lock()
	id := w.createdID
	w.mu.Unlock()

	submitted, err := w.registry.SubmitDevice(ctx, id)
	if err != nil {
		// the created draft stays recoverable: phase remains PhaseCreated
		// and the caller retries via Resume
		w.mu.Lock()
		w.phase = PhaseCreated
		w.mu.Unlock()
		w.recordFieldErrors(err)
		return fmt.Errorf("submit device %d (draft kept, retry with resume): %w", id, err)
	}

	w.mu.Lock()
	w.phase = PhaseSubmitted
	w.mu.Unlock()
	if err := w.store.ReplaceDevice(submitted); err != nil {
		logger.Warnf(ctx, "submitted device %d missing from store: %s", submitted.ID, err.Error())
		w.store.AddDevice(submitted)
	}
	return nil
}

func (w *Workflow) fail(err error) {
	w.mu.Lock()
	w.phase = PhaseFailed
	w.mu.Unlock()
	if err != nil {
		w.recordFieldErrors(err)
	}
}

// recordFieldErrors maps upstream field-keyed validation errors onto the
// originating steps and navigates to the first one.
func (w *Workflow) recordFieldErrors(err error) {
	var apiErr *registry.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.fieldErrors = make(map[string]string, len(apiErr.Fields))
	first := StepDocuments + 1
	for field, messages := range apiErr.Fields {
		msg := ""
		if len(messages) > 0 {
			msg = messages[0]
		}
		w.fieldErrors[field] = msg
		if step, ok := fieldSteps[field]; ok && step < first {
			first = step
		}
	}
	if first <= StepDocuments {
		w.step = first
		w.phase = PhaseEditing
		if w.createdID != 0 {
			w.phase = PhaseCreated
		}
	}
}
