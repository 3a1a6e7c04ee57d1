package controller

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/domain/dto"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
	"github.com/Mutombe/zim-rec-sub000/internal/service/device"
)

type registrationState struct {
	ID                  string                    `json:"id"`
	Step                string                    `json:"step"`
	Phase               string                    `json:"phase"`
	TechnologyAvailable bool                      `json:"technology_available"`
	TechnologyOptions   []domain.TechnologyOption `json:"technology_options"`
	FieldErrors         map[string]string         `json:"field_errors,omitempty"`
	MissingDocuments    []string                  `json:"missing_documents,omitempty"`
}

func newRegistrationState(w *device.Workflow) registrationState {
	options, available := w.TechnologyOptions()

	var missing []string
	for _, key := range w.Draft().MissingDocuments() {
		missing = append(missing, key.Label())
	}

	return registrationState{
		ID:                  w.ID().String(),
		Step:                w.Step().String(),
		Phase:               w.Phase().String(),
		TechnologyAvailable: available,
		TechnologyOptions:   options,
		FieldErrors:         w.FieldErrors(),
		MissingDocuments:    missing,
	}
}

func (c *Controller) StartRegistration(ctx echo.Context) error {
	w := c.devices.NewRegistration()
	return ctx.JSON(http.StatusCreated, newRegistrationState(w))
}

func (c *Controller) workflow(ctx echo.Context) (*device.Workflow, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return nil, constants.NewCodedError(http.StatusBadRequest, "invalid registration id")
	}
	return c.devices.Registration(id)
}

func (c *Controller) RegistrationState(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

type generalInfoRequest struct {
	Name               string `json:"name"`
	IssuerOrganisation string `json:"issuer_organisation"`
	DefaultAccountCode string `json:"default_account_code"`
}

func (c *Controller) PutGeneralInfo(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}

	var req generalInfoRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	w.SetGeneral(dto.GeneralInfo{
		Name:               req.Name,
		IssuerOrganisation: req.IssuerOrganisation,
		DefaultAccountCode: req.DefaultAccountCode,
	})
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

type fuelTypeRequest struct {
	FuelType string `json:"device_fuel" validate:"required"`
}

func (c *Controller) PutFuelType(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}

	var req fuelTypeRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if err := w.SetFuelType(ctx.Request().Context(), domain.FuelType(req.FuelType)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

type technicalDetailsRequest struct {
	TechnologyType    string `json:"device_technology"`
	Capacity          string `json:"capacity"`
	CommissioningDate string `json:"commissioning_date"`
	EffectiveDate     string `json:"effective_date"`
}

func (c *Controller) PutTechnicalDetails(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}

	var req technicalDetailsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := w.SetTechnical(dto.TechnicalDetails{
		TechnologyType:    req.TechnologyType,
		Capacity:          req.Capacity,
		CommissioningDate: req.CommissioningDate,
		EffectiveDate:     req.EffectiveDate,
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

type locationDetailsRequest struct {
	Address   string `json:"address"`
	Country   string `json:"country"`
	Postcode  string `json:"postcode"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

func (c *Controller) PutLocationDetails(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}

	var req locationDetailsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := w.SetLocation(dto.LocationDetails{
		Address:   req.Address,
		Country:   req.Country,
		Postcode:  req.Postcode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

func (c *Controller) AttachDocument(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}

	key := dto.DocumentKey(ctx.Param("key"))
	header, err := ctx.FormFile("file")
	if err != nil {
		return constants.NewCodedError(http.StatusBadRequest, "file part is required")
	}

	f, err := header.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	att := &domain.Attachment{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	if err := w.AttachDocument(key, att); err != nil {
		return constants.NewCodedError(http.StatusBadRequest, err.Error())
	}
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

func (c *Controller) NextStep(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}
	if err := w.Next(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

func (c *Controller) PreviousStep(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}
	w.Back()
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

func (c *Controller) SubmitRegistration(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}
	if err := w.Submit(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}

func (c *Controller) ResumeRegistration(ctx echo.Context) error {
	w, err := c.workflow(ctx)
	if err != nil {
		return err
	}
	if err := w.Resume(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newRegistrationState(w))
}
