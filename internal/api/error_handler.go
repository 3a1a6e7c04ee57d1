package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/registry"
	"github.com/Mutombe/zim-rec-sub000/internal/service/device"
	"github.com/Mutombe/zim-rec-sub000/internal/service/issuance"
)

type errorBody struct {
	domain.ErrorResponse
	Fields           map[string]string `json:"fields,omitempty"`
	MissingFields    []string          `json:"missing_fields,omitempty"`
	MissingDocuments []string          `json:"missing_documents,omitempty"`
	Step             string            `json:"step,omitempty"`
}

// httpErrorHandler turns every workflow error into user-visible feedback:
// field maps for validation errors, the blocking step for gating errors, and
// the plain message otherwise. Nothing propagates as an uncaught failure.
func httpErrorHandler(err error, c echo.Context) {
	body := errorBody{ErrorResponse: domain.ErrorResponse{
		Message: err.Error(),
		Code:    http.StatusInternalServerError,
	}}

	var (
		deviceVal   *device.ValidationError
		issuanceVal *issuance.ValidationError
		incomplete  *device.IncompleteStepError
		missingDocs *device.MissingDocumentsError
		apiErr      *registry.APIError
		httpErr     *echo.HTTPError
	)

	switch {
	case errors.As(err, &deviceVal):
		body.Code = http.StatusBadRequest
		body.Fields = deviceVal.Fields
	case errors.As(err, &issuanceVal):
		body.Code = http.StatusBadRequest
		body.Fields = issuanceVal.Fields
	case errors.As(err, &incomplete):
		body.Code = http.StatusBadRequest
		body.MissingFields = incomplete.Missing
		body.Step = incomplete.Step.String()
	case errors.As(err, &missingDocs):
		body.Code = http.StatusBadRequest
		body.MissingDocuments = missingDocs.Labels()
		body.Step = device.StepDocuments.String()
	case errors.As(err, &apiErr):
		body.Code = apiErr.Status
		if len(apiErr.Fields) > 0 {
			body.Fields = make(map[string]string, len(apiErr.Fields))
			for f, msgs := range apiErr.Fields {
				if len(msgs) > 0 {
					body.Fields[f] = msgs[0]
				}
			}
		}
	case errors.As(err, &httpErr):
		body.Code = httpErr.Code
	default:
		for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
			if ce, ok := unwrapped.(*constants.CodedError); ok {
				body.Code = ce.Code()
				break
			}
		}
	}

	_ = c.JSON(body.Code, body)
}
