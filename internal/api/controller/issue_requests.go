package controller

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/listview"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/logger"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
	"github.com/Mutombe/zim-rec-sub000/internal/service/issuance"
)

type requestListResponse struct {
	Page   listview.Page[domain.IssueRequest] `json:"page"`
	Status store.Status                       `json:"status"`
}

func (c *Controller) ListRequests(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if err := c.collections.RefreshRequests(reqCtx); err != nil {
		logger.Warnf(reqCtx, "issue request list served stale: %s", err.Error())
	}

	owned := c.ownedRequests()
	applyTableParams(ctx, c.requestTable, "status", "device")

	return ctx.JSON(http.StatusOK, requestListResponse{
		Page:   c.requestTable.Apply(owned),
		Status: c.store.RequestState().Status,
	})
}

type issueRequestForm struct {
	DeviceID           int64  `json:"device" form:"device"`
	StartDate          string `json:"start_date" form:"start_date"`
	EndDate            string `json:"end_date" form:"end_date"`
	ProductionAmount   string `json:"production_amount" form:"production_amount"`
	PeriodOfProduction string `json:"period_of_production" form:"period_of_production"`
	RecipientAccount   string `json:"recipient_account" form:"recipient_account"`
	Notes              string `json:"notes" form:"notes"`
}

func (r issueRequestForm) toForm() issuance.Form {
	return issuance.Form{
		DeviceID:           r.DeviceID,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		ProductionAmount:   r.ProductionAmount,
		PeriodOfProduction: r.PeriodOfProduction,
		RecipientAccount:   r.RecipientAccount,
		Notes:              r.Notes,
	}
}

// CreateRequest accepts either a JSON body or a multipart form carrying an
// optional supporting document under the "upload" part.
func (c *Controller) CreateRequest(ctx echo.Context) error {
	var req issueRequestForm
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	form := req.toForm()
	if header, err := ctx.FormFile("upload"); err == nil {
		f, err := header.Open()
		if err != nil {
			return fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("read upload: %w", err)
		}
		form.Upload = &domain.Attachment{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		}
	}

	created, err := c.issuance.Create(ctx.Request().Context(), form)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (c *Controller) UpdateRequest(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var req issueRequestForm
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	updated, err := c.issuance.Update(ctx.Request().Context(), id, req.toForm())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

func (c *Controller) SubmitRequest(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	submitted, err := c.issuance.Submit(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, submitted)
}
