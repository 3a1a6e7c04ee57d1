package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mutombe/zim-rec-sub000/internal/pkg/logger"
	"github.com/Mutombe/zim-rec-sub000/internal/service/derive"
)

// Admin list endpoints see every record regardless of ownership. They carry
// their own table state so an admin's sort does not disturb the user views.

func (c *Controller) AdminListDevices(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if err := c.collections.RefreshDevices(reqCtx); err != nil {
		logger.Warnf(reqCtx, "admin device list served stale: %s", err.Error())
	}

	all := derive.AdminView(c.store.Devices(), c.session.User())
	applyTableParams(ctx, c.adminDeviceTable, "status", "device_fuel", "country")

	return ctx.JSON(http.StatusOK, deviceListResponse{
		Page:   c.adminDeviceTable.Apply(all),
		Status: c.store.DeviceState().Status,
	})
}

func (c *Controller) AdminListRequests(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if err := c.collections.RefreshRequests(reqCtx); err != nil {
		logger.Warnf(reqCtx, "admin issue request list served stale: %s", err.Error())
	}

	all := derive.AdminView(c.store.Requests(), c.session.User())
	applyTableParams(ctx, c.adminRequestTable, "status", "device")

	return ctx.JSON(http.StatusOK, requestListResponse{
		Page:   c.adminRequestTable.Apply(all),
		Status: c.store.RequestState().Status,
	})
}

func (c *Controller) ApproveDevice(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	approved, err := c.devices.Approve(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, approved)
}

type rejectionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (c *Controller) RejectDevice(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var req rejectionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	rejected, err := c.devices.Reject(ctx.Request().Context(), id, req.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rejected)
}

func (c *Controller) ApproveRequest(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	approved, err := c.issuance.Approve(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, approved)
}

type resolutionRequest struct {
	Resolution string `json:"resolution" validate:"required"`
}

func (c *Controller) ResolveRequest(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var req resolutionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	resolved, err := c.issuance.Resolve(ctx.Request().Context(), id, req.Resolution)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resolved)
}

func (c *Controller) RejectRequest(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var req rejectionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	rejected, err := c.issuance.Reject(ctx.Request().Context(), id, req.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rejected)
}
