package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/listview"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/logger"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
)

type deviceListResponse struct {
	Page   listview.Page[domain.Device] `json:"page"`
	Status store.Status                 `json:"status"`
}

// applyTableParams feeds the request's query params into the screen's table
// state. Sort requests toggle direction on repetition; search/filter changes
// reset the page.
func applyTableParams[T any](ctx echo.Context, table *listview.Controller[T], filterFields ...string) {
	params := ctx.QueryParams()
	if params.Has("search") {
		table.SetSearch(params.Get("search"))
	}
	for _, field := range filterFields {
		if params.Has(field) {
			table.SetFilter(field, params.Get(field))
		}
	}
	if sortField := params.Get("sort"); sortField != "" {
		table.SortBy(sortField)
	}
	if pageStr := params.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			table.SetPage(page)
		}
	}
}

func (c *Controller) ListDevices(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if err := c.collections.RefreshDevices(reqCtx); err != nil {
		logger.Warnf(reqCtx, "device list served stale: %s", err.Error())
	}

	owned := c.ownedDevices()
	applyTableParams(ctx, c.deviceTable, "status", "device_fuel", "country")

	return ctx.JSON(http.StatusOK, deviceListResponse{
		Page:   c.deviceTable.Apply(owned),
		Status: c.store.DeviceState().Status,
	})
}

func (c *Controller) DeleteDevice(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := c.devices.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) FuelOptions(ctx echo.Context) error {
	options, err := c.registry.FuelOptions(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, options)
}

func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, constants.NewCodedError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
