package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Controller) Login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	user, err := c.registry.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, user)
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

func (c *Controller) Register(ctx echo.Context) error {
	var req registerRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if err := c.registry.RegisterAccount(ctx.Request().Context(),
		req.Email, req.Password, req.FirstName, req.LastName); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusCreated)
}

func (c *Controller) Logout(ctx echo.Context) error {
	if err := c.session.Clear(); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) GetProfile(ctx echo.Context) error {
	user, err := c.registry.Profile(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, user)
}

type profileUpdateRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (c *Controller) UpdateProfile(ctx echo.Context) error {
	var req profileUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"email":      req.Email,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	}
	user, err := c.registry.UpdateProfile(ctx.Request().Context(), fields)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, user)
}
