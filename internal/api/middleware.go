package api

import (
	"github.com/labstack/echo/v4"

	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
)

// AuthMiddleware requires an authenticated registry session. The gateway
// runs on behalf of one logged-in account; requests before login get 401.
func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !svc.session.LoggedIn() {
			return constants.ErrNotLoggedIn
		}
		return next(ctx)
	}
}

// AdminMiddleware additionally requires the session user to be an admin.
// This gates the admin screens only; the registry still authorizes every
// proxied call itself.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		user := svc.session.User()
		if user == nil || !user.IsAdmin {
			return constants.ErrForbidden
		}
		return next(ctx)
	}
}
