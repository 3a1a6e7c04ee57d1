package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"

	"github.com/Mutombe/zim-rec-sub000/internal/api/controller"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/logger"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/registry"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/session"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
	"github.com/Mutombe/zim-rec-sub000/internal/service/collections"
	"github.com/Mutombe/zim-rec-sub000/internal/service/derive"
	"github.com/Mutombe/zim-rec-sub000/internal/service/device"
	"github.com/Mutombe/zim-rec-sub000/internal/service/issuance"
)

type APIService struct {
	router  *echo.Echo
	session *session.Session
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(sess *session.Session, client *registry.Client, st store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New(), session: sess}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.OFF)
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.HTTPErrorHandler = httpErrorHandler

	origin := viper.GetString(constants.ViperCORSOrigin)
	if origin == "" {
		origin = "http://localhost:3000"
	}
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.PATCH, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	cntrl := controller.NewController(
		sess,
		client,
		st,
		collections.NewService(client, st),
		derive.NewEngine(st),
		device.NewService(client, st),
		issuance.NewService(client, st),
	)

	api := svc.router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/login", cntrl.Login)
	auth.POST("/register", cntrl.Register)
	auth.POST("/logout", cntrl.Logout, svc.AuthMiddleware)

	user := api.Group("", svc.AuthMiddleware)
	user.GET("/profile", cntrl.GetProfile)
	user.PUT("/profile", cntrl.UpdateProfile)
	user.GET("/dashboard/summary", cntrl.DashboardSummary)
	user.POST("/refresh", cntrl.RefreshCollections)

	user.GET("/devices", cntrl.ListDevices)
	user.DELETE("/devices/:id", cntrl.DeleteDevice)
	user.GET("/fuel-options", cntrl.FuelOptions)

	reg := user.Group("/registrations")
	reg.POST("", cntrl.StartRegistration)
	reg.GET("/:id", cntrl.RegistrationState)
	reg.PUT("/:id/general", cntrl.PutGeneralInfo)
	reg.PUT("/:id/fuel", cntrl.PutFuelType)
	reg.PUT("/:id/technical", cntrl.PutTechnicalDetails)
	reg.PUT("/:id/location", cntrl.PutLocationDetails)
	reg.POST("/:id/documents/:key", cntrl.AttachDocument)
	reg.POST("/:id/next", cntrl.NextStep)
	reg.POST("/:id/back", cntrl.PreviousStep)
	reg.POST("/:id/submit", cntrl.SubmitRegistration)
	reg.POST("/:id/resume", cntrl.ResumeRegistration)

	user.GET("/issue-requests", cntrl.ListRequests)
	user.POST("/issue-requests", cntrl.CreateRequest)
	user.PUT("/issue-requests/:id", cntrl.UpdateRequest)
	user.POST("/issue-requests/:id/submit", cntrl.SubmitRequest)

	admin := api.Group("/admin", svc.AuthMiddleware, svc.AdminMiddleware)
	admin.GET("/devices", cntrl.AdminListDevices)
	admin.GET("/issue-requests", cntrl.AdminListRequests)
	admin.POST("/devices/:id/approve", cntrl.ApproveDevice)
	admin.POST("/devices/:id/reject", cntrl.RejectDevice)
	admin.POST("/issue-requests/:id/approve", cntrl.ApproveRequest)
	admin.POST("/issue-requests/:id/resolve", cntrl.ResolveRequest)
	admin.POST("/issue-requests/:id/reject", cntrl.RejectRequest)

	return svc, nil
}
