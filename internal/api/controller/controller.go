package controller

import (
	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/listview"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/registry"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/session"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
	"github.com/Mutombe/zim-rec-sub000/internal/service/collections"
	"github.com/Mutombe/zim-rec-sub000/internal/service/derive"
	"github.com/Mutombe/zim-rec-sub000/internal/service/device"
	"github.com/Mutombe/zim-rec-sub000/internal/service/issuance"
)

const defaultPageSize = 10

type Controller struct {
	session     *session.Session
	registry    *registry.Client
	store       store.Store
	collections *collections.Service
	engine      *derive.Engine
	devices     *device.Service
	issuance    *issuance.Service

	// table state per screen, like the SPA keeps per view: repeated sort
	// requests on the same field toggle direction, any change resets paging
	deviceTable       *listview.Controller[domain.Device]
	adminDeviceTable  *listview.Controller[domain.Device]
	requestTable      *listview.Controller[domain.IssueRequest]
	adminRequestTable *listview.Controller[domain.IssueRequest]
}

func NewController(
	sess *session.Session,
	client *registry.Client,
	st store.Store,
	coll *collections.Service,
	engine *derive.Engine,
	devices *device.Service,
	issuanceSvc *issuance.Service,
) *Controller {
	return &Controller{
		session:           sess,
		registry:          client,
		store:             st,
		collections:       coll,
		engine:            engine,
		devices:           devices,
		issuance:          issuanceSvc,
		deviceTable:       listview.NewController(listview.DeviceView(), defaultPageSize),
		adminDeviceTable:  listview.NewController(listview.DeviceView(), defaultPageSize),
		requestTable:      listview.NewController(listview.RequestView(), defaultPageSize),
		adminRequestTable: listview.NewController(listview.RequestView(), defaultPageSize),
	}
}

func (c *Controller) ownedDevices() []domain.Device {
	return derive.DevicesOwnedBy(c.store.Devices(), c.session.User())
}

func (c *Controller) ownedRequests() []domain.IssueRequest {
	return derive.RequestsOwnedBy(c.store.Requests(), c.session.User())
}
