package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"farmmarket/console/internal/apiclient"
	"farmmarket/console/internal/config"
	"farmmarket/console/internal/jobs"
	"farmmarket/console/internal/middleware"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/session"
	"farmmarket/console/internal/tracking"
	"farmmarket/console/internal/validate"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	sessions  *session.Store
	client    *apiclient.Client
	scheduler jobs.Scheduler

	auth     *service.AuthService
	products *service.ProductService
	placing  *service.OrderService
	views    *viewState
}

// viewState is what the open views hold between requests. It is dropped on
// login and logout.
type viewState struct {
	mu        sync.Mutex
	orders    *service.OrderBoard
	inventory *service.InventoryService
	delivery  *service.DeliveryService
	tracker   *tracking.Controller

	// generation changes on every reset so a tracker mounted across a
	// logout is not installed.
	generation uint64
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, sessions *session.Store, client *apiclient.Client, scheduler jobs.Scheduler) HandlerSet {
	h := HandlerSet{
		log:       log,
		cfg:       cfg,
		sessions:  sessions,
		client:    client,
		scheduler: scheduler,
		auth:      service.NewAuthService(client, sessions, log),
		products:  service.NewProductService(client, log),
		placing:   service.NewOrderService(client, log),
		views:     &viewState{},
	}
	h.resetViews()
	return h
}

func (h HandlerSet) resetViews() {
	h.views.mu.Lock()
	defer h.views.mu.Unlock()
	if h.views.tracker != nil {
		h.views.tracker.Unmount()
	}
	h.views.orders = service.NewOrderBoard(h.client, h.log)
	h.views.inventory = service.NewInventoryService(h.client, h.log)
	h.views.delivery = service.NewDeliveryService(h.client, h.log)
	h.views.tracker = nil
	h.views.generation++
}

// Close unmounts the open views so none of them schedules another refresh.
func (h HandlerSet) Close() {
	h.resetViews()
}

func (h HandlerSet) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}

	protected := v1.Group("")
	protected.Use(middleware.RequireSession(h.sessions))
	protected.GET("/me", h.Me)
	protected.GET("/nav", h.Nav)

	products := protected.Group("/products")
	products.Use(middleware.RequireView(nav.ViewProducts))
	products.GET("", h.ListProducts)
	products.GET("/:id", h.GetProduct)
	products.POST("", middleware.RequireCapability(nav.ManageProducts), h.CreateProduct)
	products.PUT("/:id", middleware.RequireCapability(nav.ManageProducts), h.UpdateProduct)
	products.DELETE("/:id", middleware.RequireCapability(nav.ManageProducts), h.DeleteProduct)
	products.POST("/:id/orders", middleware.RequireCapability(nav.PlaceOrders), h.PlaceOrder)

	orders := protected.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.PUT("/:id/status", middleware.RequireCapability(nav.UpdateOrderStatus), h.UpdateOrderStatus)
	orders.DELETE("/:id", middleware.RequireCapability(nav.DeleteOrders), h.DeleteOrder)

	inventory := protected.Group("/inventory")
	inventory.Use(middleware.RequireView(nav.ViewInventory))
	inventory.GET("", h.ListInventory)
	inventory.PUT("/:productId", middleware.RequireCapability(nav.UpdateInventory), h.UpdateInventory)
	inventory.POST("/:productId/sync", middleware.RequireCapability(nav.SyncInventory), h.SyncInventory)

	deliveries := protected.Group("/deliveries")
	deliveries.Use(middleware.RequireView(nav.ViewFarmerDelivery))
	deliveries.GET("", h.ListDeliveries)
	deliveries.PUT("/:orderId/status", middleware.RequireCapability(nav.UpdateDeliveries), h.UpdateDelivery)

	track := protected.Group("/tracking")
	track.Use(middleware.RequireView(nav.ViewTracking))
	track.GET("", h.Tracking)
	track.POST("/refresh", h.RefreshTracking)
	track.PUT("/auto-refresh", h.SetAutoRefresh)
	track.PUT("/selection/:id", h.SelectDelivery)
}

// fail answers with the view error for err and a status derived from it.
func (h HandlerSet) fail(c *gin.Context, err error, fb service.Fallbacks) {
	_ = c.Error(err)
	c.JSON(statusFor(err), service.Describe(err, fb))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, validate.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, service.ErrTerminal), errors.Is(err, service.ErrNotCandidate):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound), errors.Is(err, tracking.ErrUnknownDelivery):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMissingUserID), errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized
	case apiclient.IsNetwork(err):
		return http.StatusBadGateway
	}
	if status := apiclient.StatusOf(err); status != 0 {
		return status
	}
	return http.StatusInternalServerError
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
