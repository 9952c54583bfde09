package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmmarket/console/internal/middleware"
	"farmmarket/console/internal/models"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/tracking"
)

type trackingResponse struct {
	Deliveries     []deliveryView `json:"deliveries"`
	Selected       *deliveryView  `json:"selected,omitempty"`
	SelectionStale bool           `json:"selectionStale"`
	Loading        bool           `json:"loading"`
	Error          string         `json:"error,omitempty"`
	AutoRefresh    bool           `json:"autoRefresh"`
	LastUpdated    *time.Time     `json:"lastUpdated,omitempty"`
}

func describeTracking(s tracking.State) trackingResponse {
	resp := trackingResponse{
		Deliveries:     describeDeliveries(s.Deliveries),
		SelectionStale: s.SelectionStale,
		Loading:        s.Loading,
		AutoRefresh:    s.AutoRefresh,
	}
	if s.Selected != nil {
		sel := describeDelivery(*s.Selected)
		resp.Selected = &sel
	}
	if s.Err != nil {
		resp.Error = service.Message(s.Err, service.DeliveryLoadFallbacks)
	}
	if !s.LastUpdated.IsZero() {
		t := s.LastUpdated
		resp.LastUpdated = &t
	}
	return resp
}

// tracker returns the mounted controller for sess, mounting one on first
// use. Background polling outlives the request, so it is bound to a
// detached context. The first fetch runs outside the view lock. A
// controller that lost a race, or outlived a logout, serves only the
// request that built it.
func (h HandlerSet) tracker(ctx context.Context, sess models.Session) (*tracking.Controller, error) {
	h.views.mu.Lock()
	current, gen := h.views.tracker, h.views.generation
	h.views.mu.Unlock()
	if current != nil {
		return current, nil
	}

	fetch, err := tracking.ForBuyer(h.client, sess.User.ID)
	if err != nil {
		return nil, err
	}
	ctrl := tracking.New(fetch, h.scheduler,
		tracking.WithInterval(h.cfg.Tracking.Interval),
		tracking.WithAutoRefresh(h.cfg.Tracking.AutoRefresh),
		tracking.WithLogger(h.log.With().Str("component", "tracking").Logger()),
	)
	if err := ctrl.Mount(context.WithoutCancel(ctx)); err != nil {
		h.log.Warn().Err(err).Msg("initial tracking fetch failed")
	}

	h.views.mu.Lock()
	defer h.views.mu.Unlock()
	if h.views.tracker != nil {
		ctrl.Unmount()
		return h.views.tracker, nil
	}
	if h.views.generation != gen {
		ctrl.Unmount()
		return ctrl, nil
	}
	h.views.tracker = ctrl
	return ctrl, nil
}

func (h HandlerSet) Tracking(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	ctrl, err := h.tracker(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, service.DeliveryLoadFallbacks)
		return
	}
	c.JSON(http.StatusOK, describeTracking(ctrl.Snapshot()))
}

func (h HandlerSet) RefreshTracking(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	ctrl, err := h.tracker(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, service.DeliveryLoadFallbacks)
		return
	}
	// The failure is part of the snapshot.
	_ = ctrl.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, describeTracking(ctrl.Snapshot()))
}

type autoRefreshRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h HandlerSet) SetAutoRefresh(c *gin.Context) {
	var req autoRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, _ := middleware.CurrentSession(c)
	ctrl, err := h.tracker(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, service.DeliveryLoadFallbacks)
		return
	}
	ctrl.SetAutoRefresh(*req.Enabled)
	c.JSON(http.StatusOK, describeTracking(ctrl.Snapshot()))
}

func (h HandlerSet) SelectDelivery(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sess, _ := middleware.CurrentSession(c)
	ctrl, err := h.tracker(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, service.DeliveryLoadFallbacks)
		return
	}
	if err := ctrl.Select(id); err != nil {
		h.fail(c, err, service.Fallbacks{Default: "Delivery not found"})
		return
	}
	c.JSON(http.StatusOK, describeTracking(ctrl.Snapshot()))
}
