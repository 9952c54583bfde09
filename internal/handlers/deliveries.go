package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmarket/console/internal/middleware"
	"farmmarket/console/internal/models"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
)

type deliveryView struct {
	models.Delivery
	Timeline status.Timeline         `json:"timeline"`
	Options  []models.DeliveryStatus `json:"statusOptions,omitempty"`
	Terminal bool                    `json:"terminal"`
}

func describeDelivery(d models.Delivery) deliveryView {
	return deliveryView{
		Delivery: d,
		Timeline: status.DeliveryTimeline(d.DeliveryStatus),
		Options:  status.DeliveryStatusOptions(d.DeliveryStatus),
		Terminal: status.DeliveryTerminal(d.DeliveryStatus),
	}
}

func describeDeliveries(list []models.Delivery) []deliveryView {
	out := make([]deliveryView, 0, len(list))
	for _, d := range list {
		out = append(out, describeDelivery(d))
	}
	return out
}

func (h HandlerSet) delivery() *service.DeliveryService {
	h.views.mu.Lock()
	defer h.views.mu.Unlock()
	return h.views.delivery
}

func (h HandlerSet) ListDeliveries(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	svc := h.delivery()

	list, err := svc.Load(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, service.DeliveryLoadFallbacks)
		return
	}
	resp := gin.H{
		"deliveries": describeDeliveries(list),
		"stats":      svc.Stats(),
	}
	if sel, ok := svc.Selected(); ok {
		resp["selected"] = describeDelivery(sel)
	}
	c.JSON(http.StatusOK, resp)
}

type deliveryUpdateRequest struct {
	Status           models.DeliveryStatus `json:"status" binding:"required"`
	TrackingLocation string                `json:"trackingLocation"`
	DeliveryNotes    string                `json:"deliveryNotes"`
}

func (h HandlerSet) UpdateDelivery(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}
	var req deliveryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.delivery().Update(c.Request.Context(), orderID, models.DeliveryUpdate{
		Status:           req.Status,
		TrackingLocation: req.TrackingLocation,
		DeliveryNotes:    req.DeliveryNotes,
	})
	if err != nil {
		h.fail(c, err, service.DeliveryUpdateFallbacks)
		return
	}
	c.JSON(http.StatusOK, describeDelivery(updated))
}
