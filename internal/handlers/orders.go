package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmarket/console/internal/middleware"
	"farmmarket/console/internal/models"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
)

type orderView struct {
	models.Order
	Shown    models.OrderStatus   `json:"shownStatus"`
	Options  []models.OrderStatus `json:"statusOptions,omitempty"`
	Terminal bool                 `json:"terminal"`
}

func (h HandlerSet) orderViews(board *service.OrderBoard, orders []models.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		shown, ok := board.Shown(o.ID)
		if !ok {
			shown = o.Status
		}
		out = append(out, orderView{
			Order:    o,
			Shown:    shown,
			Options:  status.OrderStatusOptions(o.Status),
			Terminal: status.OrderTerminal(o.Status),
		})
	}
	return out
}

func (h HandlerSet) board() *service.OrderBoard {
	h.views.mu.Lock()
	defer h.views.mu.Unlock()
	return h.views.orders
}

// ListOrders loads the orders for the caller's role. ?status= filters the
// list; ALL or empty returns everything.
func (h HandlerSet) ListOrders(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	board := h.board()

	if _, err := board.Load(c.Request.Context(), sess); err != nil {
		h.fail(c, err, service.OrderLoadFallbacks)
		return
	}
	filtered := board.Filter(c.Query("status"))
	c.JSON(http.StatusOK, gin.H{
		"count":  len(filtered),
		"orders": h.orderViews(board, filtered),
		"stats":  board.Stats(),
	})
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, _ := middleware.CurrentSession(c)
	board := h.board()

	if _, known := board.Shown(id); !known {
		if _, err := board.Load(c.Request.Context(), sess); err != nil {
			h.fail(c, err, service.OrderLoadFallbacks)
			return
		}
	}

	order, err := board.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.fail(c, err, service.OrderStatusFallbacks)
		return
	}
	c.JSON(http.StatusOK, h.orderViews(board, []models.Order{order})[0])
}

func (h HandlerSet) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sess, _ := middleware.CurrentSession(c)
	if err := h.board().Delete(c.Request.Context(), sess, id); err != nil {
		h.fail(c, err, service.Fallbacks{Default: "Failed to delete order"})
		return
	}
	c.Status(http.StatusNoContent)
}
