package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmarket/console/internal/middleware"
	"farmmarket/console/internal/models"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
)

type inventoryView struct {
	models.InventoryRecord
	Stock status.Bucket `json:"stock"`
}

func inventoryViews(records []models.InventoryRecord) []inventoryView {
	out := make([]inventoryView, 0, len(records))
	for _, r := range records {
		out = append(out, inventoryView{InventoryRecord: r, Stock: status.StockBucket(r.AvailableQuantity)})
	}
	return out
}

func (h HandlerSet) inventory() *service.InventoryService {
	h.views.mu.Lock()
	defer h.views.mu.Unlock()
	return h.views.inventory
}

func (h HandlerSet) ListInventory(c *gin.Context) {
	svc := h.inventory()
	records, err := svc.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err, service.InventoryLoadFallbacks)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records": inventoryViews(records),
		"summary": svc.Summary(),
	})
}

type inventoryUpdateRequest struct {
	Quantity *int   `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

func (h HandlerSet) UpdateInventory(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	var req inventoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.inventory().Update(c.Request.Context(), productID, *req.Quantity, req.Reason)
	if err != nil {
		h.fail(c, err, service.InventoryUpdateFallbacks)
		return
	}
	c.JSON(http.StatusOK, inventoryViews([]models.InventoryRecord{rec})[0])
}

func (h HandlerSet) SyncInventory(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	sess, _ := middleware.CurrentSession(c)
	msg, err := h.inventory().Sync(c.Request.Context(), sess, productID)
	if err != nil {
		h.fail(c, err, service.Fallbacks{Default: "Failed to sync inventory"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
