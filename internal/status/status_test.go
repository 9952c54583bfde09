package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"farmmarket/console/internal/models"
)

func TestStockBucketBoundaries(t *testing.T) {
	tests := []struct {
		q    int
		want Bucket
	}{
		{-3, OutOfStock},
		{0, OutOfStock},
		{1, LowStock},
		{9, LowStock},
		{10, InStock},
		{49, InStock},
		{50, WellStocked},
		{5000, WellStocked},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StockBucket(tt.q), "quantity %d", tt.q)
	}
}

func TestStockSummary(t *testing.T) {
	records := []models.InventoryRecord{
		{ProductID: 1, AvailableQuantity: 0},
		{ProductID: 2, AvailableQuantity: 3},
		{ProductID: 3, AvailableQuantity: 25},
		{ProductID: 4, AvailableQuantity: 50},
		{ProductID: 5, AvailableQuantity: 80},
	}

	assert.Equal(t, Summary{Total: 5, WellStocked: 2, LowStock: 1, OutOfStock: 1}, StockSummary(records))
	assert.Equal(t, Summary{}, StockSummary(nil))
}

func TestOrderStatusOptions(t *testing.T) {
	open := []models.OrderStatus{models.OrderPending, models.OrderAccepted, models.OrderShipped, models.OrderDelivered}

	for _, s := range []models.OrderStatus{models.OrderPending, models.OrderAccepted, models.OrderShipped} {
		assert.Equal(t, open, OrderStatusOptions(s), string(s))
		assert.False(t, OrderTerminal(s))
	}
	for _, s := range []models.OrderStatus{models.OrderDelivered, models.OrderCancelled} {
		assert.Nil(t, OrderStatusOptions(s), string(s))
		assert.True(t, OrderTerminal(s))
	}

	assert.True(t, OrderCandidate(models.OrderAccepted, models.OrderShipped))
	assert.False(t, OrderCandidate(models.OrderPending, models.OrderCancelled))
	assert.False(t, OrderCandidate(models.OrderDelivered, models.OrderShipped))
}

func TestOrderStatsAndFilter(t *testing.T) {
	orders := []models.Order{
		{ID: 1, Status: models.OrderPending},
		{ID: 2, Status: models.OrderPending},
		{ID: 3, Status: models.OrderShipped},
		{ID: 4, Status: models.OrderCancelled},
	}

	assert.Equal(t, OrderCounts{Total: 4, Pending: 2, Shipped: 1, Cancelled: 1}, OrderStats(orders))
	assert.Len(t, FilterOrders(orders, FilterAll), 4)
	assert.Len(t, FilterOrders(orders, ""), 4)

	pending := FilterOrders(orders, "PENDING")
	assert.Len(t, pending, 2)
	assert.Equal(t, int64(1), pending[0].ID)
	assert.Empty(t, FilterOrders(orders, "DELIVERED"))
}

func states(tl Timeline) []StepState {
	out := make([]StepState, 0, len(tl.Steps))
	for _, s := range tl.Steps {
		out = append(out, s.State)
	}
	return out
}

func TestDeliveryTimeline(t *testing.T) {
	tests := []struct {
		status models.DeliveryStatus
		index  int
		failed bool
		want   []StepState
	}{
		{models.DeliveryPending, 0, false, []StepState{StepCurrent, StepPending, StepPending}},
		{models.DeliveryInTransit, 1, false, []StepState{StepCompleted, StepCurrent, StepPending}},
		{models.DeliveryDelivered, 2, false, []StepState{StepCompleted, StepCompleted, StepCurrent}},
		{models.DeliveryFailed, -1, true, []StepState{StepFailed, StepFailed, StepFailed}},
		{"RETURNED", -1, false, []StepState{StepPending, StepPending, StepPending}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			tl := DeliveryTimeline(tt.status)
			assert.Equal(t, tt.index, tl.Index)
			assert.Equal(t, tt.failed, tl.Failed)
			assert.Equal(t, tt.want, states(tl))
			assert.Equal(t, "Order Shipped", tl.Steps[0].Label)
		})
	}
}

func TestDeliveryStatusOptions(t *testing.T) {
	assert.Equal(t, models.DeliveryStatuses, DeliveryStatusOptions(models.DeliveryPending))
	assert.Equal(t, models.DeliveryStatuses, DeliveryStatusOptions(models.DeliveryInTransit))
	assert.Nil(t, DeliveryStatusOptions(models.DeliveryDelivered))
	assert.Nil(t, DeliveryStatusOptions(models.DeliveryFailed))
}

func TestDeliveryStats(t *testing.T) {
	deliveries := []models.Delivery{
		{OrderID: 1, DeliveryStatus: models.DeliveryInTransit},
		{OrderID: 2, DeliveryStatus: models.DeliveryInTransit},
		{OrderID: 3, DeliveryStatus: models.DeliveryFailed},
	}
	assert.Equal(t, DeliveryCounts{Total: 3, InTransit: 2, Failed: 1}, DeliveryStats(deliveries))
}
