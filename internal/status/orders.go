package status

import "farmmarket/console/internal/models"

// FilterAll disables status filtering.
const FilterAll = "ALL"

var orderCandidates = []models.OrderStatus{
	models.OrderPending,
	models.OrderAccepted,
	models.OrderShipped,
	models.OrderDelivered,
}

func OrderTerminal(s models.OrderStatus) bool {
	return s == models.OrderDelivered || s == models.OrderCancelled
}

// OrderStatusOptions returns the statuses a user may pick for an order, or
// nil when the order can no longer be edited.
func OrderStatusOptions(s models.OrderStatus) []models.OrderStatus {
	if OrderTerminal(s) {
		return nil
	}
	out := make([]models.OrderStatus, len(orderCandidates))
	copy(out, orderCandidates)
	return out
}

// OrderCandidate reports whether next may be requested for an order in s.
func OrderCandidate(s, next models.OrderStatus) bool {
	for _, c := range OrderStatusOptions(s) {
		if c == next {
			return true
		}
	}
	return false
}

type OrderCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Shipped   int `json:"shipped"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
}

func OrderStats(orders []models.Order) OrderCounts {
	c := OrderCounts{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case models.OrderPending:
			c.Pending++
		case models.OrderAccepted:
			c.Accepted++
		case models.OrderShipped:
			c.Shipped++
		case models.OrderDelivered:
			c.Delivered++
		case models.OrderCancelled:
			c.Cancelled++
		}
	}
	return c
}

// FilterOrders keeps orders whose status equals filter. An empty filter or
// FilterAll returns the input unchanged.
func FilterOrders(orders []models.Order, filter string) []models.Order {
	if filter == "" || filter == FilterAll {
		return orders
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if string(o.Status) == filter {
			out = append(out, o)
		}
	}
	return out
}
