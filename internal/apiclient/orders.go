package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"farmmarket/console/internal/models"
)

// ListOrders returns every order. Admin only.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.Do(ctx, http.MethodGet, "/orders", nil, &out)
	return out, err
}

func (c *Client) ListBuyerOrders(ctx context.Context, buyerID int64) ([]models.Order, error) {
	var out []models.Order
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/orders/buyer/%d", buyerID), nil, &out)
	return out, err
}

func (c *Client) ListFarmerOrders(ctx context.Context, farmerID int64) ([]models.Order, error) {
	var out []models.Order
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/orders/farmer/%d", farmerID), nil, &out)
	return out, err
}

func (c *Client) PlaceOrder(ctx context.Context, in models.OrderInput) (models.Order, error) {
	var out models.Order
	err := c.Do(ctx, http.MethodPost, "/orders", in, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, s models.OrderStatus) (models.Order, error) {
	var out models.Order
	err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/status", id), models.OrderStatusUpdate{Status: s}, &out)
	return out, err
}

// DeleteOrder cancels and removes an order. Admin only.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil)
}
