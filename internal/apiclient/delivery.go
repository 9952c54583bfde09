package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"farmmarket/console/internal/models"
)

// ListDeliveries returns every delivery. Admin only.
func (c *Client) ListDeliveries(ctx context.Context) ([]models.Delivery, error) {
	var out []models.Delivery
	err := c.Do(ctx, http.MethodGet, "/delivery", nil, &out)
	return out, err
}

func (c *Client) ListFarmerDeliveries(ctx context.Context, farmerID int64) ([]models.Delivery, error) {
	var out []models.Delivery
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/delivery/farmer/%d", farmerID), nil, &out)
	return out, err
}

func (c *Client) TrackBuyerDeliveries(ctx context.Context, buyerID int64) ([]models.Delivery, error) {
	var out []models.Delivery
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/delivery/tracking/%d", buyerID), nil, &out)
	return out, err
}

func (c *Client) GetDelivery(ctx context.Context, orderID int64) (models.Delivery, error) {
	var out models.Delivery
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/delivery/%d", orderID), nil, &out)
	return out, err
}

func (c *Client) CreateDelivery(ctx context.Context, orderID int64, in models.DeliveryCreate) (models.Delivery, error) {
	var out models.Delivery
	err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/delivery/%d", orderID), in, &out)
	return out, err
}

func (c *Client) UpdateDeliveryStatus(ctx context.Context, orderID int64, in models.DeliveryUpdate) (models.Delivery, error) {
	var out models.Delivery
	err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/delivery/%d/status", orderID), in, &out)
	return out, err
}
