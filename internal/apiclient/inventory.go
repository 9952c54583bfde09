package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"farmmarket/console/internal/models"
)

// ListInventory returns the caller's inventory; admins see every record.
func (c *Client) ListInventory(ctx context.Context) ([]models.InventoryRecord, error) {
	var out []models.InventoryRecord
	err := c.Do(ctx, http.MethodGet, "/inventory", nil, &out)
	return out, err
}

func (c *Client) GetInventory(ctx context.Context, productID int64) (models.InventoryRecord, error) {
	var out models.InventoryRecord
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/inventory/%d", productID), nil, &out)
	return out, err
}

// UpdateInventory overwrites the available quantity of a product.
func (c *Client) UpdateInventory(ctx context.Context, productID int64, in models.InventoryUpdate) (models.InventoryRecord, error) {
	var out models.InventoryRecord
	err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/inventory/update/%d", productID), in, &out)
	return out, err
}

func (c *Client) CheckAvailability(ctx context.Context, productID int64, quantity int) (models.Availability, error) {
	q := url.Values{"quantity": {strconv.Itoa(quantity)}}
	var out models.Availability
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/inventory/%d/check?%s", productID, q.Encode()), nil, &out)
	return out, err
}

// SyncInventory realigns a product's inventory with its listed quantity and
// returns the backend's confirmation message. Admin only.
func (c *Client) SyncInventory(ctx context.Context, productID int64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/inventory/sync/%d", productID), nil, &out)
	return out.Message, err
}
