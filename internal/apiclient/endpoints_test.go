package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmmarket/console/internal/models"
)

type recorded struct {
	method string
	uri    string
	body   string
}

func recorder(t *testing.T, reply string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, uri: r.URL.RequestURI(), body: string(raw)})
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken("t")), &calls
}

func TestEndpointPaths(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func(c *Client) error
		method string
		uri    string
		reply  string
	}{
		{"get product", func(c *Client) error { _, err := c.GetProduct(ctx, 5); return err }, http.MethodGet, "/products/5", `{}`},
		{"delete product", func(c *Client) error { return c.DeleteProduct(ctx, 5) }, http.MethodDelete, "/products/5", `{}`},
		{"buyer orders", func(c *Client) error { _, err := c.ListBuyerOrders(ctx, 2); return err }, http.MethodGet, "/orders/buyer/2", `[]`},
		{"farmer orders", func(c *Client) error { _, err := c.ListFarmerOrders(ctx, 3); return err }, http.MethodGet, "/orders/farmer/3", `[]`},
		{"inventory", func(c *Client) error { _, err := c.ListInventory(ctx); return err }, http.MethodGet, "/inventory", `[]`},
		{"inventory record", func(c *Client) error { _, err := c.GetInventory(ctx, 8); return err }, http.MethodGet, "/inventory/8", `{}`},
		{"availability", func(c *Client) error { _, err := c.CheckAvailability(ctx, 8, 4); return err }, http.MethodGet, "/inventory/8/check?quantity=4", `{}`},
		{"sync", func(c *Client) error { _, err := c.SyncInventory(ctx, 8); return err }, http.MethodPost, "/inventory/sync/8", `{}`},
		{"all deliveries", func(c *Client) error { _, err := c.ListDeliveries(ctx); return err }, http.MethodGet, "/delivery", `[]`},
		{"farmer deliveries", func(c *Client) error { _, err := c.ListFarmerDeliveries(ctx, 3); return err }, http.MethodGet, "/delivery/farmer/3", `[]`},
		{"tracking", func(c *Client) error { _, err := c.TrackBuyerDeliveries(ctx, 2); return err }, http.MethodGet, "/delivery/tracking/2", `[]`},
		{"delivery", func(c *Client) error { _, err := c.GetDelivery(ctx, 11); return err }, http.MethodGet, "/delivery/11", `{}`},
		{"create delivery", func(c *Client) error { _, err := c.CreateDelivery(ctx, 11, models.DeliveryCreate{}); return err }, http.MethodPost, "/delivery/11", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := recorder(t, tt.reply)
			require.NoError(t, tt.call(c))
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.method, (*calls)[0].method)
			assert.Equal(t, tt.uri, (*calls)[0].uri)
		})
	}
}

func TestWriteEndpointBodies(t *testing.T) {
	ctx := context.Background()

	c, calls := recorder(t, `{"id":4,"status":"SHIPPED"}`)
	order, err := c.UpdateOrderStatus(ctx, 4, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)
	assert.Equal(t, "/orders/4/status", (*calls)[0].uri)
	assert.JSONEq(t, `{"status":"SHIPPED"}`, (*calls)[0].body)

	c, calls = recorder(t, `{"productId":6,"availableQuantity":12}`)
	rec, err := c.UpdateInventory(ctx, 6, models.InventoryUpdate{Quantity: 12, Reason: "recount"})
	require.NoError(t, err)
	assert.Equal(t, 12, rec.AvailableQuantity)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/inventory/update/6", (*calls)[0].uri)
	assert.JSONEq(t, `{"quantity":12,"reason":"recount"}`, (*calls)[0].body)

	c, calls = recorder(t, `{"orderId":11,"deliveryStatus":"IN_TRANSIT"}`)
	_, err = c.UpdateDeliveryStatus(ctx, 11, models.DeliveryUpdate{Status: models.DeliveryInTransit, TrackingLocation: "Depot"})
	require.NoError(t, err)
	assert.Equal(t, "/delivery/11/status", (*calls)[0].uri)
	assert.JSONEq(t, `{"status":"IN_TRANSIT","trackingLocation":"Depot"}`, (*calls)[0].body)

	c, calls = recorder(t, `{"id":20,"productId":5,"quantity":2,"status":"PENDING"}`)
	placed, err := c.PlaceOrder(ctx, models.OrderInput{ProductID: 5, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(20), placed.ID)
	var body map[string]int
	require.NoError(t, json.Unmarshal([]byte((*calls)[0].body), &body))
	assert.Equal(t, map[string]int{"productId": 5, "quantity": 2}, body)

	c, _ = recorder(t, `{"message":"Inventory synced successfully for product ID: 8"}`)
	msg, err := c.SyncInventory(ctx, 8)
	require.NoError(t, err)
	assert.Contains(t, msg, "synced")
}
