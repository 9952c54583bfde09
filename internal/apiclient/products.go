package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"farmmarket/console/internal/models"
)

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.Do(ctx, http.MethodGet, "/products", nil, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var out models.Product
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	var out models.Product
	err := c.Do(ctx, http.MethodPost, "/products", in, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (models.Product, error) {
	var out models.Product
	err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}
