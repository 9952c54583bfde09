package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmarket/console/internal/middleware"
	"farmmarket/console/internal/models"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
	"farmmarket/console/internal/validate"
)

// formValue accepts a JSON string or number and keeps its text, so the
// product form is validated the same whatever the client sent.
type formValue string

func (f *formValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = formValue(n.String())
	return nil
}

type productRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       formValue `json:"price"`
	Quantity    formValue `json:"quantity"`
	Location    string    `json:"location"`
}

func (r productRequest) form() validate.ProductForm {
	return validate.ProductForm{
		Name:        r.Name,
		Description: r.Description,
		Price:       string(r.Price),
		Quantity:    string(r.Quantity),
		Location:    r.Location,
	}
}

type productView struct {
	models.Product
	Stock   status.Bucket `json:"stock"`
	CanEdit bool          `json:"canEdit"`
}

func productViews(sess models.Session, products []models.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{
			Product: p,
			Stock:   status.StockBucket(p.Quantity),
			CanEdit: service.Owns(sess, p),
		})
	}
	return out
}

func (h HandlerSet) ListProducts(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, service.ProductLoadFallbacks)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": productViews(sess, products),
	})
}

func (h HandlerSet) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sess, _ := middleware.CurrentSession(c)
	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, service.Fallbacks{Default: "Failed to load product"})
		return
	}
	c.JSON(http.StatusOK, productViews(sess, []models.Product{product})[0])
}

func (h HandlerSet) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, _ := middleware.CurrentSession(c)

	product, err := h.products.Create(c.Request.Context(), sess, req.form())
	if err != nil {
		h.fail(c, err, service.ProductCreateFallbacks)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h HandlerSet) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, _ := middleware.CurrentSession(c)

	product, err := h.products.Update(c.Request.Context(), sess, id, req.form())
	if err != nil {
		h.fail(c, err, service.ProductUpdateFallbacks)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h HandlerSet) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sess, _ := middleware.CurrentSession(c)
	if err := h.products.Delete(c.Request.Context(), sess, id); err != nil {
		h.fail(c, err, service.ProductDeleteFallbacks)
		return
	}
	c.Status(http.StatusNoContent)
}

type placeOrderRequest struct {
	Quantity int `json:"quantity"`
}

// PlaceOrder re-reads the product so the quantity check sees current stock.
func (h HandlerSet) PlaceOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, _ := middleware.CurrentSession(c)

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, service.Fallbacks{Default: "Failed to load product"})
		return
	}
	order, err := h.placing.Place(c.Request.Context(), sess, product, req.Quantity)
	if err != nil {
		h.fail(c, err, service.OrderPlaceFallbacks)
		return
	}
	c.JSON(http.StatusCreated, order)
}
