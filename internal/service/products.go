package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/validate"
)

var (
	ProductLoadFallbacks   = Fallbacks{Default: "Failed to load products. Please try again."}
	ProductCreateFallbacks = Fallbacks{
		Forbidden: "Only farmers can add products",
		Default:   "Failed to add product. Please try again.",
	}
	ProductUpdateFallbacks = Fallbacks{
		Forbidden: "You can only update your own products",
		Default:   "Failed to update product. Please try again.",
	}
	ProductDeleteFallbacks = Fallbacks{
		Forbidden: "You can only delete your own products",
		Default:   "Failed to delete product. Please try again.",
	}
)

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductService struct {
	api ProductAPI
	log zerolog.Logger
}

func NewProductService(api ProductAPI, log zerolog.Logger) *ProductService {
	return &ProductService{api: api, log: log}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (models.Product, error) {
	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

// Create validates the form and only then posts it.
func (s *ProductService) Create(ctx context.Context, sess models.Session, form validate.ProductForm) (models.Product, error) {
	if !nav.Can(sess.User.Role, nav.ManageProducts) {
		return models.Product{}, denied("Only farmers can add products")
	}
	input, errs := validate.Product(form)
	if err := errs.Err(); err != nil {
		return models.Product{}, err
	}

	product, err := s.api.CreateProduct(ctx, input)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.log.Info().Int64("product_id", product.ID).Msg("product created")
	return product, nil
}

// Update sends an edit. Ownership is enforced by the backend.
func (s *ProductService) Update(ctx context.Context, sess models.Session, id int64, form validate.ProductForm) (models.Product, error) {
	if !nav.Can(sess.User.Role, nav.ManageProducts) {
		return models.Product{}, denied("You can only update your own products")
	}
	input, errs := validate.Product(form)
	if err := errs.Err(); err != nil {
		return models.Product{}, err
	}

	product, err := s.api.UpdateProduct(ctx, id, input)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, sess models.Session, id int64) error {
	if !nav.Can(sess.User.Role, nav.ManageProducts) {
		return denied("You can only delete your own products")
	}
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// Owns reports whether the session may edit product in the list view.
func Owns(sess models.Session, product models.Product) bool {
	return nav.Can(sess.User.Role, nav.ManageProducts) && product.FarmerID == sess.User.ID
}
