package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/status"
	"farmmarket/console/internal/validate"
)

var (
	OrderLoadFallbacks   = Fallbacks{Default: "Failed to load orders"}
	OrderStatusFallbacks = Fallbacks{Default: "Failed to update order status"}
	OrderPlaceFallbacks  = Fallbacks{
		Forbidden: "Only buyers can place orders",
		Default:   "Failed to place order. Please try again.",
	}
)

type OrderAPI interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID int64) ([]models.Order, error)
	ListFarmerOrders(ctx context.Context, farmerID int64) ([]models.Order, error)
	PlaceOrder(ctx context.Context, in models.OrderInput) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, s models.OrderStatus) (models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// OrderBoard is the order list of one view. Status changes go through an
// optimistic editor per order and reach the list only once confirmed.
type OrderBoard struct {
	api OrderAPI
	log zerolog.Logger

	mu      sync.Mutex
	orders  []models.Order
	editors map[int64]*OptimisticEditor[models.OrderStatus]
}

func NewOrderBoard(api OrderAPI, log zerolog.Logger) *OrderBoard {
	return &OrderBoard{
		api:     api,
		log:     log,
		editors: make(map[int64]*OptimisticEditor[models.OrderStatus]),
	}
}

// Load fetches the orders visible to the session's role: a buyer's own,
// a farmer's incoming, or all of them for an admin.
func (b *OrderBoard) Load(ctx context.Context, sess models.Session) ([]models.Order, error) {
	if sess.User.ID == 0 {
		return nil, ErrMissingUserID
	}

	var (
		orders []models.Order
		err    error
	)
	switch sess.User.Role {
	case models.RoleBuyer:
		orders, err = b.api.ListBuyerOrders(ctx, sess.User.ID)
	case models.RoleFarmer:
		orders, err = b.api.ListFarmerOrders(ctx, sess.User.ID)
	case models.RoleAdmin:
		orders, err = b.api.ListOrders(ctx)
	default:
		return nil, denied("Unknown role")
	}
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = orders
	b.editors = make(map[int64]*OptimisticEditor[models.OrderStatus], len(orders))
	for _, o := range orders {
		b.editors[o.ID] = NewOptimisticEditor(o.Status)
	}
	return cloneOrders(orders), nil
}

func (b *OrderBoard) Orders() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneOrders(b.orders)
}

func (b *OrderBoard) Filter(filter string) []models.Order {
	return status.FilterOrders(b.Orders(), filter)
}

func (b *OrderBoard) Stats() status.OrderCounts {
	return status.OrderStats(b.Orders())
}

// Shown is the status currently displayed for an order, which may be a
// pending optimistic value.
func (b *OrderBoard) Shown(id int64) (models.OrderStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ed, ok := b.editors[id]
	if !ok {
		return "", false
	}
	return ed.Shown(), true
}

func (b *OrderBoard) find(id int64) (models.Order, *OptimisticEditor[models.OrderStatus], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if o.ID == id {
			return o, b.editors[id], true
		}
	}
	return models.Order{}, nil, false
}

// UpdateStatus requests next for an order. Terminal orders and statuses
// outside the offered set are refused without a network call.
func (b *OrderBoard) UpdateStatus(ctx context.Context, id int64, next models.OrderStatus) (models.Order, error) {
	order, ed, ok := b.find(id)
	if !ok {
		return models.Order{}, ErrNotFound
	}
	if status.OrderTerminal(order.Status) {
		return order, ErrTerminal
	}
	if !status.OrderCandidate(order.Status, next) {
		return order, ErrNotCandidate
	}

	var updated models.Order
	_, err := ed.Apply(ctx, next, func(ctx context.Context, s models.OrderStatus) (models.OrderStatus, error) {
		resp, err := b.api.UpdateOrderStatus(ctx, id, s)
		if err != nil {
			return "", err
		}
		// An empty reply confirms s on the order as loaded.
		updated = resp
		if updated.ID == 0 {
			updated = order
			updated.Status = s
		}
		if updated.Status == "" {
			updated.Status = s
		}
		return updated.Status, nil
	})
	if err != nil {
		b.log.Warn().Err(err).Int64("order_id", id).Str("status", string(next)).Msg("order status update failed")
		return order, fmt.Errorf("update order %d: %w", id, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == id {
			b.orders[i] = updated
		}
	}
	return updated, nil
}

func (b *OrderBoard) Delete(ctx context.Context, sess models.Session, id int64) error {
	if !nav.Can(sess.User.Role, nav.DeleteOrders) {
		return denied("Only admins can delete orders")
	}
	if err := b.api.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.orders[:0:0]
	for _, o := range b.orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	b.orders = kept
	delete(b.editors, id)
	return nil
}

func cloneOrders(in []models.Order) []models.Order {
	out := make([]models.Order, len(in))
	copy(out, in)
	return out
}

// OrderService places buyer orders from the product detail view.
type OrderService struct {
	api OrderAPI
	log zerolog.Logger
}

func NewOrderService(api OrderAPI, log zerolog.Logger) *OrderService {
	return &OrderService{api: api, log: log}
}

// Place checks the quantity against the product's stock before posting.
func (s *OrderService) Place(ctx context.Context, sess models.Session, product models.Product, quantity int) (models.Order, error) {
	if !nav.Can(sess.User.Role, nav.PlaceOrders) {
		return models.Order{}, denied("Only buyers can place orders")
	}
	if err := validate.OrderQuantity(quantity, product.Quantity).Err(); err != nil {
		return models.Order{}, err
	}
	order, err := s.api.PlaceOrder(ctx, models.OrderInput{ProductID: product.ID, Quantity: quantity})
	if err != nil {
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}
	s.log.Info().Int64("order_id", order.ID).Int64("product_id", product.ID).Int("quantity", quantity).Msg("order placed")
	return order, nil
}
