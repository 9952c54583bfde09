package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/status"
)

var (
	DeliveryLoadFallbacks   = Fallbacks{Default: "Failed to load deliveries"}
	DeliveryUpdateFallbacks = Fallbacks{Default: "Failed to update delivery status"}
)

type DeliveryAPI interface {
	ListDeliveries(ctx context.Context) ([]models.Delivery, error)
	ListFarmerDeliveries(ctx context.Context, farmerID int64) ([]models.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, orderID int64, in models.DeliveryUpdate) (models.Delivery, error)
}

// DeliveryService backs the farmer/admin delivery view: a list plus the
// record open in the detail panel.
type DeliveryService struct {
	api DeliveryAPI
	log zerolog.Logger

	mu         sync.Mutex
	deliveries []models.Delivery
	selected   *models.Delivery
}

func NewDeliveryService(api DeliveryAPI, log zerolog.Logger) *DeliveryService {
	return &DeliveryService{api: api, log: log}
}

// Load lists a farmer's deliveries, or every delivery for an admin.
func (s *DeliveryService) Load(ctx context.Context, sess models.Session) ([]models.Delivery, error) {
	var (
		list []models.Delivery
		err  error
	)
	switch sess.User.Role {
	case models.RoleAdmin:
		list, err = s.api.ListDeliveries(ctx)
	case models.RoleFarmer:
		if sess.User.ID == 0 {
			return nil, ErrMissingUserID
		}
		list, err = s.api.ListFarmerDeliveries(ctx, sess.User.ID)
	default:
		return nil, denied("Only farmers and admins can manage deliveries")
	}
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = list
	if s.selected == nil && len(list) > 0 {
		first := list[0]
		s.selected = &first
	}
	return cloneDeliveries(list), nil
}

func (s *DeliveryService) Deliveries() []models.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDeliveries(s.deliveries)
}

func (s *DeliveryService) Stats() status.DeliveryCounts {
	return status.DeliveryStats(s.Deliveries())
}

func (s *DeliveryService) Selected() (models.Delivery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return models.Delivery{}, false
	}
	return *s.selected, true
}

func (s *DeliveryService) Select(orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deliveries {
		if d.OrderID == orderID {
			match := d
			s.selected = &match
			return nil
		}
	}
	return ErrNotFound
}

// Update changes a delivery's status. Delivered and failed deliveries are
// refused locally; the server's record replaces the list entry and the
// selection.
func (s *DeliveryService) Update(ctx context.Context, orderID int64, in models.DeliveryUpdate) (models.Delivery, error) {
	s.mu.Lock()
	var current *models.Delivery
	for i := range s.deliveries {
		if s.deliveries[i].OrderID == orderID {
			current = &s.deliveries[i]
			break
		}
	}
	if current != nil && status.DeliveryTerminal(current.DeliveryStatus) {
		s.mu.Unlock()
		return *current, ErrTerminal
	}
	s.mu.Unlock()

	if !in.Status.Valid() {
		return models.Delivery{}, ErrNotCandidate
	}
	in.TrackingLocation = strings.TrimSpace(in.TrackingLocation)
	in.DeliveryNotes = strings.TrimSpace(in.DeliveryNotes)

	updated, err := s.api.UpdateDeliveryStatus(ctx, orderID, in)
	if err != nil {
		return models.Delivery{}, fmt.Errorf("update delivery %d: %w", orderID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deliveries {
		if s.deliveries[i].OrderID == orderID {
			s.deliveries[i] = updated
		}
	}
	if s.selected != nil && s.selected.OrderID == orderID {
		sel := updated
		s.selected = &sel
	}
	s.log.Info().Int64("order_id", orderID).Str("status", string(updated.DeliveryStatus)).Msg("delivery updated")
	return updated, nil
}

func cloneDeliveries(in []models.Delivery) []models.Delivery {
	out := make([]models.Delivery, len(in))
	copy(out, in)
	return out
}
