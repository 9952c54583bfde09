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
	InventoryLoadFallbacks = Fallbacks{
		Forbidden: "You do not have permission to view inventory",
		Default:   "Failed to load inventory",
	}
	InventoryUpdateFallbacks = Fallbacks{Default: "Failed to update inventory"}
)

type InventoryAPI interface {
	ListInventory(ctx context.Context) ([]models.InventoryRecord, error)
	UpdateInventory(ctx context.Context, productID int64, in models.InventoryUpdate) (models.InventoryRecord, error)
	CheckAvailability(ctx context.Context, productID int64, quantity int) (models.Availability, error)
	SyncInventory(ctx context.Context, productID int64) (string, error)
}

type InventoryService struct {
	api InventoryAPI
	log zerolog.Logger

	mu      sync.Mutex
	records []models.InventoryRecord
}

func NewInventoryService(api InventoryAPI, log zerolog.Logger) *InventoryService {
	return &InventoryService{api: api, log: log}
}

func (s *InventoryService) Load(ctx context.Context) ([]models.InventoryRecord, error) {
	records, err := s.api.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return cloneRecords(records), nil
}

func (s *InventoryService) Records() []models.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.records)
}

func (s *InventoryService) Summary() status.Summary {
	return status.StockSummary(s.Records())
}

// Update overwrites the available quantity of a product and swaps the
// returned record into the list.
func (s *InventoryService) Update(ctx context.Context, productID int64, quantity int, reason string) (models.InventoryRecord, error) {
	if err := validate.InventoryQuantity(quantity).Err(); err != nil {
		return models.InventoryRecord{}, err
	}

	rec, err := s.api.UpdateInventory(ctx, productID, models.InventoryUpdate{Quantity: quantity, Reason: reason})
	if err != nil {
		return models.InventoryRecord{}, fmt.Errorf("update inventory %d: %w", productID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ProductID == productID {
			s.records[i] = rec
		}
	}
	s.log.Info().Int64("product_id", productID).Int("quantity", quantity).Str("reason", reason).Msg("inventory updated")
	return rec, nil
}

func (s *InventoryService) Check(ctx context.Context, productID int64, quantity int) (bool, error) {
	res, err := s.api.CheckAvailability(ctx, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("check availability %d: %w", productID, err)
	}
	return res.Available, nil
}

func (s *InventoryService) Sync(ctx context.Context, sess models.Session, productID int64) (string, error) {
	if !nav.Can(sess.User.Role, nav.SyncInventory) {
		return "", denied("Only admins can sync inventory")
	}
	msg, err := s.api.SyncInventory(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("sync inventory %d: %w", productID, err)
	}
	return msg, nil
}

func cloneRecords(in []models.InventoryRecord) []models.InventoryRecord {
	out := make([]models.InventoryRecord, len(in))
	copy(out, in)
	return out
}
