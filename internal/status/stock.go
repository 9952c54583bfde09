// Package status maps backend statuses and quantities to what the views
// display and offer.
package status

import "farmmarket/console/internal/models"

type Bucket string

const (
	OutOfStock  Bucket = "Out of Stock"
	LowStock    Bucket = "Low Stock"
	InStock     Bucket = "In Stock"
	WellStocked Bucket = "Well Stocked"
)

const (
	lowStockFloor    = 1
	inStockFloor     = 10
	wellStockedFloor = 50
)

// StockBucket classifies a product quantity or an inventory available
// quantity. Negative values count as out of stock.
func StockBucket(q int) Bucket {
	switch {
	case q >= wellStockedFloor:
		return WellStocked
	case q >= inStockFloor:
		return InStock
	case q >= lowStockFloor:
		return LowStock
	default:
		return OutOfStock
	}
}

type Summary struct {
	Total       int `json:"total"`
	WellStocked int `json:"wellStocked"`
	LowStock    int `json:"lowStock"`
	OutOfStock  int `json:"outOfStock"`
}

// StockSummary counts records by bucket. In Stock records only count towards
// the total.
func StockSummary(records []models.InventoryRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch StockBucket(r.AvailableQuantity) {
		case WellStocked:
			s.WellStocked++
		case LowStock:
			s.LowStock++
		case OutOfStock:
			s.OutOfStock++
		}
	}
	return s
}
