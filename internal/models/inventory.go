package models

// InventoryRecord mirrors the backend stock row. TotalQuantity is kept equal
// to Available+Reserved by the backend.
type InventoryRecord struct {
	ID                int64      `json:"id,omitempty"`
	ProductID         int64      `json:"productId"`
	ProductName       string     `json:"productName"`
	AvailableQuantity int        `json:"availableQuantity"`
	ReservedQuantity  int        `json:"reservedQuantity"`
	TotalQuantity     int        `json:"totalQuantity"`
	LastUpdated       *Timestamp `json:"lastUpdated,omitempty"`
}

type InventoryUpdate struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

type Availability struct {
	ProductID         int64 `json:"productId"`
	RequestedQuantity int   `json:"requestedQuantity"`
	Available         bool  `json:"available"`
}
