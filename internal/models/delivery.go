package models

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

var DeliveryStatuses = []DeliveryStatus{DeliveryPending, DeliveryInTransit, DeliveryDelivered, DeliveryFailed}

func (s DeliveryStatus) Valid() bool {
	for _, status := range DeliveryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Delivery struct {
	ID                    int64          `json:"id"`
	OrderID               int64          `json:"orderId"`
	ProductName           string         `json:"productName"`
	BuyerID               int64          `json:"buyerId"`
	BuyerName             string         `json:"buyerName"`
	FarmerID              int64          `json:"farmerId"`
	FarmerName            string         `json:"farmerName"`
	DeliveryStatus        DeliveryStatus `json:"deliveryStatus"`
	TrackingLocation      string         `json:"trackingLocation,omitempty"`
	DeliveryNotes         string         `json:"deliveryNotes,omitempty"`
	EstimatedDeliveryDate *Timestamp     `json:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *Timestamp     `json:"actualDeliveryDate,omitempty"`
	CreatedAt             *Timestamp     `json:"createdAt,omitempty"`
	UpdatedAt             *Timestamp     `json:"updatedAt,omitempty"`
}

// DeliveryUpdate omits empty location and notes so the backend keeps the
// previous values.
type DeliveryUpdate struct {
	Status           DeliveryStatus `json:"status"`
	TrackingLocation string         `json:"trackingLocation,omitempty"`
	DeliveryNotes    string         `json:"deliveryNotes,omitempty"`
}

// DeliveryCreate opens a delivery for an order. EstimatedDeliveryDate is a
// calendar date, 2006-01-02.
type DeliveryCreate struct {
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate,omitempty"`
	TrackingLocation      string `json:"trackingLocation,omitempty"`
	DeliveryNotes         string `json:"deliveryNotes,omitempty"`
}
