package models

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderAccepted  OrderStatus = "ACCEPTED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderAccepted, OrderShipped, OrderDelivered, OrderCancelled}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	BuyerID     int64           `json:"buyerId"`
	BuyerName   string          `json:"buyerName"`
	FarmerID    int64           `json:"farmerId"`
	FarmerName  string          `json:"farmerName"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   *Timestamp      `json:"createdAt,omitempty"`
	UpdatedAt   *Timestamp      `json:"updatedAt,omitempty"`
}

type OrderInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
}
