package models

import "github.com/shopspring/decimal"

func init() {
	// The backend speaks plain JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Location    string          `json:"location"`
	FarmerID    int64           `json:"farmerId"`
	FarmerName  string          `json:"farmerName"`
	CreatedAt   *Timestamp      `json:"createdAt,omitempty"`
	UpdatedAt   *Timestamp      `json:"updatedAt,omitempty"`
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Location    string          `json:"location"`
}
