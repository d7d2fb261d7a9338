package cart

import (
	"github.com/google/uuid"
)

// ItemView is one cart line joined with live product details.
type ItemView struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int       `json:"quantity"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	MRP           float64   `json:"mrp"`
	Images        []string  `json:"images"`
	StockQuantity int       `json:"stock_quantity"`
	TotalPrice    float64   `json:"total_price"`
}

// Summary aggregates the cart totals.
type Summary struct {
	TotalAmount float64 `json:"totalAmount"`
	TotalItems  int     `json:"totalItems"`
}

// View is the full cart response.
type View struct {
	CartID  uuid.UUID  `json:"cartId"`
	Items   []ItemView `json:"items"`
	Summary Summary    `json:"summary"`
}

// AddItemInput carries the add-to-cart payload.
type AddItemInput struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemInput carries the quantity-update payload.
type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}
