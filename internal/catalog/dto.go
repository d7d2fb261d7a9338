package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// ProductCard is the slim listing shape used by the storefront grid.
type ProductCard struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Price    float64   `json:"price"`
	MRP      float64   `json:"mrp"`
	Images   []string  `json:"images"`
	Category string    `json:"category"`
}

// ProductDetail is the full public product shape.
type ProductDetail struct {
	ProductCard
	Description     string              `json:"description"`
	StockQuantity   int                 `json:"stock_quantity"`
	Status          enums.ProductStatus `json:"status"`
	WalletEligible  bool                `json:"wallet_eligible"`
	RewardsEligible bool                `json:"rewards_eligible"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CreateProductInput carries the admin create payload.
type CreateProductInput struct {
	Name            string   `json:"name" validate:"required"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	Category        string   `json:"category" validate:"required"`
	Price           *float64 `json:"price" validate:"required"`
	MRP             *float64 `json:"mrp" validate:"required"`
	StockQuantity   int      `json:"stock_quantity" validate:"gte=0"`
	Images          []string `json:"images"`
	WalletEligible  bool     `json:"wallet_eligible"`
	RewardsEligible bool     `json:"rewards_eligible"`
	BenefitProgram  *string  `json:"benefit_program_id"`
}

// UpdateProductInput carries the admin partial-update payload. Nil fields
// keep their current values.
type UpdateProductInput struct {
	Name            *string  `json:"name"`
	Slug            *string  `json:"slug"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	Price           *float64 `json:"price"`
	MRP             *float64 `json:"mrp"`
	StockQuantity   *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	Images          []string `json:"images"`
	Status          *string  `json:"status"`
	WalletEligible  *bool    `json:"wallet_eligible"`
	RewardsEligible *bool    `json:"rewards_eligible"`
	BenefitProgram  *string  `json:"benefit_program_id"`
}

func toCard(p models.Product) ProductCard {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductCard{
		ID:       p.ID,
		Name:     p.Name,
		Slug:     p.Slug,
		Price:    p.Price,
		MRP:      p.MRP,
		Images:   images,
		Category: p.Category,
	}
}

func toDetail(p models.Product) ProductDetail {
	return ProductDetail{
		ProductCard:     toCard(p),
		Description:     p.Description,
		StockQuantity:   p.StockQuantity,
		Status:          p.Status,
		WalletEligible:  p.WalletEligible,
		RewardsEligible: p.RewardsEligible,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
