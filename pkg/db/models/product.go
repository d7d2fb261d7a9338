package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// Product is a catalog listing. The wallet/rewards eligibility flags and the
// benefit program tag drive the payment-split rules at checkout; price and
// name are snapshotted into order items at commit time.
type Product struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Slug             string              `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Name             string              `gorm:"column:name;not null"`
	Description      string              `gorm:"column:description;not null;default:''"`
	Category         string              `gorm:"column:category;not null;default:''"`
	Price            float64             `gorm:"column:price;type:numeric(10,2);not null"`
	MRP              float64             `gorm:"column:mrp;type:numeric(10,2);not null;default:0"`
	Images           []string            `gorm:"column:images;serializer:json"`
	StockQuantity    int                 `gorm:"column:stock_quantity;not null;default:0"`
	Status           enums.ProductStatus `gorm:"column:status;type:text;not null;default:'DRAFT'"`
	WalletEligible   bool                `gorm:"column:wallet_eligible;not null;default:false"`
	RewardsEligible  bool                `gorm:"column:rewards_eligible;not null;default:false"`
	BenefitProgramID *string             `gorm:"column:benefit_program_id"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
