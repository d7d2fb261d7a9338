package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem freezes one cart line at commit time. Price and name are copies,
// deliberately decoupled from later catalog edits.
type OrderItem struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID           uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity            int       `gorm:"column:quantity;not null"`
	PriceAtPurchase     float64   `gorm:"column:price_at_purchase;type:numeric(10,2);not null"`
	ProductNameSnapshot string    `gorm:"column:product_name_snapshot;not null"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (o *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
