package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// Order is the immutable record of one successful checkout. The three split
// amounts always sum to TotalAmount within a cent.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	TotalAmount     float64             `gorm:"column:total_amount;type:numeric(10,2);not null"`
	WalletAmount    float64             `gorm:"column:wallet_amount;type:numeric(10,2);not null;default:0"`
	RewardsAmount   float64             `gorm:"column:rewards_amount;type:numeric(10,2);not null;default:0"`
	CashAmount      float64             `gorm:"column:cash_amount;type:numeric(10,2);not null;default:0"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null"`
	ShippingAddress string              `gorm:"column:shipping_address;type:text;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	BeneficiaryName string              `gorm:"column:beneficiary_name;not null;default:'Self'"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
