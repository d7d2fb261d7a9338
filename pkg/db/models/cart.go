package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// Cart holds a user's in-progress selection. Each user has at most one
// ACTIVE cart; checkout flips it to CONVERTED and never back.
type Cart struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Status      enums.CartStatus `gorm:"column:status;type:text;not null;default:'ACTIVE'"`
	ConvertedAt *time.Time       `gorm:"column:converted_at"`
	Items       []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
