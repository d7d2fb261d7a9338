package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// User is a marketplace customer plus the account ledger checkout debits:
// employer-funded wallet balance and rewards points.
type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email          string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash   string         `gorm:"column:password_hash;not null"`
	Name           string         `gorm:"column:name;not null"`
	Role           enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	WalletBalance  float64        `gorm:"column:wallet_balance;type:numeric(10,2);not null;default:0"`
	RewardsBalance float64        `gorm:"column:rewards_balance;type:numeric(10,2);not null;default:0"`
	EmployerID     *string        `gorm:"column:employer_id"`
	EmployerName   *string        `gorm:"column:employer_name"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt    *time.Time     `gorm:"column:last_login_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
