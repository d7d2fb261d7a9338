package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/db"
	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
)

// Repository manages the benefit balances (wallet + rewards) attached to a user.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// WithTx returns a repo bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// LockBalances loads the user row under a write lock so the wallet and
// rewards balances stay stable for the rest of the transaction.
func (r *Repository) LockBalances(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := db.LockForUpdate(r.db.WithContext(ctx)).
		First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DebitBalances subtracts the committed split amounts from the user's
// balances. The guard clauses make overdrafts impossible even if a
// concurrent writer slipped past the row lock.
func (r *Repository) DebitBalances(ctx context.Context, userID uuid.UUID, wallet, rewards float64) error {
	if wallet == 0 && rewards == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND wallet_balance >= ? AND rewards_balance >= ?", userID, wallet, rewards).
		Updates(map[string]any{
			"wallet_balance":  gorm.Expr("wallet_balance - ?", wallet),
			"rewards_balance": gorm.Expr("rewards_balance - ?", rewards),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("debit balances for user %s: balance changed concurrently", userID)
	}
	return nil
}
