package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/db"
	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// ErrCartAlreadyConverted signals an attempt to convert a cart twice.
var ErrCartAlreadyConverted = errors.New("cart already converted")

// LineItem joins a cart item with its product for pricing and eligibility.
type LineItem struct {
	Item    models.CartItem
	Product models.Product
}

// Repository manages carts and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
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

// ActiveCart returns the user's open cart, creating one lazily on first use.
func (r *Repository) ActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID, Status: enums.CartStatusActive}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockActiveCart loads the user's open cart under a write lock. Returns
// gorm.ErrRecordNotFound when the user has no active cart.
func (r *Repository) LockActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := db.LockForUpdate(r.db.WithContext(ctx)).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Items returns the cart's lines joined with product details, newest first.
func (r *Repository) Items(ctx context.Context, cartID uuid.UUID) ([]LineItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return r.joinProducts(ctx, items)
}

// ItemsForUpdate returns the cart's lines with their product rows locked for
// the rest of the transaction, ordered by product id for lock consistency.
func (r *Repository) ItemsForUpdate(ctx context.Context, cartID uuid.UUID) ([]LineItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("product_id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	err = db.LockForUpdate(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, errors.New("cart item references missing product " + item.ProductID.String())
		}
		lines = append(lines, LineItem{Item: item, Product: product})
	}
	return lines, nil
}

// FindItem loads one cart line scoped to the cart.
func (r *Repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByProduct loads the line for a product if it is already in the cart.
func (r *Repository) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateItemQuantity overwrites the quantity for one line, scoped to the cart.
// Returns gorm.ErrRecordNotFound when the line does not belong to the cart.
func (r *Repository) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItem removes one line, scoped to the cart.
func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkConverted flips an ACTIVE cart to CONVERTED exactly once. The status
// guard in the WHERE clause is what makes double conversion impossible.
func (r *Repository) MarkConverted(ctx context.Context, cartID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND status = ?", cartID, enums.CartStatusActive).
		Updates(map[string]any{
			"status":       enums.CartStatusConverted,
			"converted_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartAlreadyConverted
	}
	return nil
}

func (r *Repository) joinProducts(ctx context.Context, items []models.CartItem) ([]LineItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		if product, ok := byID[item.ProductID]; ok {
			lines = append(lines, LineItem{Item: item, Product: product})
		}
	}
	return lines, nil
}
