package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/internal/catalog"
	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
)

// Service implements the customer cart operations.
type Service struct {
	repo    *Repository
	catalog *catalog.Repository
	logg    *logger.Logger
}

// NewService wires the cart service.
func NewService(repo *Repository, catalogRepo *catalog.Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalogRepo, logg: logg}
}

// Get returns the user's active cart with line details and totals.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.repo.ActiveCart(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	lines, err := s.repo.Items(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart items")
	}

	view := &View{
		CartID: cart.ID,
		Items:  make([]ItemView, 0, len(lines)),
	}
	for _, line := range lines {
		images := line.Product.Images
		if images == nil {
			images = []string{}
		}
		total := line.Product.Price * float64(line.Item.Quantity)
		view.Items = append(view.Items, ItemView{
			ID:            line.Item.ID,
			ProductID:     line.Item.ProductID,
			Quantity:      line.Item.Quantity,
			Name:          line.Product.Name,
			Price:         line.Product.Price,
			MRP:           line.Product.MRP,
			Images:        images,
			StockQuantity: line.Product.StockQuantity,
			TotalPrice:    total,
		})
		view.Summary.TotalAmount += total
		view.Summary.TotalItems += line.Item.Quantity
	}
	return view, nil
}

// AddItem puts a product in the user's cart; repeated adds merge quantities.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) error {
	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "Product ID is required.")
	}
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be at least 1.")
	}

	cart, err := s.repo.ActiveCart(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil || product.Status != enums.ProductStatusPublished {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found or unavailable.")
	}

	existing, err := s.repo.FindItemByProduct(ctx, cart.ID, productID)
	switch {
	case err == nil:
		if err := s.repo.UpdateItemQuantity(ctx, cart.ID, existing.ID, existing.Quantity+qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merging cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
		}
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking cart item")
	}

	s.logg.Info(s.logg.WithCartID(ctx, cart.ID.String()), "item added to cart")
	return nil
}

// UpdateItem overwrites the quantity of one line in the user's cart.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) error {
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be at least 1.")
	}

	cart, err := s.repo.ActiveCart(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	if err := s.repo.UpdateItemQuantity(ctx, cart.ID, itemID, input.Quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in your cart.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
	}
	return nil
}

// RemoveItem deletes one line from the user's cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.repo.ActiveCart(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in your cart.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return nil
}
