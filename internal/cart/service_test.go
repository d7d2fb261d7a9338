package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/internal/catalog"
	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "cart-test"})
	return NewService(NewRepository(db), catalog.NewRepository(db), logg), db
}

func TestAddItemMergesQuantities(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, db, 150, 10)

	if err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID.String(), Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID.String(), Quantity: 3}); err != nil {
		t.Fatalf("second add: %v", err)
	}

	view, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", view.Items[0].Quantity)
	}
	if view.Summary.TotalAmount != 750 {
		t.Fatalf("expected total 750, got %f", view.Summary.TotalAmount)
	}
	if view.Summary.TotalItems != 5 {
		t.Fatalf("expected 5 items, got %d", view.Summary.TotalItems)
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, db, 99, 10)

	if err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID.String()}); err != nil {
		t.Fatalf("add: %v", err)
	}

	view, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 1 {
		t.Fatalf("expected a single line with quantity 1, got %+v", view.Items)
	}
}

func TestAddItemRejectsDraftProducts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	draft := &models.Product{
		ID:            uuid.New(),
		Slug:          "draft-" + uuid.NewString(),
		Name:          "Hidden",
		Category:      "supplements",
		Price:         100,
		Images:        []string{},
		StockQuantity: 5,
		Status:        enums.ProductStatusDraft,
	}
	if err := db.Create(draft).Error; err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	err := svc.AddItem(ctx, uuid.New(), AddItemInput{ProductID: draft.ID.String(), Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != "Product not found or unavailable." {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)

	err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: product.ID.String(), Quantity: -1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateItemNotInCart(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpdateItem(context.Background(), uuid.New(), uuid.New(), UpdateItemInput{Quantity: 2})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != "Item not found in your cart." {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestRemoveItem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, db, 100, 5)

	if err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID.String(), Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}

	if err := svc.RemoveItem(ctx, userID, view.Items[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	view, err = svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get cart after remove: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Items))
	}
}
