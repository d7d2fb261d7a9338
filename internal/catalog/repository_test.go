package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, mutate func(p *models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		Slug:          "prod-" + uuid.NewString(),
		Name:          "Vitamin D3",
		Description:   "Daily supplement",
		Category:      "supplements",
		Price:         299,
		MRP:           399,
		Images:        []string{},
		StockQuantity: 10,
		Status:        enums.ProductStatusPublished,
	}
	if mutate != nil {
		mutate(product)
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestListPublishedHidesDraftsAndOutOfStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	visible := seedProduct(t, db, nil)
	seedProduct(t, db, func(p *models.Product) { p.Status = enums.ProductStatusDraft })
	seedProduct(t, db, func(p *models.Product) { p.StockQuantity = 0 })

	products, err := repo.ListPublished(ctx, "", "")
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 visible product, got %d", len(products))
	}
	if products[0].ID != visible.ID {
		t.Fatalf("unexpected product %s", products[0].ID)
	}
}

func TestListPublishedFiltersByCategoryAndSearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Knee Brace"
		p.Category = "orthopedic"
	})
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Omega 3 Capsules"
		p.Category = "supplements"
	})

	byCategory, err := repo.ListPublished(ctx, "orthopedic", "")
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Name != "Knee Brace" {
		t.Fatalf("category filter failed: %+v", byCategory)
	}

	bySearch, err := repo.ListPublished(ctx, "", "omega")
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Name != "Omega 3 Capsules" {
		t.Fatalf("search filter failed: %+v", bySearch)
	}
}

func TestFindPublishedBySlugExcludesDrafts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	draft := seedProduct(t, db, func(p *models.Product) { p.Status = enums.ProductStatusDraft })

	if _, err := repo.FindPublishedBySlug(ctx, draft.Slug); err == nil {
		t.Fatal("expected draft to be invisible by slug")
	}

	published := seedProduct(t, db, nil)
	got, err := repo.FindPublishedBySlug(ctx, published.Slug)
	if err != nil {
		t.Fatalf("find published: %v", err)
	}
	if got.ID != published.ID {
		t.Fatalf("unexpected product %s", got.ID)
	}
}

func TestLockByIDsReturnsAscendingOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	a := seedProduct(t, db, nil)
	b := seedProduct(t, db, nil)
	c := seedProduct(t, db, nil)

	products, err := repo.LockByIDs(ctx, []uuid.UUID{c.ID, a.ID, b.ID})
	if err != nil {
		t.Fatalf("lock by ids: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].ID.String() > products[i].ID.String() {
			t.Fatalf("products not ordered by id: %s before %s", products[i-1].ID, products[i].ID)
		}
	}
}

func TestDecrementStockGuardsAgainstNegative(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, func(p *models.Product) { p.StockQuantity = 3 })

	if err := repo.DecrementStock(ctx, product.ID, 2); err != nil {
		t.Fatalf("decrement stock: %v", err)
	}
	if err := repo.DecrementStock(ctx, product.ID, 2); err == nil {
		t.Fatal("expected insufficient stock error")
	}

	var got models.Product
	if err := db.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if got.StockQuantity != 1 {
		t.Fatalf("expected stock 1, got %d", got.StockQuantity)
	}
}

func TestSlugExistsExcludesSelf(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, func(p *models.Product) { p.Slug = "unique-brace" })

	exists, err := repo.SlugExists(ctx, "unique-brace", uuid.Nil)
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !exists {
		t.Fatal("expected slug to exist")
	}

	exists, err = repo.SlugExists(ctx, "unique-brace", product.ID)
	if err != nil {
		t.Fatalf("slug exists excluding self: %v", err)
	}
	if exists {
		t.Fatal("expected slug check to exclude the product itself")
	}
}
