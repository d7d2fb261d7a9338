package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:accounts_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, wallet, rewards float64) *models.User {
	t.Helper()
	user := &models.User{
		ID:             uuid.New(),
		Email:          "bal_" + uuid.NewString() + "@example.com",
		PasswordHash:   "hash",
		Name:           "Balance Tester",
		Role:           "customer",
		WalletBalance:  wallet,
		RewardsBalance: rewards,
		IsActive:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestLockBalancesLoadsUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, 500, 200)

	got, err := repo.LockBalances(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("lock balances: %v", err)
	}
	if got.WalletBalance != 500 || got.RewardsBalance != 200 {
		t.Fatalf("unexpected balances: wallet=%f rewards=%f", got.WalletBalance, got.RewardsBalance)
	}
}

func TestLockBalancesMissingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	if _, err := repo.LockBalances(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for missing user")
	}
}

func TestDebitBalancesSubtractsBoth(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, 500, 200)

	if err := repo.DebitBalances(context.Background(), user.ID, 150.50, 49.50); err != nil {
		t.Fatalf("debit balances: %v", err)
	}

	var got models.User
	if err := db.First(&got, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.WalletBalance != 349.50 {
		t.Fatalf("expected wallet 349.50, got %f", got.WalletBalance)
	}
	if got.RewardsBalance != 150.50 {
		t.Fatalf("expected rewards 150.50, got %f", got.RewardsBalance)
	}
}

func TestDebitBalancesRefusesOverdraft(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, 100, 0)

	if err := repo.DebitBalances(context.Background(), user.ID, 100.01, 0); err == nil {
		t.Fatal("expected overdraft rejection")
	}

	var got models.User
	if err := db.First(&got, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.WalletBalance != 100 {
		t.Fatalf("wallet mutated on failed debit: %f", got.WalletBalance)
	}
}

func TestDebitBalancesZeroIsNoop(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, 100, 100)

	if err := repo.DebitBalances(context.Background(), user.ID, 0, 0); err != nil {
		t.Fatalf("zero debit should be a no-op: %v", err)
	}
}
