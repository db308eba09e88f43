package vendors

import (
	"context"
	"testing"
	"time"

	"github.com/eventmartlabs/eventmart-backend/internal/accounts"
	"github.com/eventmartlabs/eventmart-backend/internal/orders"
	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupVendorsTestDB mirrors the production referential actions: vendors and
// products cascade from accounts, order rows restrict deletion of both sides.
func setupVendorsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
  business_name TEXT NOT NULL,
  category TEXT NOT NULL,
  address TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL REFERENCES accounts (id) ON DELETE RESTRICT,
  vendor_id TEXT NOT NULL REFERENCES vendors (id) ON DELETE RESTRICT,
  total NUMERIC NOT NULL,
  payment_method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type dbTxRunner struct {
	db *gorm.DB
}

func (r dbTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func seedAccount(t *testing.T, db *gorm.DB, role enums.AccountRole) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "argon2id$seed",
		Name:         "Seed Account",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedVendorWithAccount(t *testing.T, db *gorm.DB) (*models.Account, *models.Vendor) {
	t.Helper()
	account := seedAccount(t, db, enums.AccountRoleVendor)

	vendor := &models.Vendor{
		ID:           uuid.New(),
		AccountID:    account.ID,
		BusinessName: "Seed Vendor",
		Category:     enums.VendorCategoryCatering,
		Address:      "12 Market Road",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(vendor).Error)
	return account, vendor
}

func seedOrder(t *testing.T, db *gorm.DB, buyerID, vendorID uuid.UUID, status enums.OrderStatus) {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		BuyerID:       buyerID,
		VendorID:      vendorID,
		Total:         decimal.RequireFromString("250"),
		PaymentMethod: enums.PaymentMethodUPI,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(order).Error)
}

func TestRepositoryCountsVendorOrders(t *testing.T) {
	db := setupVendorsTestDB(t)
	repo := NewRepository(db)
	buyer := seedAccount(t, db, enums.AccountRoleUser)
	_, vendor := seedVendorWithAccount(t, db)

	seedOrder(t, db, buyer.ID, vendor.ID, enums.OrderStatusDelivered)
	seedOrder(t, db, buyer.ID, vendor.ID, enums.OrderStatusPending)

	undelivered, err := repo.CountUndeliveredOrders(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), undelivered)

	total, err := repo.CountOrders(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestDeleteVendorWithDeliveredHistoryRefused(t *testing.T) {
	db := setupVendorsTestDB(t)
	buyer := seedAccount(t, db, enums.AccountRoleUser)
	vendorAccount, vendor := seedVendorWithAccount(t, db)
	seedOrder(t, db, buyer.ID, vendor.ID, enums.OrderStatusDelivered)

	accountRepo := accounts.NewRepository(db)
	svc, err := NewService(NewRepository(db), accountRepo, orders.NewRepository(db), dbTxRunner{db: db})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), vendor.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a coded error, got %v", err)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// The guard must fire before the row is touched.
	_, err = accountRepo.FindByID(context.Background(), vendorAccount.ID)
	require.NoError(t, err)
}

func TestDeleteVendorWithoutHistorySucceeds(t *testing.T) {
	db := setupVendorsTestDB(t)
	vendorAccount, vendor := seedVendorWithAccount(t, db)

	accountRepo := accounts.NewRepository(db)
	svc, err := NewService(NewRepository(db), accountRepo, orders.NewRepository(db), dbTxRunner{db: db})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), vendor.ID))

	_, err = accountRepo.FindByID(context.Background(), vendorAccount.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Vendor{}).Where("id = ?", vendor.ID).Count(&count).Error)
	assert.Zero(t, count, "vendor row should cascade with the account")
}

func TestSchemaRestrictsAccountDeleteWithOrderRows(t *testing.T) {
	db := setupVendorsTestDB(t)
	buyer := seedAccount(t, db, enums.AccountRoleUser)
	vendorAccount, vendor := seedVendorWithAccount(t, db)
	seedOrder(t, db, buyer.ID, vendor.ID, enums.OrderStatusDelivered)

	// Bypassing the service guard, the constraint itself refuses the delete.
	err := accounts.NewRepository(db).Delete(context.Background(), vendorAccount.ID)
	require.Error(t, err)
}
