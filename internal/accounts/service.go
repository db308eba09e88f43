package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the admin account management operations.
type Service interface {
	List(ctx context.Context) ([]AccountDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*AccountDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type vendorProfileReader interface {
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Vendor, error)
	CountUndeliveredOrders(ctx context.Context, vendorID uuid.UUID) (int64, error)
	CountOrders(ctx context.Context, vendorID uuid.UUID) (int64, error)
}

type orderHistoryReader interface {
	CountBuyerOrders(ctx context.Context, buyerID uuid.UUID) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo       Repository
	vendorRepo vendorProfileReader
	orders     orderHistoryReader
	tx         txRunner
}

// NewService builds the accounts service.
func NewService(repo Repository, vendorRepo vendorProfileReader, orders orderHistoryReader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if vendorRepo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order history reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, vendorRepo: vendorRepo, orders: orders, tx: tx}, nil
}

func (s *service) List(ctx context.Context) ([]AccountDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list accounts")
	}
	result := make([]AccountDTO, 0, len(items))
	for i := range items {
		result = append(result, ToDTO(&items[i]))
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}
	dto := ToDTO(account)
	return &dto, nil
}

// Delete removes an account. Order rows are immutable history, so deletion is
// refused while any orders reference the account as buyer or, for vendor
// accounts, the vendor profile; the RESTRICT constraints on the orders table
// back the same policy at the schema level. Vendor accounts cascade to the
// vendor profile and its products once clear.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}

	if account.Role == enums.AccountRoleVendor {
		vendor, err := s.vendorRepo.FindByAccountID(ctx, account.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor profile")
		}
		if vendor != nil {
			outstanding, err := s.vendorRepo.CountUndeliveredOrders(ctx, vendor.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count undelivered orders")
			}
			if outstanding > 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "vendor has undelivered orders").
					WithDetails(map[string]any{"undelivered_orders": outstanding})
			}
			history, err := s.vendorRepo.CountOrders(ctx, vendor.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count vendor orders")
			}
			if history > 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "vendor has order history").
					WithDetails(map[string]any{"orders": history})
			}
		}
	}

	purchases, err := s.orders.CountBuyerOrders(ctx, account.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count account orders")
	}
	if purchases > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "account has order history").
			WithDetails(map[string]any{"orders": purchases})
	}

	// An order created between the checks and the delete trips the RESTRICT
	// constraint instead of slipping through.
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, account.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete account")
		}
		return nil
	})
}
