package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventmartlabs/eventmart-backend/internal/accounts"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderHistoryReader interface {
	CountBuyerOrders(ctx context.Context, buyerID uuid.UUID) (int64, error)
}

// Service exposes vendor directory and lifecycle operations.
type Service interface {
	List(ctx context.Context, category string) ([]VendorDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*VendorDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        Repository
	accountRepo accounts.Repository
	orders      orderHistoryReader
	tx          txRunner
}

// NewService builds the vendor service.
func NewService(repo Repository, accountRepo accounts.Repository, orders orderHistoryReader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendors repository required")
	}
	if accountRepo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order history reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, accountRepo: accountRepo, orders: orders, tx: tx}, nil
}

func (s *service) List(ctx context.Context, category string) ([]VendorDTO, error) {
	var filter *enums.VendorCategory
	if category != "" {
		parsed, err := enums.ParseVendorCategory(category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vendor category").
				WithDetails(map[string]any{"category": category})
		}
		filter = &parsed
	}

	vendors, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}

	result := make([]VendorDTO, 0, len(vendors))
	for i := range vendors {
		result = append(result, ToDTO(&vendors[i]))
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*VendorDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	dto := ToDTO(vendor)
	return &dto, nil
}

// Delete removes the vendor, its account, and all of its products. Order rows
// are immutable history: deletion is refused while any orders still reference
// the vendor or purchases made from its account, matching the RESTRICT
// constraints on the orders table.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	outstanding, err := s.repo.CountUndeliveredOrders(ctx, vendor.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count undelivered orders")
	}
	if outstanding > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "vendor has undelivered orders").
			WithDetails(map[string]any{"undelivered_orders": outstanding})
	}

	history, err := s.repo.CountOrders(ctx, vendor.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count vendor orders")
	}
	if history > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "vendor has order history").
			WithDetails(map[string]any{"orders": history})
	}

	purchases, err := s.orders.CountBuyerOrders(ctx, vendor.AccountID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count account purchases")
	}
	if purchases > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "account has order history").
			WithDetails(map[string]any{"orders": purchases})
	}

	// Removing the account cascades to the vendor row and its products. An
	// order created between the checks and the delete trips the RESTRICT
	// constraint instead of slipping through.
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.accountRepo.WithTx(tx).Delete(ctx, vendor.AccountID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor account")
		}
		return nil
	})
}
