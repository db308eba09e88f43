package checkout

import (
	"context"
	"fmt"

	"github.com/eventmartlabs/eventmart-backend/internal/cart"
	"github.com/eventmartlabs/eventmart-backend/internal/checkout/helpers"
	"github.com/eventmartlabs/eventmart-backend/internal/orders"
	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var totalTolerance = decimal.RequireFromString("0.01")

// Input is a multi-vendor checkout request: the full cart snapshot plus the
// chosen payment method. The claimed total, when present, is cross-checked
// against the server-side recomputation.
type Input struct {
	PaymentMethod string
	ClaimedTotal  *decimal.Decimal
	Items         []cart.LineItem
}

// Result is the receipt for one checkout: the created orders in creation
// order plus the recomputed grand total.
type Result struct {
	Orders     []orders.OrderDTO `json:"orders"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

// Service splits a cart snapshot into one order per vendor.
type Service interface {
	Checkout(ctx context.Context, buyerID uuid.UUID, input Input) (*Result, error)
}

type productReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	ordersRepo orders.Repository
	products   productReader
	tx         txRunner
}

// NewService constructs the checkout service.
func NewService(ordersRepo orders.Repository, products productReader, tx txRunner) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{ordersRepo: ordersRepo, products: products, tx: tx}, nil
}

// Checkout validates the snapshot, partitions it by vendor, and creates one
// PENDING order per vendor group inside a single transaction. A failure on
// any group rolls back every order from the same checkout.
func (s *service) Checkout(ctx context.Context, buyerID uuid.UUID, input Input) (*Result, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart cannot be empty")
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"payment_method": input.PaymentMethod})
	}

	items, err := s.validateSnapshot(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	totals := helpers.ComputeTotalsByVendor(items)
	grand := decimal.Zero
	for _, vendorTotals := range totals {
		grand = grand.Add(vendorTotals.Total)
	}
	if input.ClaimedTotal != nil && grand.Sub(*input.ClaimedTotal).Abs().GreaterThan(totalTolerance) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "claimed total does not match computed total").
			WithDetails(map[string]any{
				"claimed_total":  input.ClaimedTotal.String(),
				"computed_total": grand.String(),
			})
	}

	grouped := helpers.GroupItemsByVendor(items)
	sequence := helpers.VendorSequence(items)

	var created []models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		for _, vendorID := range sequence {
			group := grouped[vendorID]
			order := &models.Order{
				BuyerID:       buyerID,
				VendorID:      vendorID,
				Total:         totals[vendorID].Total,
				PaymentMethod: method,
				Status:        enums.OrderStatusPending,
			}
			if _, err := repo.CreateOrder(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
			}

			lines := make([]models.OrderLineItem, 0, len(group))
			for i, item := range group {
				productID := item.ProductID
				lines = append(lines, models.OrderLineItem{
					OrderID:         order.ID,
					ProductID:       &productID,
					ProductName:     item.ProductName,
					Quantity:        item.Quantity,
					PriceAtPurchase: item.UnitPrice,
					Position:        i,
				})
			}
			if err := repo.CreateLineItems(ctx, lines); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert line items")
			}
			order.Items = lines
			created = append(created, *order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Orders:     make([]orders.OrderDTO, 0, len(created)),
		GrandTotal: grand,
	}
	for i := range created {
		result.Orders = append(result.Orders, orders.ToDTO(&created[i]))
	}
	return result, nil
}

// validateSnapshot merges duplicate product lines, checks every line against
// the catalog, and snapshots product names. Prices stay frozen at the values
// the cart captured.
func (s *service) validateSnapshot(ctx context.Context, submitted []cart.LineItem) ([]cart.LineItem, error) {
	merged := make([]cart.LineItem, 0, len(submitted))
	position := make(map[uuid.UUID]int, len(submitted))
	for _, item := range submitted {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.VendorID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item vendor id required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item unit price cannot be negative")
		}
		if idx, ok := position[item.ProductID]; ok {
			merged[idx].Quantity += item.Quantity
			continue
		}
		position[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	ids := make([]uuid.UUID, 0, len(merged))
	for _, item := range merged {
		ids = append(ids, item.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	for i := range merged {
		product, ok := byID[merged[i].ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": merged[i].ProductID})
		}
		if product.VendorID != merged[i].VendorID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not belong to the claimed vendor").
				WithDetails(map[string]any{"product_id": merged[i].ProductID})
		}
		merged[i].ProductName = product.Name
	}
	return merged, nil
}
