package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/eventmartlabs/eventmart-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// totalTolerance is how far a client-claimed total may drift from the
// server-side recomputation before the request is rejected.
var totalTolerance = decimal.RequireFromString("0.01")

// Actor carries the verified identity making an order request.
type Actor struct {
	AccountID uuid.UUID
	Role      enums.AccountRole
	VendorID  *uuid.UUID
}

// CreateOrderItemInput is one submitted cart line. The unit price is the
// value frozen when the buyer added the item.
type CreateOrderItemInput struct {
	ProductID uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int
}

// CreateOrderInput is a single-vendor order request.
type CreateOrderInput struct {
	VendorID      uuid.UUID
	PaymentMethod string
	ClaimedTotal  *decimal.Decimal
	Items         []CreateOrderItemInput
}

// ListInput narrows an order listing.
type ListInput struct {
	VendorID *uuid.UUID
	Params   pagination.Params
}

// Service exposes order creation, reads, and status transitions.
type Service interface {
	Create(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDetailDTO, error)
	List(ctx context.Context, actor Actor, input ListInput) (*OrderList, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status string) (*OrderDetailDTO, error)
}

type productReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type vendorReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type accountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	products productReader
	vendors  vendorReader
	accounts accountReader
	tx       txRunner
}

// NewService constructs the orders service.
func NewService(repo Repository, products productReader, vendors vendorReader, accounts accountReader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor reader required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, vendors: vendors, accounts: accounts, tx: tx}, nil
}

// Create persists a single-vendor order with status PENDING. The total is
// recomputed server-side from the submitted lines; a client-claimed total
// that drifts beyond a cent is rejected.
func (s *service) Create(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"payment_method": input.PaymentMethod})
	}

	if _, err := s.vendors.FindByID(ctx, input.VendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor")
	}

	lines, total, err := s.materializeLines(ctx, input.VendorID, input.Items)
	if err != nil {
		return nil, err
	}
	if input.ClaimedTotal != nil && total.Sub(*input.ClaimedTotal).Abs().GreaterThan(totalTolerance) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "claimed total does not match computed total").
			WithDetails(map[string]any{
				"claimed_total":  input.ClaimedTotal.String(),
				"computed_total": total.String(),
			})
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order := &models.Order{
			BuyerID:       buyerID,
			VendorID:      input.VendorID,
			Total:         total,
			PaymentMethod: method,
			Status:        enums.OrderStatusPending,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := repo.CreateLineItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert line items")
		}
		order.Items = lines
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := ToDTO(created)
	return &dto, nil
}

// materializeLines validates every submitted line against the catalog and
// freezes name and price snapshots. Positions preserve submission order.
func (s *service) materializeLines(ctx context.Context, vendorID uuid.UUID, items []CreateOrderItemInput) ([]models.OrderLineItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.Quantity <= 0 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "item unit price cannot be negative")
		}
		ids = append(ids, item.ProductID)
	}

	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	lines := make([]models.OrderLineItem, 0, len(items))
	total := decimal.Zero
	for i, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		if product.VendorID != vendorID {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "product does not belong to the order vendor").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}

		productID := product.ID
		lines = append(lines, models.OrderLineItem{
			ProductID:       &productID,
			ProductName:     product.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.UnitPrice,
			Position:        i,
		})
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return lines, total, nil
}

func (s *service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDetailDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canRead(actor, order) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another account")
	}
	return s.detail(ctx, order)
}

// List serves buyer and vendor order listings, newest first. A vendor filter
// is honored only for the owning vendor or an admin; everyone else sees their
// own purchases.
func (s *service) List(ctx context.Context, actor Actor, input ListInput) (*OrderList, error) {
	var (
		orders []models.Order
		cursor *pagination.Cursor
		err    error
	)
	switch {
	case input.VendorID != nil:
		if actor.Role != enums.AccountRoleAdmin && (actor.VendorID == nil || *actor.VendorID != *input.VendorID) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot list another vendor's orders")
		}
		orders, cursor, err = s.repo.ListVendorOrders(ctx, *input.VendorID, input.Params)
	default:
		orders, cursor, err = s.repo.ListBuyerOrders(ctx, actor.AccountID, input.Params)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	list := &OrderList{Orders: make([]OrderDTO, 0, len(orders))}
	for i := range orders {
		list.Orders = append(list.Orders, ToDTO(&orders[i]))
	}
	if cursor != nil {
		list.NextCursor = pagination.EncodeCursor(*cursor)
	}
	return list, nil
}

// UpdateStatus advances an order along the fulfillment pipeline. Transitions
// are strictly forward; backward or same-state requests are rejected without
// touching the row. The updated order is returned with buyer and vendor
// summaries so callers observe one consistent snapshot.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status string) (*OrderDetailDTO, error) {
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": status})
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canTransition(actor, order) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another vendor")
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "illegal status transition").
			WithDetails(map[string]any{
				"current":   order.Status,
				"requested": next,
			})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		// The guarded update only wins if the status is still the one the
		// transition check saw; a racing writer that advanced the row first
		// turns this request into a conflict instead of a silent rollback.
		moved, err := repo.UpdateStatus(ctx, order.ID, order.Status, next)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}
		if !moved {
			current, err := repo.FindByID(ctx, order.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "illegal status transition").
				WithDetails(map[string]any{
					"current":   current.Status,
					"requested": next,
				})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = next
	return s.detail(ctx, order)
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func (s *service) detail(ctx context.Context, order *models.Order) (*OrderDetailDTO, error) {
	buyer, err := s.accounts.FindByID(ctx, order.BuyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load buyer")
	}
	vendor, err := s.vendors.FindByID(ctx, order.VendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor")
	}
	return &OrderDetailDTO{
		OrderDTO: ToDTO(order),
		Buyer:    BuyerSummary{ID: buyer.ID, Name: buyer.Name},
		Vendor: VendorSummary{
			ID:           vendor.ID,
			BusinessName: vendor.BusinessName,
			Category:     vendor.Category,
		},
	}, nil
}

func canRead(actor Actor, order *models.Order) bool {
	if actor.Role == enums.AccountRoleAdmin {
		return true
	}
	if order.BuyerID == actor.AccountID {
		return true
	}
	return actor.VendorID != nil && *actor.VendorID == order.VendorID
}

func canTransition(actor Actor, order *models.Order) bool {
	if actor.Role == enums.AccountRoleAdmin {
		return true
	}
	return actor.VendorID != nil && *actor.VendorID == order.VendorID
}
