package cart

import (
	"context"
	"fmt"

	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteItem is one client-submitted cart line awaiting server-side validation.
type QuoteItem struct {
	ProductID uuid.UUID
	VendorID  uuid.UUID
	Quantity  int
}

// QuoteInput is the full cart snapshot submitted for a quote.
type QuoteInput struct {
	Items []QuoteItem
}

// QuotedLine is a validated line with the live catalog price applied.
type QuotedLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// VendorQuote groups quoted lines for one vendor with the group total.
type VendorQuote struct {
	VendorID uuid.UUID       `json:"vendor_id"`
	Lines    []QuotedLine    `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

// QuoteResult is the server-recomputed view of the submitted cart.
type QuoteResult struct {
	Vendors    []VendorQuote   `json:"vendors"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type productReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service recomputes cart totals server-side from the live catalog.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

type service struct {
	products productReader
}

// NewService constructs a cart quote service.
func NewService(products productReader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{products: products}, nil
}

// Quote validates every submitted line against the catalog and recomputes
// per-vendor and grand totals. Duplicate product lines are merged first, so
// the result mirrors the aggregator's at-most-one-line-per-product invariant.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart cannot be empty")
	}

	merged := make([]QuoteItem, 0, len(input.Items))
	position := make(map[uuid.UUID]int, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
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

	result := &QuoteResult{GrandTotal: decimal.Zero}
	groupIndex := make(map[uuid.UUID]int)
	for _, item := range merged {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		if item.VendorID != uuid.Nil && product.VendorID != item.VendorID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not belong to the requested vendor").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		line := QuotedLine{
			ProductID:   product.ID,
			VendorID:    product.VendorID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			Subtotal:    subtotal,
		}

		idx, ok := groupIndex[product.VendorID]
		if !ok {
			idx = len(result.Vendors)
			groupIndex[product.VendorID] = idx
			result.Vendors = append(result.Vendors, VendorQuote{
				VendorID: product.VendorID,
				Total:    decimal.Zero,
			})
		}
		result.Vendors[idx].Lines = append(result.Vendors[idx].Lines, line)
		result.Vendors[idx].Total = result.Vendors[idx].Total.Add(subtotal)
		result.GrandTotal = result.GrandTotal.Add(subtotal)
	}

	return result, nil
}
