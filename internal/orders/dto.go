package orders

import (
	"time"

	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemDTO is the public shape of an order line. Name and price are the
// values frozen at purchase time, not the live catalog values.
type LineItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       *uuid.UUID      `json:"product_id,omitempty"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// OrderDTO is the public shape of an order with its line items.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	BuyerID       uuid.UUID           `json:"buyer_id"`
	VendorID      uuid.UUID           `json:"vendor_id"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Status        enums.OrderStatus   `json:"status"`
	Items         []LineItemDTO       `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// BuyerSummary identifies the buyer in an order detail response.
type BuyerSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// VendorSummary identifies the vendor in an order detail response.
type VendorSummary struct {
	ID           uuid.UUID            `json:"id"`
	BusinessName string               `json:"business_name"`
	Category     enums.VendorCategory `json:"category"`
}

// OrderDetailDTO is the full order snapshot returned by reads and status
// transitions.
type OrderDetailDTO struct {
	OrderDTO
	Buyer  BuyerSummary  `json:"buyer"`
	Vendor VendorSummary `json:"vendor"`
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ToDTO converts the persistence model, items included, to its public shape.
func ToDTO(order *models.Order) OrderDTO {
	items := make([]LineItemDTO, 0, len(order.Items))
	for i := range order.Items {
		item := order.Items[i]
		items = append(items, LineItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return OrderDTO{
		ID:            order.ID,
		BuyerID:       order.BuyerID,
		VendorID:      order.VendorID,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
