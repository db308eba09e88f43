package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
)

// Order represents a single-vendor order produced from a checkout split.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID       uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null;index:idx_orders_buyer_created,priority:1"`
	VendorID      uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index:idx_orders_vendor_created,priority:1"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'PENDING'"`
	Items         []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index:idx_orders_buyer_created,priority:2,sort:desc;index:idx_orders_vendor_created,priority:2,sort:desc"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
