package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
)

// Vendor is the storefront profile tied one-to-one to a vendor account.
type Vendor struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID    uuid.UUID            `gorm:"column:account_id;type:uuid;not null;uniqueIndex:idx_vendors_account_id"`
	BusinessName string               `gorm:"column:business_name;not null"`
	Category     enums.VendorCategory `gorm:"column:category;type:text;not null"`
	Address      string               `gorm:"column:address;not null"`
	Products     []Product            `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
