package vendors

import (
	"time"

	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	"github.com/google/uuid"
)

// VendorDTO is the public shape returned for vendor listings.
type VendorDTO struct {
	ID           uuid.UUID            `json:"id"`
	BusinessName string               `json:"business_name"`
	Category     enums.VendorCategory `json:"category"`
	Address      string               `json:"address"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ToDTO converts the persistence model to its public shape.
func ToDTO(vendor *models.Vendor) VendorDTO {
	return VendorDTO{
		ID:           vendor.ID,
		BusinessName: vendor.BusinessName,
		Category:     vendor.Category,
		Address:      vendor.Address,
		CreatedAt:    vendor.CreatedAt,
	}
}
