package products

import (
	"time"

	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the public shape returned for catalog reads and vendor management.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToDTO converts the persistence model to its public shape.
func ToDTO(product *models.Product) ProductDTO {
	return ProductDTO{
		ID:          product.ID,
		VendorID:    product.VendorID,
		Name:        product.Name,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
		Description: product.Description,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
