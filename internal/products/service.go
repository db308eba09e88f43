package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes vendor product management and public catalog reads.
type Service interface {
	Create(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, vendorID, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error)
	ListCatalog(ctx context.Context, input CatalogFilter) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	ImageURL    *string
	Description *string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Price       *decimal.Decimal
	ImageURL    *string
	Description *string
}

// CatalogFilter narrows the public catalog listing.
type CatalogFilter struct {
	VendorID *uuid.UUID
	Category string
}

type vendorLister interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, category *enums.VendorCategory) ([]models.Vendor, error)
}

type service struct {
	repo       Repository
	vendorRepo vendorLister
}

// NewService constructs a product service instance.
func NewService(repo Repository, vendorRepo vendorLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if vendorRepo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	return &service{repo: repo, vendorRepo: vendorRepo}, nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := &models.Product{
		VendorID:    vendorID,
		Name:        name,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	dto := ToDTO(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		dto := ToDTO(product)
		return &dto, nil
	}

	if err := s.repo.Update(ctx, product.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	updated, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	dto := ToDTO(updated)
	return &dto, nil
}

// Delete removes a product. Historical order line items keep their frozen
// name and price; the foreign key nulls out on delete.
func (s *service) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	product, err := s.loadOwned(ctx, vendorID, productID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	dto := ToDTO(product)
	return &dto, nil
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor")
	}
	items, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return toDTOs(items), nil
}

// ListCatalog serves the public product listing. A vendor id narrows to that
// vendor; a category narrows to every vendor in the category.
func (s *service) ListCatalog(ctx context.Context, input CatalogFilter) ([]ProductDTO, error) {
	if input.VendorID != nil {
		return s.ListByVendor(ctx, *input.VendorID)
	}

	var categoryFilter *enums.VendorCategory
	if input.Category != "" {
		parsed, err := enums.ParseVendorCategory(input.Category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vendor category").
				WithDetails(map[string]any{"category": input.Category})
		}
		categoryFilter = &parsed
	}

	vendors, err := s.vendorRepo.List(ctx, categoryFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list vendors")
	}

	result := make([]ProductDTO, 0)
	for i := range vendors {
		items, err := s.repo.ListByVendor(ctx, vendors[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
		}
		result = append(result, toDTOs(items)...)
	}
	return result, nil
}

func (s *service) loadOwned(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}
	return product, nil
}

func toDTOs(items []models.Product) []ProductDTO {
	result := make([]ProductDTO, 0, len(items))
	for i := range items {
		result = append(result, ToDTO(&items[i]))
	}
	return result
}
