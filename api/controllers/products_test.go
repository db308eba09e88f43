package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventmartlabs/eventmart-backend/api/middleware"
	productsvc "github.com/eventmartlabs/eventmart-backend/internal/products"
)

type stubProductsService struct {
	product  *productsvc.ProductDTO
	products []productsvc.ProductDTO
	err      error

	createdFor uuid.UUID
	updated    *productsvc.UpdateProductInput
	deletedID  uuid.UUID
	filter     *productsvc.CatalogFilter
}

func (s *stubProductsService) Create(ctx context.Context, vendorID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	s.createdFor = vendorID
	return s.product, s.err
}

func (s *stubProductsService) Update(ctx context.Context, vendorID, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	s.updated = &input
	return s.product, s.err
}

func (s *stubProductsService) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	s.deletedID = productID
	return s.err
}

func (s *stubProductsService) Get(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductsService) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]productsvc.ProductDTO, error) {
	return s.products, s.err
}

func (s *stubProductsService) ListCatalog(ctx context.Context, input productsvc.CatalogFilter) ([]productsvc.ProductDTO, error) {
	s.filter = &input
	return s.products, s.err
}

func withVendorContext(req *http.Request, vendorID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithVendorID(req.Context(), vendorID.String()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestVendorCreateProductSuccess(t *testing.T) {
	vendorID := uuid.New()
	svc := &stubProductsService{product: &productsvc.ProductDTO{ID: uuid.New(), VendorID: vendorID, Name: "Uplight kit"}}
	handler := VendorCreateProduct(svc, nil)

	body := `{"name":"Uplight kit","price":"150.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products", strings.NewReader(body))
	req = withVendorContext(req, vendorID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createdFor != vendorID {
		t.Fatalf("expected create for vendor %s, got %s", vendorID, svc.createdFor)
	}
}

func TestVendorCreateProductMissingVendorContext(t *testing.T) {
	svc := &stubProductsService{}
	handler := VendorCreateProduct(svc, nil)

	body := `{"name":"Uplight kit","price":"150.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestVendorUpdateProductPartialBody(t *testing.T) {
	vendorID := uuid.New()
	productID := uuid.New()
	svc := &stubProductsService{product: &productsvc.ProductDTO{ID: productID, VendorID: vendorID}}
	handler := VendorUpdateProduct(svc, nil)

	body := `{"price":"99.95"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/vendor/products/"+productID.String(), strings.NewReader(body))
	req = withVendorContext(req, vendorID)
	req = withURLParam(req, "productId", productID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.updated == nil || svc.updated.Price == nil {
		t.Fatal("expected price update to reach service")
	}
	if svc.updated.Name != nil {
		t.Fatal("name should not have been set")
	}
	if !svc.updated.Price.Equal(decimal.RequireFromString("99.95")) {
		t.Fatalf("unexpected price %s", svc.updated.Price)
	}
}

func TestProductCatalogInvalidVendorFilter(t *testing.T) {
	svc := &stubProductsService{}
	handler := ProductCatalog(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?vendorId=not-a-uuid", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductCatalogPassesFilters(t *testing.T) {
	vendorID := uuid.New()
	svc := &stubProductsService{products: []productsvc.ProductDTO{{ID: uuid.New(), VendorID: vendorID}}}
	handler := ProductCatalog(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?vendorId="+vendorID.String()+"&category=FLORIST", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.filter == nil || svc.filter.VendorID == nil || *svc.filter.VendorID != vendorID {
		t.Fatal("vendor filter did not reach service")
	}
	if svc.filter.Category != "FLORIST" {
		t.Fatalf("unexpected category filter %q", svc.filter.Category)
	}

	var envelope struct {
		Data struct {
			Products []productsvc.ProductDTO `json:"products"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(envelope.Data.Products))
	}
}
