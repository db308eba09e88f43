package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	accountsvc "github.com/eventmartlabs/eventmart-backend/internal/accounts"
	"github.com/eventmartlabs/eventmart-backend/internal/auth"
	cartsvc "github.com/eventmartlabs/eventmart-backend/internal/cart"
	checkoutsvc "github.com/eventmartlabs/eventmart-backend/internal/checkout"
	ordersvc "github.com/eventmartlabs/eventmart-backend/internal/orders"
	productsvc "github.com/eventmartlabs/eventmart-backend/internal/products"
	vendorsvc "github.com/eventmartlabs/eventmart-backend/internal/vendors"
	pkgauth "github.com/eventmartlabs/eventmart-backend/pkg/auth"
	"github.com/eventmartlabs/eventmart-backend/pkg/auth/session"
	"github.com/eventmartlabs/eventmart-backend/pkg/config"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	"github.com/eventmartlabs/eventmart-backend/pkg/logger"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) SignupUser(ctx context.Context, input auth.SignupUserInput) (*auth.AccountDTO, error) {
	return &auth.AccountDTO{ID: uuid.New(), Email: input.Email}, nil
}

func (stubAuthService) SignupVendor(ctx context.Context, input auth.SignupVendorInput) (*auth.SignupVendorResponse, error) {
	return &auth.SignupVendorResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, input auth.RefreshInput) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubAccountsService struct{}

func (stubAccountsService) List(ctx context.Context) ([]accountsvc.AccountDTO, error) {
	return []accountsvc.AccountDTO{}, nil
}

func (stubAccountsService) Get(ctx context.Context, id uuid.UUID) (*accountsvc.AccountDTO, error) {
	return &accountsvc.AccountDTO{ID: id}, nil
}

func (stubAccountsService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubVendorsService struct{}

func (stubVendorsService) List(ctx context.Context, category string) ([]vendorsvc.VendorDTO, error) {
	return []vendorsvc.VendorDTO{}, nil
}

func (stubVendorsService) Get(ctx context.Context, id uuid.UUID) (*vendorsvc.VendorDTO, error) {
	return &vendorsvc.VendorDTO{ID: id}, nil
}

func (stubVendorsService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubProductsService struct{}

func (stubProductsService) Create(ctx context.Context, vendorID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New(), VendorID: vendorID}, nil
}

func (stubProductsService) Update(ctx context.Context, vendorID, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: productID, VendorID: vendorID}, nil
}

func (stubProductsService) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	return nil
}

func (stubProductsService) Get(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: productID}, nil
}

func (stubProductsService) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}

func (stubProductsService) ListCatalog(ctx context.Context, input productsvc.CatalogFilter) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}

type stubCartService struct{}

func (stubCartService) Quote(ctx context.Context, input cartsvc.QuoteInput) (*cartsvc.QuoteResult, error) {
	return &cartsvc.QuoteResult{}, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Checkout(ctx context.Context, buyerID uuid.UUID, input checkoutsvc.Input) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, buyerID uuid.UUID, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: uuid.New(), BuyerID: buyerID}, nil
}

func (stubOrdersService) Get(ctx context.Context, actor ordersvc.Actor, orderID uuid.UUID) (*ordersvc.OrderDetailDTO, error) {
	return &ordersvc.OrderDetailDTO{}, nil
}

func (stubOrdersService) List(ctx context.Context, actor ordersvc.Actor, input ordersvc.ListInput) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{Orders: []ordersvc.OrderDTO{}}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, actor ordersvc.Actor, orderID uuid.UUID, status string) (*ordersvc.OrderDetailDTO, error) {
	return &ordersvc.OrderDetailDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		SessionChecker: stubSessionChecker{},
		Auth:           stubAuthService{},
		Accounts:       stubAccountsService{},
		Vendors:        stubVendorsService{},
		Products:       stubProductsService{},
		Cart:           stubCartService{},
		Checkout:       stubCheckoutService{},
		Orders:         stubOrdersService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.AccountRole, vendorID *uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		AccountID: uuid.New(),
		Role:      role,
		VendorID:  vendorID,
		JTI:       session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public vendors got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public products got %d", resp.Code)
	}
}

func TestOrdersRequireJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleUser, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestVendorGroupRequiresVendorRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodDelete, "/api/v1/vendor/products/"+uuid.NewString(), nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleUser, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer got %d", resp.Code)
	}

	vendorID := uuid.New()
	vendor := httptest.NewRequest(http.MethodDelete, "/api/v1/vendor/products/"+uuid.NewString(), nil)
	vendor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleVendor, &vendorID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, vendor)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for vendor got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/accounts", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleUser, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/accounts", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AccountRoleAdmin, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestHealthLiveAlwaysUp(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}
