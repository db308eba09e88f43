package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/eventmartlabs/eventmart-backend/api/middleware"
	ordersvc "github.com/eventmartlabs/eventmart-backend/internal/orders"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
)

type stubOrdersService struct {
	order  *ordersvc.OrderDTO
	detail *ordersvc.OrderDetailDTO
	list   *ordersvc.OrderList
	err    error

	createdBy    uuid.UUID
	createdInput *ordersvc.CreateOrderInput
	listActor    *ordersvc.Actor
	listInput    *ordersvc.ListInput
	statusActor  *ordersvc.Actor
	statusValue  string
}

func (s *stubOrdersService) Create(ctx context.Context, buyerID uuid.UUID, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
	s.createdBy = buyerID
	s.createdInput = &input
	return s.order, s.err
}

func (s *stubOrdersService) Get(ctx context.Context, actor ordersvc.Actor, orderID uuid.UUID) (*ordersvc.OrderDetailDTO, error) {
	return s.detail, s.err
}

func (s *stubOrdersService) List(ctx context.Context, actor ordersvc.Actor, input ordersvc.ListInput) (*ordersvc.OrderList, error) {
	s.listActor = &actor
	s.listInput = &input
	return s.list, s.err
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, actor ordersvc.Actor, orderID uuid.UUID, status string) (*ordersvc.OrderDetailDTO, error) {
	s.statusActor = &actor
	s.statusValue = status
	return s.detail, s.err
}

func authedRequest(req *http.Request, accountID uuid.UUID, role enums.AccountRole, vendorID *uuid.UUID) *http.Request {
	ctx := middleware.WithAccountID(req.Context(), accountID.String())
	ctx = middleware.WithRole(ctx, string(role))
	if vendorID != nil {
		ctx = middleware.WithVendorID(ctx, vendorID.String())
	}
	return req.WithContext(ctx)
}

func TestOrderCreateSuccess(t *testing.T) {
	buyerID := uuid.New()
	vendorID := uuid.New()
	svc := &stubOrdersService{order: &ordersvc.OrderDTO{ID: uuid.New(), BuyerID: buyerID}}
	handler := OrderCreate(svc, nil)

	body := `{"vendor_id":"` + vendorID.String() + `","payment_method":"UPI","items":[{"product_id":"` + uuid.NewString() + `","unit_price":"150.00","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req = authedRequest(req, buyerID, enums.AccountRoleUser, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createdBy != buyerID {
		t.Fatalf("expected buyer %s, got %s", buyerID, svc.createdBy)
	}
	if svc.createdInput == nil || svc.createdInput.VendorID != vendorID {
		t.Fatal("vendor id did not reach service")
	}
}

func TestOrderCreateUnauthenticated(t *testing.T) {
	svc := &stubOrdersService{}
	handler := OrderCreate(svc, nil)

	body := `{"vendor_id":"` + uuid.NewString() + `","payment_method":"UPI","items":[{"product_id":"` + uuid.NewString() + `","unit_price":"1.00","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOrderListBuildsActorAndPagination(t *testing.T) {
	accountID := uuid.New()
	vendorID := uuid.New()
	svc := &stubOrdersService{list: &ordersvc.OrderList{Orders: []ordersvc.OrderDTO{}}}
	handler := OrderList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=10&vendorId="+vendorID.String(), nil)
	req = authedRequest(req, accountID, enums.AccountRoleVendor, &vendorID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.listActor == nil || svc.listActor.Role != enums.AccountRoleVendor {
		t.Fatal("actor role did not reach service")
	}
	if svc.listActor.VendorID == nil || *svc.listActor.VendorID != vendorID {
		t.Fatal("actor vendor id did not reach service")
	}
	if svc.listInput.Params.Limit != 10 {
		t.Fatalf("unexpected limit %d", svc.listInput.Params.Limit)
	}
	if svc.listInput.VendorID == nil || *svc.listInput.VendorID != vendorID {
		t.Fatal("vendor filter did not reach service")
	}
}

func TestOrderListRejectsOversizedLimit(t *testing.T) {
	svc := &stubOrdersService{}
	handler := OrderList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=5000", nil)
	req = authedRequest(req, uuid.New(), enums.AccountRoleUser, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderUpdateStatusForwardsBody(t *testing.T) {
	vendorID := uuid.New()
	orderID := uuid.New()
	svc := &stubOrdersService{detail: &ordersvc.OrderDetailDTO{}}
	handler := OrderUpdateStatus(svc, nil)

	body := `{"status":"RECEIVED"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+orderID.String(), strings.NewReader(body))
	req = authedRequest(req, uuid.New(), enums.AccountRoleVendor, &vendorID)
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.statusValue != "RECEIVED" {
		t.Fatalf("unexpected status %q", svc.statusValue)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := OrderDetail(svc, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
	req = authedRequest(req, uuid.New(), enums.AccountRoleUser, nil)
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
