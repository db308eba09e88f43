package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventmartlabs/eventmart-backend/api/responses"
	"github.com/eventmartlabs/eventmart-backend/api/validators"
	cartsvc "github.com/eventmartlabs/eventmart-backend/internal/cart"
	checkoutsvc "github.com/eventmartlabs/eventmart-backend/internal/checkout"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/eventmartlabs/eventmart-backend/pkg/logger"
)

type checkoutRequest struct {
	PaymentMethod string                `json:"payment_method" validate:"required"`
	ClaimedTotal  *decimal.Decimal      `json:"claimed_total,omitempty"`
	Items         []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

type checkoutItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	VendorID  string          `json:"vendor_id" validate:"required,uuid"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
}

// Checkout splits the submitted cart into one order per vendor inside a
// single transaction.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		buyerID, err := accountContextID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]cartsvc.LineItem, 0, len(body.Items))
		for _, item := range body.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			vendorID, err := uuid.Parse(item.VendorID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
				return
			}
			items = append(items, cartsvc.LineItem{
				ProductID: productID,
				VendorID:  vendorID,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
			})
		}

		result, err := svc.Checkout(r.Context(), buyerID, checkoutsvc.Input{
			PaymentMethod: body.PaymentMethod,
			ClaimedTotal:  body.ClaimedTotal,
			Items:         items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
