package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/eventmartlabs/eventmart-backend/api/responses"
	"github.com/eventmartlabs/eventmart-backend/api/validators"
	cartsvc "github.com/eventmartlabs/eventmart-backend/internal/cart"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/eventmartlabs/eventmart-backend/pkg/logger"
)

type cartQuoteRequest struct {
	Items []cartQuoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

type cartQuoteItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VendorID  string `json:"vendor_id,omitempty" validate:"omitempty,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CartQuote recomputes per-vendor and grand totals for the submitted cart.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body cartQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]cartsvc.QuoteItem, 0, len(body.Items))
		for _, item := range body.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			vendorID := uuid.Nil
			if item.VendorID != "" {
				vendorID, err = uuid.Parse(item.VendorID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
					return
				}
			}
			items = append(items, cartsvc.QuoteItem{
				ProductID: productID,
				VendorID:  vendorID,
				Quantity:  item.Quantity,
			})
		}

		quote, err := svc.Quote(r.Context(), cartsvc.QuoteInput{Items: items})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
