package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/eventmartlabs/eventmart-backend/api/middleware"
	"github.com/eventmartlabs/eventmart-backend/internal/orders"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
)

// accountContextID resolves the authenticated account id from the request.
func accountContextID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.AccountIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account context missing")
	}
	accountID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account id")
	}
	return accountID, nil
}

// actorFromRequest assembles the access-guard actor from the auth middleware
// context: account id, role, and the vendor id claim for vendor accounts.
func actorFromRequest(r *http.Request) (orders.Actor, error) {
	accountID, err := accountContextID(r)
	if err != nil {
		return orders.Actor{}, err
	}

	role, err := enums.ParseAccountRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role claim")
	}

	actor := orders.Actor{AccountID: accountID, Role: role}
	if raw := middleware.VendorIDFromContext(r.Context()); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id")
		}
		actor.VendorID = &vendorID
	}
	return actor, nil
}
