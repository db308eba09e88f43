package auth

import (
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID uuid.UUID
	Role      enums.AccountRole
	VendorID  *uuid.UUID
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. VendorID is
// only set for vendor accounts.
type AccessTokenClaims struct {
	AccountID uuid.UUID         `json:"account_id"`
	Role      enums.AccountRole `json:"role"`
	VendorID  *uuid.UUID        `json:"vendor_id,omitempty"`
	jwt.RegisteredClaims
}
