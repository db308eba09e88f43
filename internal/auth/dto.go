package auth

import (
	"github.com/eventmartlabs/eventmart-backend/internal/accounts"
	"github.com/eventmartlabs/eventmart-backend/internal/vendors"
	"github.com/google/uuid"
)

// AccountDTO is the public account summary returned by signup and login.
type AccountDTO = accounts.AccountDTO

// SignupUserInput holds the validated buyer signup payload.
type SignupUserInput struct {
	Email    string
	Password string
	Name     string
}

// SignupVendorInput holds the validated vendor signup payload. Account and
// vendor profile are created together.
type SignupVendorInput struct {
	Email        string
	Password     string
	Name         string
	BusinessName string
	Category     string
	Address      string
}

// SignupVendorResponse returns the created account plus its vendor profile.
type SignupVendorResponse struct {
	Account AccountDTO        `json:"account"`
	Vendor  vendors.VendorDTO `json:"vendor"`
}

// LoginInput holds the credentials submitted at login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResponse carries the minted token pair and the account summary.
type LoginResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	Account      AccountDTO `json:"account"`
	VendorID     *uuid.UUID `json:"vendor_id,omitempty"`
}

// RefreshInput carries the expired access token and the refresh token.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// RefreshResponse carries the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
