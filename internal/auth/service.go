package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventmartlabs/eventmart-backend/internal/accounts"
	"github.com/eventmartlabs/eventmart-backend/internal/vendors"
	pkgauth "github.com/eventmartlabs/eventmart-backend/pkg/auth"
	"github.com/eventmartlabs/eventmart-backend/pkg/auth/session"
	"github.com/eventmartlabs/eventmart-backend/pkg/config"
	"github.com/eventmartlabs/eventmart-backend/pkg/db"
	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	pkgerrors "github.com/eventmartlabs/eventmart-backend/pkg/errors"
	"github.com/eventmartlabs/eventmart-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	emailConstraint           = "idx_accounts_email"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	SignupUser(ctx context.Context, input SignupUserInput) (*AccountDTO, error)
	SignupVendor(ctx context.Context, input SignupVendorInput) (*SignupVendorResponse, error)
	Login(ctx context.Context, input LoginInput) (*LoginResponse, error)
	Refresh(ctx context.Context, input RefreshInput) (*RefreshResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	AccountRepo    accounts.Repository
	VendorRepo     vendors.Repository
	SessionManager sessionManager
	Tx             txRunner
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type service struct {
	accounts accounts.Repository
	vendors  vendors.Repository
	session  sessionManager
	tx       txRunner
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AccountRepo == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if params.VendorRepo == nil {
		return nil, fmt.Errorf("vendor repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		accounts: params.AccountRepo,
		vendors:  params.VendorRepo,
		session:  params.SessionManager,
		tx:       params.Tx,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
	}, nil
}

// SignupUser registers a buyer account with the USER role.
func (s *service) SignupUser(ctx context.Context, input SignupUserInput) (*AccountDTO, error) {
	account, err := s.newAccount(input.Email, input.Password, input.Name, enums.AccountRoleUser)
	if err != nil {
		return nil, err
	}

	if _, err := s.accounts.Create(ctx, account); err != nil {
		if db.IsUniqueViolation(err, emailConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert account")
	}
	dto := accounts.ToDTO(account)
	return &dto, nil
}

// SignupVendor registers a VENDOR account together with its vendor profile in
// one transaction.
func (s *service) SignupVendor(ctx context.Context, input SignupVendorInput) (*SignupVendorResponse, error) {
	category, err := enums.ParseVendorCategory(input.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vendor category").
			WithDetails(map[string]any{"category": input.Category})
	}
	account, err := s.newAccount(input.Email, input.Password, input.Name, enums.AccountRoleVendor)
	if err != nil {
		return nil, err
	}

	var vendor *models.Vendor
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.accounts.WithTx(tx).Create(ctx, account); err != nil {
			if db.IsUniqueViolation(err, emailConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert account")
		}
		vendor = &models.Vendor{
			AccountID:    account.ID,
			BusinessName: strings.TrimSpace(input.BusinessName),
			Category:     category,
			Address:      strings.TrimSpace(input.Address),
		}
		if _, err := s.vendors.WithTx(tx).Create(ctx, vendor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert vendor")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SignupVendorResponse{
		Account: accounts.ToDTO(account),
		Vendor:  vendors.ToDTO(vendor),
	}, nil
}

// Login verifies the credentials and mints an access/refresh token pair.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResponse, error) {
	account, err := s.authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	payload := pkgauth.AccessTokenPayload{
		AccountID: account.ID,
		Role:      account.Role,
		JTI:       session.NewAccessID(),
	}
	if account.Role == enums.AccountRoleVendor {
		vendor, err := s.vendors.FindByAccountID(ctx, account.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor profile")
		}
		vendorID := vendor.ID
		payload.VendorID = &vendorID
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, payload.JTI)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account:      accounts.ToDTO(account),
		VendorID:     payload.VendorID,
	}, nil
}

// Refresh rotates the session and mints a fresh token pair. The expired
// access token is accepted as identity proof; the refresh token is what gets
// verified.
func (s *service) Refresh(ctx context.Context, input RefreshInput) (*RefreshResponse, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, refreshToken, err := s.session.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		AccountID: claims.AccountID,
		Role:      claims.Role,
		VendorID:  claims.VendorID,
		JTI:       newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &RefreshResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout revokes the session named by the token's jti.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil || claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) newAccount(email, password, name string, role enums.AccountRole) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password required")
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return &models.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         role,
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return account, nil
}
