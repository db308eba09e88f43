package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/eventmartlabs/eventmart-backend/internal/accounts"
	"github.com/eventmartlabs/eventmart-backend/pkg/config"
	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	"github.com/eventmartlabs/eventmart-backend/pkg/logger"
	"github.com/eventmartlabs/eventmart-backend/pkg/security"
	"gorm.io/gorm"
)

// SeedAdmin provisions the bootstrap administrator from configuration. The
// ADMIN role is only reachable this way; signup never assigns it. Seeding is
// idempotent: an existing account with the configured email is left as is.
func SeedAdmin(ctx context.Context, repo accounts.Repository, cfg config.AdminConfig, pwCfg config.PasswordConfig, logg *logger.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		logg.Info(ctx, "admin seed skipped: no credentials configured")
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.Password, pwCfg)
	if err != nil {
		return err
	}
	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         cfg.Name,
		Role:         enums.AccountRoleAdmin,
	}
	if _, err := repo.Create(ctx, account); err != nil {
		return err
	}
	logg.Info(logg.WithAccountID(ctx, account.ID.String()), "admin account seeded")
	return nil
}
