package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
)

// Account represents the canonical identity entity.
type Account struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string            `gorm:"column:email;type:text;not null;uniqueIndex:idx_accounts_email"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	Name         string            `gorm:"column:name;not null"`
	Role         enums.AccountRole `gorm:"column:role;type:text;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
