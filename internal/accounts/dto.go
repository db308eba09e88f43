package accounts

import (
	"time"

	"github.com/eventmartlabs/eventmart-backend/pkg/db/models"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	"github.com/google/uuid"
)

// AccountDTO is the public account summary. The password hash never leaves
// the persistence layer.
type AccountDTO struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Role      enums.AccountRole `json:"role"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToDTO converts the persistence model to its public shape.
func ToDTO(account *models.Account) AccountDTO {
	return AccountDTO{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Role:      account.Role,
		CreatedAt: account.CreatedAt,
	}
}
