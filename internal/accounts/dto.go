package accounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
)

// AccountDTO represents an account payload returned to clients. The
// password hash never leaves the service layer.
type AccountDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewAccountDTO builds a DTO from the persisted model.
func NewAccountDTO(account *models.Account) *AccountDTO {
	return &AccountDTO{
		ID:          account.ID,
		Username:    account.Username,
		Email:       account.Email,
		Role:        account.Role,
		IsActive:    account.IsActive,
		LastLoginAt: account.LastLoginAt,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

// NewAccountDTOs converts a slice of models.
func NewAccountDTOs(accounts []models.Account) []AccountDTO {
	dtos := make([]AccountDTO, 0, len(accounts))
	for i := range accounts {
		dtos = append(dtos, *NewAccountDTO(&accounts[i]))
	}
	return dtos
}
