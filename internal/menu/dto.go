package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
)

// MenuItemDTO represents a menu item payload returned to clients.
type MenuItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewMenuItemDTO builds a DTO from the persisted model.
func NewMenuItemDTO(item *models.MenuItem) *MenuItemDTO {
	return &MenuItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		IsAvailable: item.IsAvailable,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// NewMenuItemDTOs converts a slice of models.
func NewMenuItemDTOs(items []models.MenuItem) []MenuItemDTO {
	dtos := make([]MenuItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *NewMenuItemDTO(&items[i]))
	}
	return dtos
}
