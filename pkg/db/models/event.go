package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tavolaops/tavola-backend/pkg/types"
)

// Event represents a promotional listing on the public event board.
type Event struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title            string                    `gorm:"column:title;not null"`
	Description      string                    `gorm:"column:description"`
	EventDate        time.Time                 `gorm:"column:event_date;not null"`
	EventTime        string                    `gorm:"column:event_time"`
	ImageURL         string                    `gorm:"column:image_url"`
	IsActive         bool                      `gorm:"column:is_active;not null"`
	SpecialMenuItems types.SpecialMenuItemList `gorm:"column:special_menu_items;type:jsonb"`
	CreatedBy        uuid.UUID                 `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
