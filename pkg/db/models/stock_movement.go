package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tavolaops/tavola-backend/pkg/enums"
)

// StockMovement records one immutable change to an item's stock. Quantity is
// always stored positive; the effect on stock is determined by Type. Rows
// are never updated or deleted, and may outlive the item they reference.
type StockMovement struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InventoryItemID uuid.UUID          `gorm:"column:inventory_item_id;type:uuid;not null;index"`
	Type            enums.MovementType `gorm:"column:movement_type;type:text;not null"`
	Quantity        decimal.Decimal    `gorm:"column:quantity;type:numeric(12,3);not null"`
	Reason          string             `gorm:"column:reason"`
	PerformedBy     uuid.UUID          `gorm:"column:performed_by;type:uuid;not null"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}
