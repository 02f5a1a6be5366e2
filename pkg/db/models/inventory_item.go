package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem tracks stock for one ingredient or supply. CurrentStock is
// mutated only through stock movements, never by direct field edits.
type InventoryItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	Description     string          `gorm:"column:description"`
	Category        string          `gorm:"column:category;not null"`
	Unit            string          `gorm:"column:unit;not null"`
	CurrentStock    decimal.Decimal `gorm:"column:current_stock;type:numeric(12,3);not null"`
	MinimumStock    decimal.Decimal `gorm:"column:minimum_stock;type:numeric(12,3);not null"`
	UnitCost        decimal.Decimal `gorm:"column:unit_cost;type:numeric(10,2);not null"`
	SupplierName    string          `gorm:"column:supplier_name"`
	SupplierContact string          `gorm:"column:supplier_contact"`
	LastRestocked   *time.Time      `gorm:"column:last_restocked"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock reports whether stock is at or below the configured minimum.
// Computed at read time, never persisted.
func (i InventoryItem) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinimumStock)
}
