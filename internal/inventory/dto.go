package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
)

// InventoryItemDTO represents an inventory item payload returned to clients.
type InventoryItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	MinimumStock    decimal.Decimal `json:"minimum_stock"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	SupplierContact string          `json:"supplier_contact,omitempty"`
	IsLowStock      bool            `json:"is_low_stock"`
	LastRestocked   *time.Time      `json:"last_restocked,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewInventoryItemDTO builds a DTO from the persisted model.
func NewInventoryItemDTO(item *models.InventoryItem) *InventoryItemDTO {
	return &InventoryItemDTO{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Category:        item.Category,
		Unit:            item.Unit,
		CurrentStock:    item.CurrentStock,
		MinimumStock:    item.MinimumStock,
		UnitCost:        item.UnitCost,
		SupplierName:    item.SupplierName,
		SupplierContact: item.SupplierContact,
		IsLowStock:      item.IsLowStock(),
		LastRestocked:   item.LastRestocked,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// NewInventoryItemDTOs converts a slice of models.
func NewInventoryItemDTOs(items []models.InventoryItem) []InventoryItemDTO {
	dtos := make([]InventoryItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *NewInventoryItemDTO(&items[i]))
	}
	return dtos
}

// StockMovementDTO represents one ledger row returned to clients.
type StockMovementDTO struct {
	ID              uuid.UUID          `json:"id"`
	InventoryItemID uuid.UUID          `json:"inventory_item_id"`
	ItemName        string             `json:"item_name,omitempty"`
	Type            enums.MovementType `json:"movement_type"`
	Quantity        decimal.Decimal    `json:"quantity"`
	Reason          string             `json:"reason,omitempty"`
	PerformedBy     uuid.UUID          `json:"performed_by"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewStockMovementDTO builds a DTO from the persisted model. itemName may be
// empty when the referenced item no longer exists.
func NewStockMovementDTO(movement *models.StockMovement, itemName string) *StockMovementDTO {
	return &StockMovementDTO{
		ID:              movement.ID,
		InventoryItemID: movement.InventoryItemID,
		ItemName:        itemName,
		Type:            movement.Type,
		Quantity:        movement.Quantity,
		Reason:          movement.Reason,
		PerformedBy:     movement.PerformedBy,
		CreatedAt:       movement.CreatedAt,
	}
}

// MovementResultDTO pairs a recorded movement with the stock level it
// produced.
type MovementResultDTO struct {
	Movement *StockMovementDTO `json:"movement"`
	Item     *InventoryItemDTO `json:"updated_item"`
}

// UsageReportDTO aggregates recent consumption for reporting.
type UsageReportDTO struct {
	Movements  []StockMovementDTO `json:"movements"`
	TotalUsage decimal.Decimal    `json:"total_usage"`
}
