package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/pkg/db"
	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
	"github.com/tavolaops/tavola-backend/pkg/logger"
)

// Service exposes inventory and stock-ledger operations.
type Service interface {
	ListInventory(ctx context.Context, input ListInventoryInput) ([]InventoryItemDTO, error)
	GetInventoryItem(ctx context.Context, id uuid.UUID) (*InventoryItemDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateInventoryItem(ctx context.Context, input CreateInventoryItemInput) (*InventoryItemDTO, error)
	UpdateInventoryItem(ctx context.Context, id uuid.UUID, input UpdateInventoryItemInput) (*InventoryItemDTO, error)
	DeleteInventoryItem(ctx context.Context, id uuid.UUID) error
	ApplyMovement(ctx context.Context, itemID, actorID uuid.UUID, input MovementInput) (*MovementResultDTO, error)
	ListMovements(ctx context.Context, input ListMovementsInput) ([]StockMovementDTO, error)
	UsageReport(ctx context.Context) (*UsageReportDTO, error)
}

// ListInventoryInput narrows the inventory listing.
type ListInventoryInput struct {
	Category     string
	LowStockOnly bool
}

// CreateInventoryItemInput holds the validated payload to create an item.
type CreateInventoryItemInput struct {
	Name            string
	Description     string
	Category        string
	Unit            string
	CurrentStock    decimal.Decimal
	MinimumStock    decimal.Decimal
	UnitCost        decimal.Decimal
	SupplierName    string
	SupplierContact string
}

// UpdateInventoryItemInput holds optional mutation values. Stock levels are
// excluded on purpose; they change only through movements.
type UpdateInventoryItemInput struct {
	Name            *string
	Description     *string
	Category        *string
	Unit            *string
	MinimumStock    *decimal.Decimal
	UnitCost        *decimal.Decimal
	SupplierName    *string
	SupplierContact *string
}

// MovementInput describes one requested stock movement.
type MovementInput struct {
	Type     enums.MovementType
	Quantity decimal.Decimal
	Reason   string
}

// ListMovementsInput narrows the ledger listing.
type ListMovementsInput struct {
	InventoryItemID *uuid.UUID
	Limit           int
}

const defaultMovementLimit = 50

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

func (s *service) ListInventory(ctx context.Context, input ListInventoryInput) ([]InventoryItemDTO, error) {
	items, err := s.repo.List(ctx, ListFilter{
		Category:     strings.TrimSpace(input.Category),
		LowStockOnly: input.LowStockOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing inventory items")
	}
	return NewInventoryItemDTOs(items), nil
}

func (s *service) GetInventoryItem(ctx context.Context, id uuid.UUID) (*InventoryItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
	}
	return NewInventoryItemDTO(item), nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing inventory categories")
	}
	return categories, nil
}

func (s *service) CreateInventoryItem(ctx context.Context, input CreateInventoryItemInput) (*InventoryItemDTO, error) {
	if input.CurrentStock.IsNegative() || input.MinimumStock.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock levels cannot be negative")
	}
	if input.UnitCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
	}

	item := &models.InventoryItem{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Category:        strings.TrimSpace(input.Category),
		Unit:            strings.TrimSpace(input.Unit),
		CurrentStock:    input.CurrentStock,
		MinimumStock:    input.MinimumStock,
		UnitCost:        input.UnitCost,
		SupplierName:    input.SupplierName,
		SupplierContact: input.SupplierContact,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating inventory item")
	}
	return NewInventoryItemDTO(created), nil
}

func (s *service) UpdateInventoryItem(ctx context.Context, id uuid.UUID, input UpdateInventoryItemInput) (*InventoryItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
	}

	if input.MinimumStock != nil && input.MinimumStock.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum stock cannot be negative")
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
	}

	applyUpdateToItem(item, input)

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating inventory item")
	}
	return NewInventoryItemDTO(saved), nil
}

func (s *service) DeleteInventoryItem(ctx context.Context, id uuid.UUID) error {
	// Ledger rows referencing the item stay behind; movement history must
	// survive item deletion.
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting inventory item")
	}
	return nil
}

func (s *service) ApplyMovement(ctx context.Context, itemID, actorID uuid.UUID, input MovementInput) (*MovementResultDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement type")
	}
	if input.Quantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.Quantity.IsZero() && input.Type != enums.MovementTypeAdjustment {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var (
		updated  *models.InventoryItem
		recorded *models.StockMovement
	)
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
		}

		clamped := applyMovementToItem(item, input, time.Now().UTC())
		if clamped {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"inventory_item_id": itemID,
				"movement_type":     input.Type,
				"quantity":          input.Quantity,
			}), "movement would drive stock negative, clamped to zero")
		}

		if _, err := repo.Save(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving stock level")
		}

		// The ledger records the requested movement even when the stock
		// level was clamped.
		movement := &models.StockMovement{
			InventoryItemID: itemID,
			Type:            input.Type,
			Quantity:        input.Quantity,
			Reason:          input.Reason,
			PerformedBy:     actorID,
		}
		if _, err := repo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording stock movement")
		}

		updated = item
		recorded = movement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &MovementResultDTO{
		Movement: NewStockMovementDTO(recorded, updated.Name),
		Item:     NewInventoryItemDTO(updated),
	}, nil
}

func (s *service) ListMovements(ctx context.Context, input ListMovementsInput) ([]StockMovementDTO, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultMovementLimit
	}

	movements, err := s.repo.ListMovements(ctx, MovementFilter{
		InventoryItemID: input.InventoryItemID,
		Limit:           limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing stock movements")
	}
	return s.movementDTOs(ctx, movements)
}

func (s *service) UsageReport(ctx context.Context) (*UsageReportDTO, error) {
	movements, err := s.repo.ListUsage(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading usage report")
	}

	dtos, err := s.movementDTOs(ctx, movements)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, dto := range dtos {
		total = total.Add(dto.Quantity)
	}
	return &UsageReportDTO{Movements: dtos, TotalUsage: total}, nil
}

// movementDTOs resolves item names in one query. Movements referencing a
// deleted item keep an empty name rather than failing the listing.
func (s *service) movementDTOs(ctx context.Context, movements []models.StockMovement) ([]StockMovementDTO, error) {
	names := map[uuid.UUID]string{}
	ids := make([]uuid.UUID, 0, len(movements))
	for _, movement := range movements {
		if _, seen := names[movement.InventoryItemID]; !seen {
			names[movement.InventoryItemID] = ""
			ids = append(ids, movement.InventoryItemID)
		}
	}

	if len(ids) > 0 {
		items, err := s.repo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving movement item names")
		}
		for _, item := range items {
			names[item.ID] = item.Name
		}
	}

	dtos := make([]StockMovementDTO, 0, len(movements))
	for i := range movements {
		dtos = append(dtos, *NewStockMovementDTO(&movements[i], names[movements[i].InventoryItemID]))
	}
	return dtos, nil
}

// applyMovementToItem mutates the item's stock level for the movement and
// reports whether the result was clamped at zero.
func applyMovementToItem(item *models.InventoryItem, input MovementInput, now time.Time) bool {
	var next decimal.Decimal
	switch input.Type {
	case enums.MovementTypeIn:
		next = item.CurrentStock.Add(input.Quantity)
		item.LastRestocked = &now
	case enums.MovementTypeOut:
		next = item.CurrentStock.Sub(input.Quantity)
	case enums.MovementTypeAdjustment:
		next = input.Quantity
	default:
		return false
	}

	clamped := next.IsNegative()
	if clamped {
		next = decimal.Zero
	}
	item.CurrentStock = next
	return clamped
}

func applyUpdateToItem(item *models.InventoryItem, input UpdateInventoryItemInput) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	if input.Unit != nil {
		item.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.MinimumStock != nil {
		item.MinimumStock = *input.MinimumStock
	}
	if input.UnitCost != nil {
		item.UnitCost = *input.UnitCost
	}
	if input.SupplierName != nil {
		item.SupplierName = *input.SupplierName
	}
	if input.SupplierContact != nil {
		item.SupplierContact = *input.SupplierContact
	}
}
