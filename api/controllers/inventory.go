package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tavolaops/tavola-backend/api/responses"
	"github.com/tavolaops/tavola-backend/api/validators"
	internalinventory "github.com/tavolaops/tavola-backend/internal/inventory"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
	"github.com/tavolaops/tavola-backend/pkg/logger"
)

// StaffListInventory lists ingredients, optionally narrowed to a category or
// to items at or below their minimum stock.
func StaffListInventory(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		items, err := svc.ListInventory(r.Context(), internalinventory.ListInventoryInput{
			Category:     strings.TrimSpace(r.URL.Query().Get("category")),
			LowStockOnly: validators.ParseQueryBool(r, "low_stock"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func StaffGetInventoryItem(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetInventoryItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func StaffInventoryCategories(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

type createInventoryItemRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=128"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category" validate:"required,min=1,max=64"`
	Unit            string          `json:"unit" validate:"required,min=1,max=32"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	MinimumStock    decimal.Decimal `json:"minimum_stock"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	SupplierContact string          `json:"supplier_contact,omitempty"`
}

// AdminCreateInventoryItem registers a new tracked ingredient.
func AdminCreateInventoryItem(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var body createInventoryItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateInventoryItem(r.Context(), internalinventory.CreateInventoryItemInput{
			Name:            strings.TrimSpace(body.Name),
			Description:     body.Description,
			Category:        strings.TrimSpace(body.Category),
			Unit:            strings.TrimSpace(body.Unit),
			CurrentStock:    body.CurrentStock,
			MinimumStock:    body.MinimumStock,
			UnitCost:        body.UnitCost,
			SupplierName:    body.SupplierName,
			SupplierContact: body.SupplierContact,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateInventoryItemRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	Description     *string          `json:"description,omitempty"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,min=1,max=64"`
	Unit            *string          `json:"unit,omitempty" validate:"omitempty,min=1,max=32"`
	MinimumStock    *decimal.Decimal `json:"minimum_stock,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	SupplierName    *string          `json:"supplier_name,omitempty"`
	SupplierContact *string          `json:"supplier_contact,omitempty"`
}

func AdminUpdateInventoryItem(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateInventoryItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateInventoryItem(r.Context(), id, internalinventory.UpdateInventoryItemInput{
			Name:            body.Name,
			Description:     body.Description,
			Category:        body.Category,
			Unit:            body.Unit,
			MinimumStock:    body.MinimumStock,
			UnitCost:        body.UnitCost,
			SupplierName:    body.SupplierName,
			SupplierContact: body.SupplierContact,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminDeleteInventoryItem(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteInventoryItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type stockMovementRequest struct {
	MovementType string          `json:"movement_type" validate:"required,oneof=in out adjustment"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason,omitempty" validate:"omitempty,max=256"`
}

// StaffRecordStockMovement appends one entry to an item's stock ledger and
// returns the recorded movement alongside the item's recalculated level.
func StaffRecordStockMovement(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		itemID, err := parseURLParamID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body stockMovementRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movementType, err := enums.ParseMovementType(strings.TrimSpace(body.MovementType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
			return
		}

		result, err := svc.ApplyMovement(r.Context(), itemID, actorID, internalinventory.MovementInput{
			Type:     movementType,
			Quantity: body.Quantity,
			Reason:   body.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// StaffListStockMovements reads the ledger, newest first. An item_id query
// narrows it to one ingredient.
func StaffListStockMovements(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalinventory.ListMovementsInput{Limit: limit}
		if raw := strings.TrimSpace(r.URL.Query().Get("item_id")); raw != "" {
			itemID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item_id"))
				return
			}
			input.InventoryItemID = &itemID
		}

		movements, err := svc.ListMovements(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, movements)
	}
}

func AdminInventoryUsageReport(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		report, err := svc.UsageReport(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
