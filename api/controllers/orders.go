package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tavolaops/tavola-backend/api/responses"
	"github.com/tavolaops/tavola-backend/api/validators"
	internalorders "github.com/tavolaops/tavola-backend/internal/orders"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
	"github.com/tavolaops/tavola-backend/pkg/logger"
)

type orderLineRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName        string             `json:"customer_name" validate:"required,min=1,max=128"`
	CustomerEmail       string             `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone       string             `json:"customer_phone,omitempty" validate:"omitempty,max=32"`
	Items               []orderLineRequest `json:"items" validate:"required,min=1,dive"`
	OrderType           string             `json:"order_type,omitempty" validate:"omitempty,oneof=dine_in takeaway delivery"`
	SpecialInstructions string             `json:"special_instructions,omitempty" validate:"omitempty,max=512"`
}

func (b createOrderRequest) toInput() (internalorders.CreateOrderInput, error) {
	lines := make([]internalorders.OrderLineInput, 0, len(b.Items))
	for _, line := range b.Items {
		menuItemID, err := uuid.Parse(strings.TrimSpace(line.MenuItemID))
		if err != nil {
			return internalorders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu_item_id")
		}
		lines = append(lines, internalorders.OrderLineInput{
			MenuItemID: menuItemID,
			Quantity:   line.Quantity,
		})
	}
	return internalorders.CreateOrderInput{
		CustomerName:        strings.TrimSpace(b.CustomerName),
		CustomerEmail:       strings.TrimSpace(b.CustomerEmail),
		CustomerPhone:       strings.TrimSpace(b.CustomerPhone),
		Items:               lines,
		OrderType:           enums.OrderType(strings.TrimSpace(b.OrderType)),
		SpecialInstructions: b.SpecialInstructions,
	}, nil
}

// PublicCreateOrder takes a customer order without authentication.
func PublicCreateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// StaffListOrders lists orders for the kitchen board. Unknown filter values
// are dropped rather than rejected.
func StaffListOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		input := internalorders.ListOrdersInput{
			From: validators.ParseQueryTime(r, "date_from"),
			To:   validators.ParseQueryTime(r, "date_to"),
		}
		if status, err := enums.ParseOrderStatus(strings.TrimSpace(r.URL.Query().Get("status"))); err == nil {
			input.Status = status
		}
		if orderType, err := enums.ParseOrderType(strings.TrimSpace(r.URL.Query().Get("order_type"))); err == nil {
			input.OrderType = orderType
		}

		orders, err := svc.ListOrders(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func PublicGetOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready completed cancelled"`
}

// StaffUpdateOrderStatus moves an order to a new status.
func StaffUpdateOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderRequest struct {
	CustomerName        *string `json:"customer_name,omitempty" validate:"omitempty,min=1,max=128"`
	CustomerEmail       *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone       *string `json:"customer_phone,omitempty" validate:"omitempty,max=32"`
	OrderType           *string `json:"order_type,omitempty" validate:"omitempty,oneof=dine_in takeaway delivery"`
	SpecialInstructions *string `json:"special_instructions,omitempty" validate:"omitempty,max=512"`
	Status              *string `json:"status,omitempty"`
}

// AdminUpdateOrder edits customer details on an order. A status value that is
// not in the whitelist is ignored rather than rejected.
func AdminUpdateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.UpdateOrderInput{
			CustomerName:        body.CustomerName,
			CustomerEmail:       body.CustomerEmail,
			CustomerPhone:       body.CustomerPhone,
			SpecialInstructions: body.SpecialInstructions,
			Status:              body.Status,
		}
		if body.OrderType != nil {
			orderType := enums.OrderType(strings.TrimSpace(*body.OrderType))
			input.OrderType = &orderType
		}

		order, err := svc.UpdateOrder(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminDeleteOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminOrderStats(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
