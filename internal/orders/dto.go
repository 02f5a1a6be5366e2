package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	"github.com/tavolaops/tavola-backend/pkg/types"
)

// OrderDTO represents an order payload returned to clients.
type OrderDTO struct {
	ID                  uuid.UUID           `json:"id"`
	CustomerName        string              `json:"customer_name"`
	CustomerEmail       string              `json:"customer_email,omitempty"`
	CustomerPhone       string              `json:"customer_phone,omitempty"`
	Items               types.OrderItemList `json:"items"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	Status              enums.OrderStatus   `json:"status"`
	OrderType           enums.OrderType     `json:"order_type"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	items := order.Items
	if items == nil {
		items = types.OrderItemList{}
	}
	return &OrderDTO{
		ID:                  order.ID,
		CustomerName:        order.CustomerName,
		CustomerEmail:       order.CustomerEmail,
		CustomerPhone:       order.CustomerPhone,
		Items:               items,
		TotalAmount:         order.TotalAmount,
		Status:              order.Status,
		OrderType:           order.OrderType,
		SpecialInstructions: order.SpecialInstructions,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}

// NewOrderDTOs converts a slice of models.
func NewOrderDTOs(orders []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *NewOrderDTO(&orders[i]))
	}
	return dtos
}

// StatsDTO aggregates order counters for the back office dashboard.
type StatsDTO struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}
