package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tavolaops/tavola-backend/pkg/enums"
	"github.com/tavolaops/tavola-backend/pkg/types"
)

// Order captures a customer order with an order-time snapshot of its lines.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName        string              `gorm:"column:customer_name;not null"`
	CustomerEmail       string              `gorm:"column:customer_email"`
	CustomerPhone       string              `gorm:"column:customer_phone"`
	Items               types.OrderItemList `gorm:"column:order_items;type:jsonb;not null"`
	TotalAmount         decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	OrderType           enums.OrderType     `gorm:"column:order_type;type:text;not null;default:'dine_in'"`
	SpecialInstructions string              `gorm:"column:special_instructions"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
