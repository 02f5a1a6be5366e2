package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is the order-time snapshot of one menu line. Price and total are
// copied from the catalog at creation so later menu edits never rewrite
// historical orders.
type OrderItem struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
}

// OrderItemList stores order line snapshots as a JSON document column.
type OrderItemList []OrderItem

// Value implements driver.Valuer.
func (l OrderItemList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner. A corrupted payload decodes to an empty
// list rather than failing the read.
func (l *OrderItemList) Scan(src any) error {
	raw, ok := normalizeJSONSource(src)
	if !ok {
		return fmt.Errorf("unsupported order items source %T", src)
	}
	if len(raw) == 0 {
		*l = OrderItemList{}
		return nil
	}
	var items []OrderItem
	if err := json.Unmarshal(raw, &items); err != nil {
		*l = OrderItemList{}
		return nil
	}
	*l = items
	return nil
}

// SpecialMenuItem describes a promotional dish attached to an event.
type SpecialMenuItem struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// SpecialMenuItemList stores event specials as a JSON document column.
type SpecialMenuItemList []SpecialMenuItem

// Value implements driver.Valuer.
func (l SpecialMenuItemList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal special menu items: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner with the same tolerant decode as
// OrderItemList.
func (l *SpecialMenuItemList) Scan(src any) error {
	raw, ok := normalizeJSONSource(src)
	if !ok {
		return fmt.Errorf("unsupported special menu items source %T", src)
	}
	if len(raw) == 0 {
		*l = SpecialMenuItemList{}
		return nil
	}
	var items []SpecialMenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		*l = SpecialMenuItemList{}
		return nil
	}
	*l = items
	return nil
}

func normalizeJSONSource(src any) ([]byte, bool) {
	switch v := src.(type) {
	case nil:
		return nil, true
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
