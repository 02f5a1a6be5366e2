package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
	"github.com/tavolaops/tavola-backend/pkg/types"
)

// Service exposes order intake and back-office operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListOrdersInput) ([]OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*StatsDTO, error)
}

// OrderLineInput is one requested menu line on a new order.
type OrderLineInput struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// CreateOrderInput holds the validated payload for order intake.
type CreateOrderInput struct {
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	Items               []OrderLineInput
	OrderType           enums.OrderType
	SpecialInstructions string
}

// ListOrdersInput narrows the order listing. Invalid filter values are
// dropped by the controller before they reach here.
type ListOrdersInput struct {
	Status    enums.OrderStatus
	OrderType enums.OrderType
	From      *time.Time
	To        *time.Time
}

// UpdateOrderInput holds optional mutation values for the admin order edit.
// An unknown status leaves the stored status untouched.
type UpdateOrderInput struct {
	CustomerName        *string
	CustomerEmail       *string
	CustomerPhone       *string
	OrderType           *enums.OrderType
	SpecialInstructions *string
	Status              *string
}

type menuReader interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
}

type service struct {
	repo     *Repository
	menuRepo menuReader
}

// NewService constructs an order service instance.
func NewService(repo *Repository, menuRepo menuReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if menuRepo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo, menuRepo: menuRepo}, nil
}

// CreateOrder validates every line against the live menu and snapshots
// name and price at order time. One bad line fails the whole order.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	orderType := input.OrderType
	if orderType == "" {
		orderType = enums.OrderTypeDineIn
	}
	if !orderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}

	lines, total, err := s.buildOrderLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName:        strings.TrimSpace(input.CustomerName),
		CustomerEmail:       strings.TrimSpace(input.CustomerEmail),
		CustomerPhone:       strings.TrimSpace(input.CustomerPhone),
		Items:               lines,
		TotalAmount:         total,
		Status:              enums.OrderStatusPending,
		OrderType:           orderType,
		SpecialInstructions: input.SpecialInstructions,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}
	return NewOrderDTO(created), nil
}

func (s *service) buildOrderLines(ctx context.Context, inputs []OrderLineInput) (types.OrderItemList, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, line := range inputs {
		if line.Quantity < 0 {
			return nil, decimal.Zero, pkgerrors.
				New(pkgerrors.CodeValidation, "quantity cannot be negative").
				WithDetails(map[string]any{"menu_item_id": line.MenuItemID})
		}
		ids = append(ids, line.MenuItemID)
	}

	menuItems, err := s.menuRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading menu items")
	}
	byID := make(map[uuid.UUID]*models.MenuItem, len(menuItems))
	for i := range menuItems {
		byID[menuItems[i].ID] = &menuItems[i]
	}

	lines := make(types.OrderItemList, 0, len(inputs))
	total := decimal.Zero
	for _, line := range inputs {
		menuItem, ok := byID[line.MenuItemID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.
				New(pkgerrors.CodeValidation, "menu item not found").
				WithDetails(map[string]any{"menu_item_id": line.MenuItemID})
		}
		if !menuItem.IsAvailable {
			return nil, decimal.Zero, pkgerrors.
				New(pkgerrors.CodeValidation, "menu item is not available").
				WithDetails(map[string]any{"menu_item_id": line.MenuItemID})
		}

		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		lineTotal := menuItem.Price.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, types.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   qty,
			Total:      lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return lines, total, nil
}

func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) ([]OrderDTO, error) {
	orders, err := s.repo.List(ctx, ListFilter{
		Status:    input.Status,
		OrderType: input.OrderType,
		From:      input.From,
		To:        input.To,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return NewOrderDTOs(orders), nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return NewOrderDTO(order), nil
}

// UpdateStatus moves the order to any known status. There is no transition
// graph; the kitchen corrects mistakes by setting the status again.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	order.Status = status
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	return NewOrderDTO(saved), nil
}

func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	if input.OrderType != nil && !input.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}

	applyUpdateToOrder(order, input)

	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
	}
	return NewOrderDTO(saved), nil
}

func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order")
	}
	return nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing order stats")
	}
	return &StatsDTO{
		TotalOrders:     stats.TotalOrders,
		PendingOrders:   stats.PendingOrders,
		CompletedOrders: stats.CompletedOrders,
		TotalRevenue:    stats.TotalRevenue,
	}, nil
}

// applyUpdateToOrder copies optional fields onto the order. A status string
// that does not parse is silently dropped.
func applyUpdateToOrder(order *models.Order, input UpdateOrderInput) {
	if input.CustomerName != nil && strings.TrimSpace(*input.CustomerName) != "" {
		order.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerEmail != nil {
		order.CustomerEmail = strings.TrimSpace(*input.CustomerEmail)
	}
	if input.CustomerPhone != nil {
		order.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
	}
	if input.OrderType != nil {
		order.OrderType = *input.OrderType
	}
	if input.SpecialInstructions != nil {
		order.SpecialInstructions = *input.SpecialInstructions
	}
	if input.Status != nil {
		if status, err := enums.ParseOrderStatus(*input.Status); err == nil {
			order.Status = status
		}
	}
}
