package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
)

type fakeMenuReader struct {
	rows map[uuid.UUID]*models.MenuItem
}

func (f *fakeMenuReader) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	for _, id := range ids {
		if item, ok := f.rows[id]; ok {
			items = append(items, *item)
		}
	}
	return items, nil
}

func TestBuildOrderLinesSnapshotsLivePrices(t *testing.T) {
	pricedID := uuid.New()
	reader := &fakeMenuReader{rows: map[uuid.UUID]*models.MenuItem{
		pricedID: {
			ID:          pricedID,
			Name:        "Margherita",
			Price:       decimal.NewFromFloat(12.50),
			IsAvailable: true,
		},
	}}
	svc := &service{menuRepo: reader}

	lines, total, err := svc.buildOrderLines(context.Background(), []OrderLineInput{
		{MenuItemID: pricedID, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("build order lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Name != "Margherita" {
		t.Fatalf("expected snapshotted name, got %q", lines[0].Name)
	}
	if !lines[0].Total.Equal(decimal.NewFromFloat(37.50)) {
		t.Fatalf("expected line total 37.50, got %s", lines[0].Total)
	}
	if !total.Equal(decimal.NewFromFloat(37.50)) {
		t.Fatalf("expected total 37.50, got %s", total)
	}
}

func TestBuildOrderLinesDefaultsQuantityToOne(t *testing.T) {
	itemID := uuid.New()
	reader := &fakeMenuReader{rows: map[uuid.UUID]*models.MenuItem{
		itemID: {
			ID:          itemID,
			Name:        "Espresso",
			Price:       decimal.NewFromFloat(2.00),
			IsAvailable: true,
		},
	}}
	svc := &service{menuRepo: reader}

	lines, total, err := svc.buildOrderLines(context.Background(), []OrderLineInput{
		{MenuItemID: itemID},
	})
	if err != nil {
		t.Fatalf("build order lines: %v", err)
	}
	if lines[0].Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", lines[0].Quantity)
	}
	if !total.Equal(decimal.NewFromFloat(2.00)) {
		t.Fatalf("expected total 2.00, got %s", total)
	}
}

func TestBuildOrderLinesRejectsUnknownItem(t *testing.T) {
	knownID := uuid.New()
	missingID := uuid.New()
	reader := &fakeMenuReader{rows: map[uuid.UUID]*models.MenuItem{
		knownID: {
			ID:          knownID,
			Name:        "Espresso",
			Price:       decimal.NewFromFloat(2.00),
			IsAvailable: true,
		},
	}}
	svc := &service{menuRepo: reader}

	_, _, err := svc.buildOrderLines(context.Background(), []OrderLineInput{
		{MenuItemID: knownID, Quantity: 1},
		{MenuItemID: missingID, Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected validation error for unknown menu item")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["menu_item_id"] != missingID {
		t.Fatalf("expected offending menu_item_id in details, got %v", typed.Details())
	}
}

func TestBuildOrderLinesRejectsUnavailableItem(t *testing.T) {
	offID := uuid.New()
	reader := &fakeMenuReader{rows: map[uuid.UUID]*models.MenuItem{
		offID: {
			ID:          offID,
			Name:        "Seasonal Soup",
			Price:       decimal.NewFromFloat(6.00),
			IsAvailable: false,
		},
	}}
	svc := &service{menuRepo: reader}

	_, _, err := svc.buildOrderLines(context.Background(), []OrderLineInput{
		{MenuItemID: offID, Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected validation error for unavailable item")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}
}

func TestApplyUpdateToOrderIgnoresUnknownStatus(t *testing.T) {
	order := &models.Order{Status: enums.OrderStatusPending}

	bogus := "shipped"
	applyUpdateToOrder(order, UpdateOrderInput{Status: &bogus})
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("unknown status must be dropped, got %s", order.Status)
	}

	valid := "completed"
	applyUpdateToOrder(order, UpdateOrderInput{Status: &valid})
	if order.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed status, got %s", order.Status)
	}
}

func TestApplyUpdateToOrderKeepsNameWhenBlank(t *testing.T) {
	order := &models.Order{CustomerName: "Dana"}

	blank := "   "
	applyUpdateToOrder(order, UpdateOrderInput{CustomerName: &blank})
	if order.CustomerName != "Dana" {
		t.Fatalf("blank name must not overwrite, got %q", order.CustomerName)
	}
}
