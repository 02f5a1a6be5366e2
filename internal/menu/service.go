package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
)

// Service exposes menu management operations.
type Service interface {
	ListMenu(ctx context.Context, input ListMenuInput) ([]MenuItemDTO, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*MenuItemDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateMenuItem(ctx context.Context, actorID uuid.UUID, input CreateMenuItemInput) (*MenuItemDTO, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, input UpdateMenuItemInput) (*MenuItemDTO, error)
	ToggleAvailability(ctx context.Context, id uuid.UUID) (*MenuItemDTO, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

// ListMenuInput narrows the public menu listing.
type ListMenuInput struct {
	Category           string
	IncludeUnavailable bool
}

// CreateMenuItemInput holds the validated payload to create a menu item.
type CreateMenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    string
	IsAvailable *bool
}

// UpdateMenuItemInput holds optional mutation values for a menu item.
type UpdateMenuItemInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	ImageURL    *string
	IsAvailable *bool
}

type service struct {
	repo *Repository
}

// NewService constructs a menu service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMenu(ctx context.Context, input ListMenuInput) ([]MenuItemDTO, error) {
	items, err := s.repo.List(ctx, ListFilter{
		Category:           strings.TrimSpace(input.Category),
		IncludeUnavailable: input.IncludeUnavailable,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing menu items")
	}
	return NewMenuItemDTOs(items), nil
}

func (s *service) GetMenuItem(ctx context.Context, id uuid.UUID) (*MenuItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading menu item")
	}
	return NewMenuItemDTO(item), nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing menu categories")
	}
	return categories, nil
}

func (s *service) CreateMenuItem(ctx context.Context, actorID uuid.UUID, input CreateMenuItemInput) (*MenuItemDTO, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	item := &models.MenuItem{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Category:    strings.TrimSpace(input.Category),
		ImageURL:    input.ImageURL,
		IsAvailable: true,
		CreatedBy:   actorID,
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating menu item")
	}
	return NewMenuItemDTO(created), nil
}

func (s *service) UpdateMenuItem(ctx context.Context, id uuid.UUID, input UpdateMenuItemInput) (*MenuItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading menu item")
	}

	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	if input.ImageURL != nil {
		item.ImageURL = *input.ImageURL
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating menu item")
	}
	return NewMenuItemDTO(saved), nil
}

func (s *service) ToggleAvailability(ctx context.Context, id uuid.UUID) (*MenuItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading menu item")
	}

	item.IsAvailable = !item.IsAvailable
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggling menu item availability")
	}
	return NewMenuItemDTO(saved), nil
}

func (s *service) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting menu item")
	}
	return nil
}
