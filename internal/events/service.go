package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
	"github.com/tavolaops/tavola-backend/pkg/types"
)

// Service exposes event board operations.
type Service interface {
	ListEvents(ctx context.Context, input ListEventsInput) ([]EventDTO, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	CreateEvent(ctx context.Context, actorID uuid.UUID, input CreateEventInput) (*EventDTO, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*EventDTO, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

// ListEventsInput narrows the event listing.
type ListEventsInput struct {
	IncludeInactive bool
	UpcomingOnly    bool
}

// CreateEventInput holds the validated payload to create an event.
type CreateEventInput struct {
	Title            string
	Description      string
	EventDate        time.Time
	EventTime        string
	ImageURL         string
	SpecialMenuItems types.SpecialMenuItemList
}

// UpdateEventInput holds optional mutation values for an event.
type UpdateEventInput struct {
	Title            *string
	Description      *string
	EventDate        *time.Time
	EventTime        *string
	ImageURL         *string
	IsActive         *bool
	SpecialMenuItems *types.SpecialMenuItemList
}

type service struct {
	repo *Repository
}

// NewService constructs an event service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListEvents(ctx context.Context, input ListEventsInput) ([]EventDTO, error) {
	filter := ListFilter{ActiveOnly: !input.IncludeInactive}
	if input.UpcomingOnly {
		// compare against midnight so today's events still show
		from := time.Now().UTC().Truncate(24 * time.Hour)
		filter.UpcomingFrom = &from
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing events")
	}
	return NewEventDTOs(events), nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading event")
	}
	return NewEventDTO(event), nil
}

func (s *service) CreateEvent(ctx context.Context, actorID uuid.UUID, input CreateEventInput) (*EventDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.EventDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event_date is required")
	}

	specials := input.SpecialMenuItems
	if specials == nil {
		specials = types.SpecialMenuItemList{}
	}

	event := &models.Event{
		Title:            strings.TrimSpace(input.Title),
		Description:      input.Description,
		EventDate:        input.EventDate,
		EventTime:        input.EventTime,
		ImageURL:         input.ImageURL,
		IsActive:         true,
		SpecialMenuItems: specials,
		CreatedBy:        actorID,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating event")
	}
	return NewEventDTO(created), nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading event")
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be blank")
		}
		event.Title = trimmed
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.EventDate != nil {
		event.EventDate = *input.EventDate
	}
	if input.EventTime != nil {
		event.EventTime = *input.EventTime
	}
	if input.ImageURL != nil {
		event.ImageURL = *input.ImageURL
	}
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}
	if input.SpecialMenuItems != nil {
		event.SpecialMenuItems = *input.SpecialMenuItems
	}

	saved, err := s.repo.Save(ctx, event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating event")
	}
	return NewEventDTO(saved), nil
}

func (s *service) ToggleActive(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading event")
	}

	event.IsActive = !event.IsActive
	saved, err := s.repo.Save(ctx, event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggling event")
	}
	return NewEventDTO(saved), nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting event")
	}
	return nil
}
