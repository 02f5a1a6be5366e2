package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/types"
)

// EventDTO represents an event payload returned to clients.
type EventDTO struct {
	ID               uuid.UUID                 `json:"id"`
	Title            string                    `json:"title"`
	Description      string                    `json:"description,omitempty"`
	EventDate        time.Time                 `json:"event_date"`
	EventTime        string                    `json:"event_time,omitempty"`
	ImageURL         string                    `json:"image_url,omitempty"`
	IsActive         bool                      `json:"is_active"`
	SpecialMenuItems types.SpecialMenuItemList `json:"special_menu_items"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// NewEventDTO builds a DTO from the persisted model.
func NewEventDTO(event *models.Event) *EventDTO {
	specials := event.SpecialMenuItems
	if specials == nil {
		specials = types.SpecialMenuItemList{}
	}
	return &EventDTO{
		ID:               event.ID,
		Title:            event.Title,
		Description:      event.Description,
		EventDate:        event.EventDate,
		EventTime:        event.EventTime,
		ImageURL:         event.ImageURL,
		IsActive:         event.IsActive,
		SpecialMenuItems: specials,
		CreatedAt:        event.CreatedAt,
		UpdatedAt:        event.UpdatedAt,
	}
}

// NewEventDTOs converts a slice of models.
func NewEventDTOs(events []models.Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for i := range events {
		dtos = append(dtos, *NewEventDTO(&events[i]))
	}
	return dtos
}
