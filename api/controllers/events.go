package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tavolaops/tavola-backend/api/responses"
	"github.com/tavolaops/tavola-backend/api/validators"
	internalevents "github.com/tavolaops/tavola-backend/internal/events"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
	"github.com/tavolaops/tavola-backend/pkg/logger"
	"github.com/tavolaops/tavola-backend/pkg/types"
)

const eventDateLayout = "2006-01-02"

// PublicListEvents serves the event board. Inactive events stay hidden
// unless the caller asks for them.
func PublicListEvents(svc internalevents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable"))
			return
		}

		events, err := svc.ListEvents(r.Context(), internalevents.ListEventsInput{
			IncludeInactive: validators.ParseQueryBool(r, "include_inactive"),
			UpcomingOnly:    validators.ParseQueryBool(r, "upcoming"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, events)
	}
}

func PublicGetEvent(svc internalevents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.GetEvent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

type specialMenuItemRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=128"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

type createEventRequest struct {
	Title            string                   `json:"title" validate:"required,min=1,max=128"`
	Description      string                   `json:"description,omitempty"`
	EventDate        string                   `json:"event_date" validate:"required"`
	EventTime        string                   `json:"event_time,omitempty" validate:"omitempty,max=32"`
	ImageURL         string                   `json:"image_url,omitempty" validate:"omitempty,url"`
	SpecialMenuItems []specialMenuItemRequest `json:"special_menu_items,omitempty" validate:"omitempty,dive"`
}

func (b createEventRequest) toInput() (internalevents.CreateEventInput, error) {
	eventDate, err := time.Parse(eventDateLayout, strings.TrimSpace(b.EventDate))
	if err != nil {
		return internalevents.CreateEventInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event_date")
	}
	return internalevents.CreateEventInput{
		Title:            strings.TrimSpace(b.Title),
		Description:      b.Description,
		EventDate:        eventDate,
		EventTime:        strings.TrimSpace(b.EventTime),
		ImageURL:         b.ImageURL,
		SpecialMenuItems: toSpecialMenuItems(b.SpecialMenuItems),
	}, nil
}

func toSpecialMenuItems(items []specialMenuItemRequest) types.SpecialMenuItemList {
	specials := make(types.SpecialMenuItemList, 0, len(items))
	for _, item := range items {
		specials = append(specials, types.SpecialMenuItem{
			Name:        strings.TrimSpace(item.Name),
			Description: item.Description,
			Price:       item.Price,
		})
	}
	return specials
}

// AdminCreateEvent publishes a new event to the board.
func AdminCreateEvent(svc internalevents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.CreateEvent(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, event)
	}
}

type updateEventRequest struct {
	Title            *string                   `json:"title,omitempty" validate:"omitempty,min=1,max=128"`
	Description      *string                   `json:"description,omitempty"`
	EventDate        *string                   `json:"event_date,omitempty"`
	EventTime        *string                   `json:"event_time,omitempty" validate:"omitempty,max=32"`
	ImageURL         *string                   `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive         *bool                     `json:"is_active,omitempty"`
	SpecialMenuItems *[]specialMenuItemRequest `json:"special_menu_items,omitempty" validate:"omitempty,dive"`
}

func (b updateEventRequest) toInput() (internalevents.UpdateEventInput, error) {
	input := internalevents.UpdateEventInput{
		Title:       b.Title,
		Description: b.Description,
		EventTime:   b.EventTime,
		ImageURL:    b.ImageURL,
		IsActive:    b.IsActive,
	}
	if b.EventDate != nil {
		eventDate, err := time.Parse(eventDateLayout, strings.TrimSpace(*b.EventDate))
		if err != nil {
			return internalevents.UpdateEventInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event_date")
		}
		input.EventDate = &eventDate
	}
	if b.SpecialMenuItems != nil {
		specials := toSpecialMenuItems(*b.SpecialMenuItems)
		input.SpecialMenuItems = &specials
	}
	return input, nil
}

func AdminUpdateEvent(svc internalevents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.UpdateEvent(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

func AdminToggleEventActive(svc internalevents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.ToggleActive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

func AdminDeleteEvent(svc internalevents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable"))
			return
		}

		id, err := parseURLParamID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteEvent(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
