package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
)

var (
	timeOfDayRx = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

	weekdays = map[string]bool{
		"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
		"Friday": true, "Saturday": true, "Sunday": true,
	}
)

// EventService handles one-time and weekly-recurring event scheduling.
type EventService struct {
	store store.Store
}

func NewEventService(s store.Store) *EventService { return &EventService{store: s} }

func (s *EventService) CreateEvent(ctx context.Context, e *model.Event) (*model.Event, error) {
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	return s.store.Events().Create(ctx, e)
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return s.store.Events().Get(ctx, eventID)
}

func (s *EventService) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return s.store.Events().List(ctx)
}

func (s *EventService) UpdateEvent(ctx context.Context, e *model.Event) (*model.Event, error) {
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	return s.store.Events().Update(ctx, e)
}

func (s *EventService) DeleteEvent(ctx context.Context, eventID string) error {
	return s.store.Events().Delete(ctx, eventID)
}

func validateEvent(e *model.Event) error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", model.ErrInvalid)
	}
	if e.LocationID == nil && (e.CustomLat == nil || e.CustomLng == nil) {
		return fmt.Errorf("%w: a location or a custom map point is required", model.ErrInvalid)
	}
	if e.Recurring {
		if len(e.RecurrenceDays) == 0 {
			return fmt.Errorf("%w: recurring events need at least one weekday", model.ErrInvalid)
		}
		for _, d := range e.RecurrenceDays {
			if !weekdays[d] {
				return fmt.Errorf("%w: unknown weekday %q", model.ErrInvalid, d)
			}
		}
		if !timeOfDayRx.MatchString(e.StartTime) || !timeOfDayRx.MatchString(e.EndTime) {
			return fmt.Errorf("%w: recurring events need HH:MM start and end times", model.ErrInvalid)
		}
		return nil
	}
	if e.StartDate == nil {
		return fmt.Errorf("%w: one-time events need a start date", model.ErrInvalid)
	}
	if e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", model.ErrInvalid)
	}
	return nil
}
