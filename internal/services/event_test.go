package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tourkita/admin-backend/internal/model"
)

func TestEventValidation(t *testing.T) {
	svc := NewEventService(newTestStore(t))
	ctx := context.Background()
	locID := "1700000000000"
	lat, lng := 14.59, 120.97
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	earlier := start.Add(-48 * time.Hour)

	cases := []struct {
		name    string
		event   model.Event
		wantErr bool
	}{
		{"one-time at location", model.Event{Title: "Founding Day", LocationID: &locID, StartDate: &start}, false},
		{"one-time at custom point", model.Event{Title: "River Parade", CustomLat: &lat, CustomLng: &lng, StartDate: &start}, false},
		{"recurring weekly", model.Event{Title: "Night Tour", LocationID: &locID, Recurring: true, RecurrenceDays: []string{"Friday"}, StartTime: "18:00", EndTime: "21:00"}, false},
		{"missing title", model.Event{LocationID: &locID, StartDate: &start}, true},
		{"no place", model.Event{Title: "Nowhere", StartDate: &start}, true},
		{"recurring without days", model.Event{Title: "Tour", LocationID: &locID, Recurring: true, StartTime: "18:00", EndTime: "21:00"}, true},
		{"recurring bad weekday", model.Event{Title: "Tour", LocationID: &locID, Recurring: true, RecurrenceDays: []string{"Funday"}, StartTime: "18:00", EndTime: "21:00"}, true},
		{"recurring bad time", model.Event{Title: "Tour", LocationID: &locID, Recurring: true, RecurrenceDays: []string{"Friday"}, StartTime: "25:00", EndTime: "21:00"}, true},
		{"one-time without start", model.Event{Title: "Tour", LocationID: &locID}, true},
		{"end before start", model.Event{Title: "Tour", LocationID: &locID, StartDate: &start, EndDate: &earlier}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, &tc.event)
			if tc.wantErr && !errors.Is(err, model.ErrInvalid) {
				t.Fatalf("want ErrInvalid, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEventCRUD(t *testing.T) {
	svc := NewEventService(newTestStore(t))
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	lat, lng := 14.59, 120.97

	ev, err := svc.CreateEvent(ctx, &model.Event{Title: "River Parade", CustomLat: &lat, CustomLng: &lng, StartDate: &start})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ev.Title = "Grand River Parade"
	if got, err := svc.UpdateEvent(ctx, ev); err != nil || got.Title != ev.Title {
		t.Fatalf("update: got=%v err=%v", got, err)
	}
	if err := svc.DeleteEvent(ctx, ev.EventID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetEvent(ctx, ev.EventID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}
