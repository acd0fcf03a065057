package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Unique test identifiers
	suffix := uuid.New().String()
	locName := "Fort Santiago " + suffix

	// Locations
	loc, err := s.Locations().Create(ctx, &model.Location{
		Name:     locName,
		Category: "Historical",
		Address:  "Intramuros, Manila",
		Latitude: 14.5958, Longitude: 120.9772,
	})
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	if loc.LocationID == "" {
		t.Fatalf("CreateLocation: empty location id")
	}
	if got, err := s.Locations().Get(ctx, loc.LocationID); err != nil || got == nil || got.Name != locName {
		t.Fatalf("GetLocation: got=%v err=%v", got, err)
	}
	if got, err := s.Locations().GetByName(ctx, locName); err != nil || got == nil || got.LocationID != loc.LocationID {
		t.Fatalf("GetLocationByName: got=%v err=%v", got, err)
	}
	if lst, err := s.Locations().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListLocations: n=%d err=%v", len(lst), err)
	}

	loc.Address = "Santa Clara St, Intramuros"
	if got, err := s.Locations().Update(ctx, loc); err != nil || got.Address != loc.Address {
		t.Fatalf("UpdateLocation: got=%v err=%v", got, err)
	}

	modelURL := "https://cdn.example/models/fort.glb"
	if err := s.Locations().SetARState(ctx, loc.LocationID, true, &modelURL); err != nil {
		t.Fatalf("SetARState: %v", err)
	}
	if got, _ := s.Locations().Get(ctx, loc.LocationID); !got.ARCameraSupported || got.ModelURL == nil || *got.ModelURL != modelURL {
		t.Fatalf("SetARState not persisted: got=%+v", got)
	}
	if err := s.Locations().SetARState(ctx, loc.LocationID, false, nil); err != nil {
		t.Fatalf("SetARState clear: %v", err)
	}
	if got, _ := s.Locations().Get(ctx, loc.LocationID); got.ARCameraSupported || got.ModelURL != nil {
		t.Fatalf("SetARState clear not persisted: got=%+v", got)
	}

	// AR targets: create, overwrite via upsert, filters
	tgt, err := s.ARTargets().Upsert(ctx, &model.ARTarget{
		TargetID:      locName,
		Category:      model.CategoryBuilding,
		Name:          locName,
		LocationName:  locName,
		ImageURL:      "https://cdn.example/markers/a.jpg",
		ModelURL:      "https://cdn.example/models/a.glb",
		PhysicalWidth: 2.5,
	})
	if err != nil {
		t.Fatalf("UpsertTarget: %v", err)
	}
	created := tgt.CreationTime
	tgt.ImageURL = "https://cdn.example/markers/b.jpg"
	tgt2, err := s.ARTargets().Upsert(ctx, tgt)
	if err != nil {
		t.Fatalf("UpsertTarget overwrite: %v", err)
	}
	if !tgt2.CreationTime.Equal(created) {
		t.Fatalf("overwrite must keep creation time: %v vs %v", tgt2.CreationTime, created)
	}
	if got, err := s.ARTargets().Get(ctx, locName); err != nil || got.ImageURL != tgt.ImageURL {
		t.Fatalf("GetTarget after overwrite: got=%v err=%v", got, err)
	}
	if lst, err := s.ARTargets().List(ctx, model.CategoryBuilding); err != nil || len(lst) == 0 {
		t.Fatalf("ListTargets building: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.ARTargets().ListByLocation(ctx, locName); err != nil || len(lst) != 1 {
		t.Fatalf("ListTargetsByLocation: n=%d err=%v", len(lst), err)
	}

	// Marker images merge-write on the location key
	if _, err := s.MarkerImages().Put(ctx, &model.MarkerImage{LocationName: locName, Name: locName, ImageURL: "https://cdn.example/markers/a.jpg"}); err != nil {
		t.Fatalf("PutMarkerImage: %v", err)
	}
	if _, err := s.MarkerImages().Put(ctx, &model.MarkerImage{LocationName: locName, Name: locName, ImageURL: "https://cdn.example/markers/b.jpg"}); err != nil {
		t.Fatalf("PutMarkerImage overwrite: %v", err)
	}
	if got, err := s.MarkerImages().Get(ctx, locName); err != nil || got.ImageURL != "https://cdn.example/markers/b.jpg" {
		t.Fatalf("GetMarkerImage: got=%v err=%v", got, err)
	}
	if err := s.MarkerImages().Delete(ctx, locName); err != nil {
		t.Fatalf("DeleteMarkerImage: %v", err)
	}
	if _, err := s.MarkerImages().Get(ctx, locName); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetMarkerImage after delete: err=%v", err)
	}

	// Target cleanup and not-found mapping
	if err := s.ARTargets().Delete(ctx, locName); err != nil {
		t.Fatalf("DeleteTarget: %v", err)
	}
	if _, err := s.ARTargets().Get(ctx, locName); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetTarget after delete: err=%v", err)
	}

	// Events: recurring round-trip keeps the weekday list
	ev, err := s.Events().Create(ctx, &model.Event{
		Title:          "Night Tour " + suffix,
		LocationID:     &loc.LocationID,
		Recurring:      true,
		RecurrenceDays: []string{"Friday", "Saturday"},
		StartTime:      "18:00",
		EndTime:        "21:00",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if got, err := s.Events().Get(ctx, ev.EventID); err != nil || len(got.RecurrenceDays) != 2 || got.StartTime != "18:00" {
		t.Fatalf("GetEvent: got=%+v err=%v", got, err)
	}
	ev.Title = "Evening Tour " + suffix
	if got, err := s.Events().Update(ctx, ev); err != nil || got.Title != ev.Title {
		t.Fatalf("UpdateEvent: got=%v err=%v", got, err)
	}
	if lst, err := s.Events().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListEvents: n=%d err=%v", len(lst), err)
	}
	if err := s.Events().Delete(ctx, ev.EventID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	// Users and the archived copy
	userID := "u-" + suffix
	if _, err := s.Users().Create(ctx, &model.User{UserID: userID, Email: userID + "@example.test", UserType: "registered"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	u, err := s.Users().Get(ctx, userID)
	if err != nil || u.Status != "ACTIVE" {
		t.Fatalf("GetUser: got=%+v err=%v", u, err)
	}
	if lst, err := s.Users().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListUsers: n=%d err=%v", len(lst), err)
	}

	oldArchive := time.Now().UTC().Add(-100 * 24 * time.Hour)
	if _, err := s.ArchivedUsers().Create(ctx, &model.ArchivedUser{User: *u, ArchivedAt: oldArchive, ArchiveReason: "inactive"}); err != nil {
		t.Fatalf("CreateArchivedUser: %v", err)
	}
	if err := s.Users().Delete(ctx, userID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.Users().Get(ctx, userID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser after archive: err=%v", err)
	}
	if lst, err := s.ArchivedUsers().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListArchivedUsers: n=%d err=%v", len(lst), err)
	}
	expired, err := s.ArchivedUsers().ListOlderThan(ctx, time.Now().UTC().Add(-90*24*time.Hour))
	if err != nil || len(expired) == 0 {
		t.Fatalf("ListOlderThan: n=%d err=%v", len(expired), err)
	}
	if lst, err := s.ArchivedUsers().ListOlderThan(ctx, oldArchive.Add(-time.Hour)); err != nil || len(lst) != 0 {
		t.Fatalf("ListOlderThan before archive: n=%d err=%v", len(lst), err)
	}
	if err := s.ArchivedUsers().Delete(ctx, userID); err != nil {
		t.Fatalf("DeleteArchivedUser: %v", err)
	}

	// Feedback
	if _, err := s.Feedback().Create(ctx, &model.Feedback{UserID: userID, Rating: 4, LocationID: &loc.LocationID}); err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}
	if lst, err := s.Feedback().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListFeedback: n=%d err=%v", len(lst), err)
	}

	// Overlays round-trip raw GeoJSON
	geom := json.RawMessage(`{"type":"Polygon","coordinates":[[[120.97,14.59],[120.98,14.59],[120.98,14.60],[120.97,14.59]]]}`)
	ov, err := s.Overlays().Create(ctx, &model.Overlay{Name: "Intramuros walls " + suffix, Geometry: geom})
	if err != nil {
		t.Fatalf("CreateOverlay: %v", err)
	}
	got, err := s.Overlays().Get(ctx, ov.OverlayID)
	if err != nil {
		t.Fatalf("GetOverlay: %v", err)
	}
	var a, b interface{}
	if json.Unmarshal(geom, &a) != nil || json.Unmarshal(got.Geometry, &b) != nil {
		t.Fatalf("overlay geometry not valid JSON: %s", got.Geometry)
	}
	if lst, err := s.Overlays().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListOverlays: n=%d err=%v", len(lst), err)
	}
	if err := s.Overlays().Delete(ctx, ov.OverlayID); err != nil {
		t.Fatalf("DeleteOverlay: %v", err)
	}
	if _, err := s.Overlays().Get(ctx, ov.OverlayID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetOverlay after delete: err=%v", err)
	}

	// Location delete last; dependent rows are already gone
	if err := s.Locations().Delete(ctx, loc.LocationID); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}
	if _, err := s.Locations().Get(ctx, loc.LocationID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetLocation after delete: err=%v", err)
	}
}
