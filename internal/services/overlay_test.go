package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tourkita/admin-backend/internal/model"
)

func TestOverlayGeometryValidation(t *testing.T) {
	svc := NewOverlayService(newTestStore(t))
	ctx := context.Background()

	valid := json.RawMessage(`{"type":"Polygon","coordinates":[[[120.97,14.59],[120.98,14.59],[120.98,14.60],[120.97,14.59]]]}`)
	ov, err := svc.CreateOverlay(ctx, &model.Overlay{Name: "Intramuros walls", Geometry: valid})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, err := svc.GetOverlay(ctx, ov.OverlayID); err != nil || got.Name != "Intramuros walls" {
		t.Fatalf("get: got=%v err=%v", got, err)
	}

	bad := []struct {
		name string
		o    model.Overlay
	}{
		{"missing name", model.Overlay{Geometry: valid}},
		{"empty geometry", model.Overlay{Name: "x"}},
		{"not json", model.Overlay{Name: "x", Geometry: json.RawMessage(`{broken`)}},
		{"unknown type", model.Overlay{Name: "x", Geometry: json.RawMessage(`{"type":"Circle"}`)}},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateOverlay(ctx, &tc.o); !errors.Is(err, model.ErrInvalid) {
				t.Fatalf("want ErrInvalid, got %v", err)
			}
		})
	}

	if err := svc.DeleteOverlay(ctx, ov.OverlayID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetOverlay(ctx, ov.OverlayID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}
