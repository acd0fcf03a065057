package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
)

// OverlayService persists admin-drawn map shapes as GeoJSON geometry.
type OverlayService struct {
	store store.Store
}

func NewOverlayService(s store.Store) *OverlayService { return &OverlayService{store: s} }

func (s *OverlayService) CreateOverlay(ctx context.Context, o *model.Overlay) (*model.Overlay, error) {
	if o.Name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrInvalid)
	}
	if err := validateGeometry(o.Geometry); err != nil {
		return nil, err
	}
	return s.store.Overlays().Create(ctx, o)
}

func (s *OverlayService) GetOverlay(ctx context.Context, overlayID string) (*model.Overlay, error) {
	return s.store.Overlays().Get(ctx, overlayID)
}

func (s *OverlayService) ListOverlays(ctx context.Context) ([]*model.Overlay, error) {
	return s.store.Overlays().List(ctx)
}

func (s *OverlayService) DeleteOverlay(ctx context.Context, overlayID string) error {
	return s.store.Overlays().Delete(ctx, overlayID)
}

// validateGeometry checks for a GeoJSON object with a known geometry type.
// Coordinate payloads are stored as-is; the map widget owns their shape.
func validateGeometry(raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: geometry is required", model.ErrInvalid)
	}
	var g struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return fmt.Errorf("%w: geometry is not valid JSON", model.ErrInvalid)
	}
	switch g.Type {
	case "Point", "LineString", "Polygon", "MultiPoint", "MultiLineString", "MultiPolygon", "GeometryCollection", "Feature", "FeatureCollection":
		return nil
	}
	return fmt.Errorf("%w: unknown GeoJSON type %q", model.ErrInvalid, g.Type)
}
