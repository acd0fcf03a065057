package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tourkita/admin-backend/internal/blob"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
)

// UpdateLocationRequest carries a merge-style update: nil fields keep their
// stored values. The AR flag and model URL are not updatable here; they
// belong to the AR asset lifecycle.
type UpdateLocationRequest struct {
	Name         *string
	Category     *string
	Address      *string
	Latitude     *float64
	Longitude    *float64
	Description  *string
	OpeningHours *string
	ImageURL     *string
}

// LocationService handles marker management. Deletes cascade through the AR
// asset lifecycle before the location row goes away.
type LocationService struct {
	store    store.Store
	blobs    blob.Store
	arAssets *ARAssetService
	log      zerolog.Logger
}

func NewLocationService(s store.Store, b blob.Store, ar *ARAssetService, log zerolog.Logger) *LocationService {
	return &LocationService{store: s, blobs: b, arAssets: ar, log: log}
}

func (s *LocationService) CreateLocation(ctx context.Context, l *model.Location) (*model.Location, error) {
	if err := validateLocation(l); err != nil {
		return nil, err
	}
	// AR state is owned by the lifecycle manager; a new marker never has it.
	l.ARCameraSupported = false
	l.ModelURL = nil
	return s.store.Locations().Create(ctx, l)
}

func (s *LocationService) GetLocation(ctx context.Context, locationID string) (*model.Location, error) {
	return s.store.Locations().Get(ctx, locationID)
}

func (s *LocationService) ListLocations(ctx context.Context) ([]*model.Location, error) {
	return s.store.Locations().List(ctx)
}

func (s *LocationService) UpdateLocation(ctx context.Context, locationID string, req UpdateLocationRequest) (*model.Location, error) {
	cur, err := s.store.Locations().Get(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		cur.Name = *req.Name
	}
	if req.Category != nil {
		cur.Category = *req.Category
	}
	if req.Address != nil {
		cur.Address = *req.Address
	}
	if req.Latitude != nil {
		cur.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		cur.Longitude = *req.Longitude
	}
	if req.Description != nil {
		cur.Description = req.Description
	}
	if req.OpeningHours != nil {
		cur.OpeningHours = req.OpeningHours
	}
	if req.ImageURL != nil {
		cur.ImageURL = req.ImageURL
	}
	if err := validateLocation(cur); err != nil {
		return nil, err
	}
	return s.store.Locations().Update(ctx, cur)
}

// DeleteLocation removes a marker. Every AR target at the location goes
// through the lifecycle delete path first, then the row and the primary
// image blob are removed.
func (s *LocationService) DeleteLocation(ctx context.Context, locationID string) error {
	loc, err := s.store.Locations().Get(ctx, locationID)
	if err != nil {
		return err
	}
	if err := s.arAssets.DeleteForLocation(ctx, loc.Name); err != nil {
		return fmt.Errorf("ar cleanup for %s: %w", loc.Name, err)
	}
	if err := s.store.Locations().Delete(ctx, locationID); err != nil {
		return err
	}
	if loc.ImageURL != nil && *loc.ImageURL != "" {
		if err := s.blobs.Delete(ctx, *loc.ImageURL); err != nil {
			s.log.Warn().Err(err).Str("url", *loc.ImageURL).Msg("location image cleanup failed")
		}
	}
	return nil
}

func validateLocation(l *model.Location) error {
	if l.Name == "" {
		return fmt.Errorf("%w: name is required", model.ErrInvalid)
	}
	if l.Category == "" {
		return fmt.Errorf("%w: category is required", model.ErrInvalid)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", model.ErrInvalid)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", model.ErrInvalid)
	}
	return nil
}
