package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tourkita/admin-backend/internal/blob"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
)

// AssetFile is one binary supplied with a save request.
type AssetFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// SaveTargetRequest carries the form fields of an AR target create/update.
// TargetID is empty on create; Building targets are keyed by location name,
// artifact targets get a generated id.
type SaveTargetRequest struct {
	TargetID      string
	LocationID    string
	Category      string
	Name          string
	Description   *string
	PhysicalWidth float64
	Image         *AssetFile
	Model         *AssetFile
	Video         *AssetFile
}

// UploadProgress is one progress event during asset upload.
// OverallPercent is the arithmetic mean across the files being uploaded.
type UploadProgress struct {
	File           string
	FilePercent    float64
	OverallPercent float64
}

// ProgressFunc consumes upload progress events. May be nil. Events are
// delivered serially, so OverallPercent never goes backwards.
type ProgressFunc func(UploadProgress)

// ARAssetService orchestrates the AR asset lifecycle: binary uploads, the
// target row, the shared marker image, the location AR flag, and orphaned
// blob cleanup. It upholds:
//   - a location's AR flag is set iff at least one target references it;
//   - an edit that supplies no file preserves the existing asset URLs;
//   - a replaced blob is deleted only after the row writes succeed.
type ARAssetService struct {
	store store.Store
	blobs blob.Store
	log   zerolog.Logger
}

func NewARAssetService(s store.Store, b blob.Store, log zerolog.Logger) *ARAssetService {
	return &ARAssetService{store: s, blobs: b, log: log}
}

// SaveTarget creates or updates one AR target. Steps are strictly ordered:
// uploads, then row writes, then old-blob cleanup. A failure aborts the
// remaining steps; completed steps are not rolled back, so an upload that
// precedes a failed row write leaves a new orphaned blob, never a row
// pointing at a missing asset.
func (s *ARAssetService) SaveTarget(ctx context.Context, req SaveTargetRequest, onProgress ProgressFunc) (*model.ARTarget, error) {
	if err := validateSaveTarget(req); err != nil {
		return nil, err
	}

	loc, err := s.store.Locations().Get(ctx, req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", req.LocationID, err)
	}

	targetID, prior, err := s.resolveTarget(ctx, req, loc.Name)
	if err != nil {
		return nil, err
	}

	var oldImage, oldModel, oldVideo string
	if prior != nil {
		oldImage = prior.ImageURL
		oldModel = prior.ModelURL
		if prior.VideoURL != nil {
			oldVideo = *prior.VideoURL
		}
	}

	// Required-asset presence is decidable up front; reject before any blob
	// I/O so a validation failure never leaves an orphaned upload.
	if req.Image == nil && oldImage == "" {
		return nil, fmt.Errorf("%w: recognition image is required", model.ErrInvalid)
	}
	if req.Model == nil && oldModel == "" {
		return nil, fmt.Errorf("%w: 3D model is required", model.ErrInvalid)
	}

	newImage, newModel, newVideo, err := s.uploadAssets(ctx, req, onProgress)
	if err != nil {
		return nil, err
	}

	finalImage := pick(newImage, oldImage)
	finalModel := pick(newModel, oldModel)
	finalVideo := pick(newVideo, oldVideo)

	target := &model.ARTarget{
		TargetID:      targetID,
		Category:      req.Category,
		Name:          req.Name,
		Description:   req.Description,
		LocationName:  loc.Name,
		ImageURL:      finalImage,
		ModelURL:      finalModel,
		PhysicalWidth: req.PhysicalWidth,
	}
	if finalVideo != "" {
		target.VideoURL = &finalVideo
	}
	if prior != nil {
		target.CreationTime = prior.CreationTime
	}

	out, err := s.store.ARTargets().Upsert(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("write ar target: %w", err)
	}
	if _, err := s.store.MarkerImages().Put(ctx, &model.MarkerImage{
		LocationName: loc.Name,
		Name:         loc.Name,
		ImageURL:     finalImage,
	}); err != nil {
		return nil, fmt.Errorf("write marker image: %w", err)
	}
	if err := s.store.Locations().SetARState(ctx, loc.LocationID, true, &finalModel); err != nil {
		return nil, fmt.Errorf("update location ar state: %w", err)
	}

	// The rows now point at the final assets; replaced blobs are orphans.
	s.cleanupReplaced(ctx, oldImage, finalImage)
	s.cleanupReplaced(ctx, oldModel, finalModel)
	s.cleanupReplaced(ctx, oldVideo, finalVideo)

	return out, nil
}

// DeleteTarget removes a target, its blobs, and, when it was the last target
// at its location, the shared marker image and the location's AR flag.
func (s *ARAssetService) DeleteTarget(ctx context.Context, targetID string) error {
	t, err := s.store.ARTargets().Get(ctx, targetID)
	if err != nil {
		return fmt.Errorf("ar target %s: %w", targetID, err)
	}
	if err := s.store.ARTargets().Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete ar target: %w", err)
	}

	s.deleteBlob(ctx, t.ImageURL)
	s.deleteBlob(ctx, t.ModelURL)
	if t.VideoURL != nil {
		s.deleteBlob(ctx, *t.VideoURL)
	}

	remaining, err := s.store.ARTargets().ListByLocation(ctx, t.LocationName)
	if err != nil {
		return fmt.Errorf("list targets for %s: %w", t.LocationName, err)
	}
	if len(remaining) > 0 {
		// Other targets still reference the location; flag and shared image stay.
		return nil
	}

	loc, err := s.store.Locations().GetByName(ctx, t.LocationName)
	if err == nil {
		if err := s.store.Locations().SetARState(ctx, loc.LocationID, false, nil); err != nil {
			return fmt.Errorf("clear location ar state: %w", err)
		}
	} else if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("location %s: %w", t.LocationName, err)
	}

	if err := s.store.MarkerImages().Delete(ctx, t.LocationName); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("delete marker image: %w", err)
	}
	return nil
}

// DeleteForLocation runs the target delete path for every target at the
// location. Used by the marker-management cascade.
func (s *ARAssetService) DeleteForLocation(ctx context.Context, locationName string) error {
	targets, err := s.store.ARTargets().ListByLocation(ctx, locationName)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if err := s.DeleteTarget(ctx, t.TargetID); err != nil {
			return err
		}
	}
	return nil
}

// ListTargets returns every target ordered by id; category "" means all.
func (s *ARAssetService) ListTargets(ctx context.Context, category string) ([]*model.ARTarget, error) {
	if category != "" && category != model.CategoryBuilding && category != model.CategoryArtifact {
		return nil, fmt.Errorf("%w: unknown category %q", model.ErrInvalid, category)
	}
	return s.store.ARTargets().List(ctx, category)
}

// GetTarget returns one target by id.
func (s *ARAssetService) GetTarget(ctx context.Context, targetID string) (*model.ARTarget, error) {
	return s.store.ARTargets().Get(ctx, targetID)
}

func validateSaveTarget(req SaveTargetRequest) error {
	if req.LocationID == "" {
		return fmt.Errorf("%w: location is required", model.ErrInvalid)
	}
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", model.ErrInvalid)
	}
	if req.Category != model.CategoryBuilding && req.Category != model.CategoryArtifact {
		return fmt.Errorf("%w: unknown category %q", model.ErrInvalid, req.Category)
	}
	if req.PhysicalWidth <= 0 {
		return fmt.Errorf("%w: physical width must be positive", model.ErrInvalid)
	}
	return nil
}

// resolveTarget decides the row key and loads the record being edited.
// Building targets use the location name as key, so a second create for the
// same location becomes an overwrite of the existing row.
func (s *ARAssetService) resolveTarget(ctx context.Context, req SaveTargetRequest, locationName string) (string, *model.ARTarget, error) {
	targetID := req.TargetID
	if targetID == "" {
		if req.Category == model.CategoryBuilding {
			targetID = locationName
		} else {
			targetID = uuid.New().String()
		}
	}
	prior, err := s.store.ARTargets().Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			if req.TargetID != "" {
				return "", nil, fmt.Errorf("ar target %s: %w", req.TargetID, err)
			}
			return targetID, nil, nil
		}
		return "", nil, err
	}
	return targetID, prior, nil
}

// uploadAssets fans the supplied files out to the blob store and waits for
// all of them. At most three uploads run concurrently (image, model, video).
func (s *ARAssetService) uploadAssets(ctx context.Context, req SaveTargetRequest, onProgress ProgressFunc) (image, modelURL, video string, err error) {
	type slot struct {
		name   string
		folder string
		file   *AssetFile
		dest   *string
	}
	slots := []slot{
		{"image", blob.FolderMarkers, req.Image, &image},
		{"model", blob.FolderModels, req.Model, &modelURL},
		{"video", blob.FolderVideos, req.Video, &video},
	}

	var active []string
	for _, sl := range slots {
		if sl.file != nil {
			active = append(active, sl.name)
		}
	}
	if len(active) == 0 {
		return "", "", "", nil
	}
	tracker := newProgressTracker(active, onProgress)

	g, gctx := errgroup.WithContext(ctx)
	for _, sl := range slots {
		if sl.file == nil {
			continue
		}
		sl := sl
		g.Go(func() error {
			key := blob.Key(sl.folder, sl.file.Filename)
			url, err := s.blobs.Upload(gctx, key, sl.file.Reader, sl.file.Size, sl.file.ContentType, tracker.fileProgress(sl.name))
			if err != nil {
				return fmt.Errorf("upload %s %q: %w", sl.name, sl.file.Filename, err)
			}
			*sl.dest = url
			tracker.complete(sl.name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", "", err
	}
	return image, modelURL, video, nil
}

// cleanupReplaced deletes an old blob that the final record no longer
// references. Failures are logged, never surfaced: the rows already point at
// the new asset.
func (s *ARAssetService) cleanupReplaced(ctx context.Context, oldURL, finalURL string) {
	if oldURL == "" || oldURL == finalURL {
		return
	}
	s.deleteBlob(ctx, oldURL)
}

func (s *ARAssetService) deleteBlob(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.blobs.Delete(ctx, url); err != nil {
		s.log.Warn().Err(err).Str("url", url).Msg("orphaned blob cleanup failed")
	}
}

func pick(updated, previous string) string {
	if updated != "" {
		return updated
	}
	return previous
}

// progressTracker aggregates per-file fractions into the overall mean.
type progressTracker struct {
	mu        sync.Mutex
	fractions map[string]float64
	fn        ProgressFunc
}

func newProgressTracker(files []string, fn ProgressFunc) *progressTracker {
	fr := make(map[string]float64, len(files))
	for _, f := range files {
		fr[f] = 0
	}
	return &progressTracker{fractions: fr, fn: fn}
}

func (t *progressTracker) fileProgress(name string) blob.ProgressFunc {
	if t.fn == nil {
		return nil
	}
	return func(transferred, total int64) {
		var frac float64
		if total > 0 {
			frac = float64(transferred) / float64(total)
			if frac > 1 {
				frac = 1
			}
		}
		t.report(name, frac)
	}
}

// complete forces a file to 100%, covering uploads with unknown sizes.
func (t *progressTracker) complete(name string) {
	if t.fn == nil {
		return
	}
	t.report(name, 1)
}

func (t *progressTracker) report(name string, frac float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fractions[name] = frac
	var sum float64
	for _, f := range t.fractions {
		sum += f
	}
	overall := sum / float64(len(t.fractions)) * 100
	// Deliver under the lock so events stay in order across the concurrent
	// uploads.
	t.fn(UploadProgress{File: name, FilePercent: frac * 100, OverallPercent: overall})
}
