package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tourkita/admin-backend/internal/blob"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
	"github.com/tourkita/admin-backend/internal/store/sqlite"
)

// --- Fakes ---

// blobFake keeps uploaded objects in memory and records deletions.
type blobFake struct {
	mu      sync.Mutex
	objects map[string]bool
	deleted []string
}

func newBlobFake() *blobFake { return &blobFake{objects: make(map[string]bool)} }

func (b *blobFake) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress blob.ProgressFunc) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	if progress != nil {
		progress(size, size)
	}
	url := "mem://" + key
	b.mu.Lock()
	b.objects[url] = true
	b.mu.Unlock()
	return url, nil
}

func (b *blobFake) Delete(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.objects[url] {
		return fmt.Errorf("object %s not found", url)
	}
	delete(b.objects, url)
	b.deleted = append(b.deleted, url)
	return nil
}

func (b *blobFake) has(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[url]
}

func (b *blobFake) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

func (b *blobFake) deletions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.deleted)
}

// uploadFailBlob fails every upload; deletes still hit the wrapped fake.
type uploadFailBlob struct {
	*blobFake
}

func (u *uploadFailBlob) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress blob.ProgressFunc) (string, error) {
	return "", errors.New("simulated upload failure")
}

// failingMarkerStore wraps a store and fails every marker-image write.
type failingMarkerStore struct {
	store.Store
}

func (f *failingMarkerStore) MarkerImages() store.MarkerImages {
	return &failingMarkerImages{}
}

type failingMarkerImages struct{}

func (f *failingMarkerImages) Put(ctx context.Context, m *model.MarkerImage) (*model.MarkerImage, error) {
	return nil, errors.New("simulated write failure")
}
func (f *failingMarkerImages) Get(ctx context.Context, locationName string) (*model.MarkerImage, error) {
	return nil, model.ErrNotFound
}
func (f *failingMarkerImages) Delete(ctx context.Context, locationName string) error {
	return model.ErrNotFound
}

// --- Helpers ---

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	return s
}

func newTestLocation(t *testing.T, s store.Store, name string) *model.Location {
	t.Helper()
	loc, err := s.Locations().Create(context.Background(), &model.Location{
		Name:     name,
		Category: "Historical",
		Address:  "Intramuros, Manila",
		Latitude: 14.5958, Longitude: 120.9772,
	})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	return loc
}

func assetFile(name, contentType, body string) *AssetFile {
	return &AssetFile{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Reader:      strings.NewReader(body),
	}
}

func saveReq(locationID, category string, image, mdl, video *AssetFile) SaveTargetRequest {
	return SaveTargetRequest{
		LocationID:    locationID,
		Category:      category,
		Name:          "Fort Santiago",
		PhysicalWidth: 2.5,
		Image:         image,
		Model:         mdl,
		Video:         video,
	}
}

// --- Tests ---

func TestSaveTarget_CreateSetsRowsAndFlag(t *testing.T) {
	s := newTestStore(t)
	blobs := newBlobFake()
	svc := NewARAssetService(s, blobs, zerolog.Nop())
	loc := newTestLocation(t, s, "Fort Santiago")
	ctx := context.Background()

	// Progress events are delivered serially, so collecting without a lock
	// is safe and the overall percentage must never go backwards.
	var overall []float64
	tgt, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryBuilding,
		assetFile("fort.jpg", "image/jpeg", "img-bytes"),
		assetFile("fort.glb", "model/gltf-binary", "glb-bytes"),
		assetFile("fort.mp4", "video/mp4", "mp4-bytes"),
	), func(p UploadProgress) {
		overall = append(overall, p.OverallPercent)
	})
	if err != nil {
		t.Fatalf("SaveTarget: %v", err)
	}
	if tgt.TargetID != loc.Name {
		t.Fatalf("building target key: got %q want %q", tgt.TargetID, loc.Name)
	}
	if !blobs.has(tgt.ImageURL) || !blobs.has(tgt.ModelURL) || tgt.VideoURL == nil || !blobs.has(*tgt.VideoURL) {
		t.Fatalf("uploaded blobs missing: %+v", tgt)
	}
	if len(overall) == 0 || overall[len(overall)-1] != 100 {
		t.Fatalf("final progress: got %v want trailing 100", overall)
	}
	for i := 1; i < len(overall); i++ {
		if overall[i] < overall[i-1] {
			t.Fatalf("overall progress went backwards: %v", overall)
		}
	}

	got, err := s.Locations().Get(ctx, loc.LocationID)
	if err != nil {
		t.Fatalf("get location: %v", err)
	}
	if !got.ARCameraSupported || got.ModelURL == nil || *got.ModelURL != tgt.ModelURL {
		t.Fatalf("location ar state: %+v", got)
	}
	mi, err := s.MarkerImages().Get(ctx, loc.Name)
	if err != nil || mi.ImageURL != tgt.ImageURL {
		t.Fatalf("marker image: got=%+v err=%v", mi, err)
	}
}

func TestSaveTarget_EditVideoOnlyPreservesOtherAssets(t *testing.T) {
	s := newTestStore(t)
	blobs := newBlobFake()
	svc := NewARAssetService(s, blobs, zerolog.Nop())
	loc := newTestLocation(t, s, "Fort Santiago")
	ctx := context.Background()

	orig, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryBuilding,
		assetFile("fort.jpg", "image/jpeg", "img"),
		assetFile("fort.glb", "model/gltf-binary", "glb"),
		assetFile("fort.mp4", "video/mp4", "v1"),
	), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oldVideo := *orig.VideoURL

	req := saveReq(loc.LocationID, model.CategoryBuilding, nil, nil, assetFile("fort2.mp4", "video/mp4", "v2"))
	req.TargetID = orig.TargetID
	edited, err := svc.SaveTarget(ctx, req, nil)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.ImageURL != orig.ImageURL || edited.ModelURL != orig.ModelURL {
		t.Fatalf("edit must preserve asset urls: %+v vs %+v", edited, orig)
	}
	if edited.VideoURL == nil || *edited.VideoURL == oldVideo {
		t.Fatalf("video not replaced: %+v", edited)
	}
	if blobs.has(oldVideo) {
		t.Fatalf("replaced video blob not cleaned up: %s", oldVideo)
	}
	if !blobs.has(orig.ImageURL) || !blobs.has(orig.ModelURL) {
		t.Fatalf("untouched blobs must survive an edit")
	}
}

func TestSaveTarget_BuildingOverwritesArtifactMultiplies(t *testing.T) {
	s := newTestStore(t)
	blobs := newBlobFake()
	svc := NewARAssetService(s, blobs, zerolog.Nop())
	loc := newTestLocation(t, s, "Fort Santiago")
	ctx := context.Background()

	if _, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryBuilding,
		assetFile("a.jpg", "image/jpeg", "a"), assetFile("a.glb", "model/gltf-binary", "a"), nil), nil); err != nil {
		t.Fatalf("building #1: %v", err)
	}
	if _, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryBuilding,
		assetFile("b.jpg", "image/jpeg", "b"), assetFile("b.glb", "model/gltf-binary", "b"), nil), nil); err != nil {
		t.Fatalf("building #2: %v", err)
	}
	buildings, err := svc.ListTargets(ctx, model.CategoryBuilding)
	if err != nil || len(buildings) != 1 {
		t.Fatalf("a location carries one building target: n=%d err=%v", len(buildings), err)
	}

	if _, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryArtifact,
		assetFile("c.jpg", "image/jpeg", "c"), assetFile("c.glb", "model/gltf-binary", "c"), nil), nil); err != nil {
		t.Fatalf("artifact #1: %v", err)
	}
	if _, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryArtifact,
		assetFile("d.jpg", "image/jpeg", "d"), assetFile("d.glb", "model/gltf-binary", "d"), nil), nil); err != nil {
		t.Fatalf("artifact #2: %v", err)
	}
	artifacts, err := svc.ListTargets(ctx, model.CategoryArtifact)
	if err != nil || len(artifacts) != 2 {
		t.Fatalf("artifact targets multiply: n=%d err=%v", len(artifacts), err)
	}
}

func TestDeleteTarget_LastTargetClearsFlagAndMarkerImage(t *testing.T) {
	s := newTestStore(t)
	blobs := newBlobFake()
	svc := NewARAssetService(s, blobs, zerolog.Nop())
	loc := newTestLocation(t, s, "Fort Santiago")
	ctx := context.Background()

	t1, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryArtifact,
		assetFile("a.jpg", "image/jpeg", "a"), assetFile("a.glb", "model/gltf-binary", "a"), nil), nil)
	if err != nil {
		t.Fatalf("artifact #1: %v", err)
	}
	t2, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryArtifact,
		assetFile("b.jpg", "image/jpeg", "b"), assetFile("b.glb", "model/gltf-binary", "b"), nil), nil)
	if err != nil {
		t.Fatalf("artifact #2: %v", err)
	}

	if err := svc.DeleteTarget(ctx, t1.TargetID); err != nil {
		t.Fatalf("delete #1: %v", err)
	}
	if blobs.has(t1.ImageURL) || blobs.has(t1.ModelURL) {
		t.Fatalf("deleted target blobs must be removed")
	}
	got, _ := s.Locations().Get(ctx, loc.LocationID)
	if !got.ARCameraSupported {
		t.Fatalf("flag must stay while another target remains")
	}
	if _, err := s.MarkerImages().Get(ctx, loc.Name); err != nil {
		t.Fatalf("marker image must stay while another target remains: %v", err)
	}

	if err := svc.DeleteTarget(ctx, t2.TargetID); err != nil {
		t.Fatalf("delete #2: %v", err)
	}
	got, _ = s.Locations().Get(ctx, loc.LocationID)
	if got.ARCameraSupported || got.ModelURL != nil {
		t.Fatalf("flag must clear with the last target: %+v", got)
	}
	if _, err := s.MarkerImages().Get(ctx, loc.Name); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("marker image must go with the last target: %v", err)
	}
}

func TestSaveTarget_RowWriteFailureKeepsOldBlobs(t *testing.T) {
	s := newTestStore(t)
	blobs := newBlobFake()
	svc := NewARAssetService(s, blobs, zerolog.Nop())
	loc := newTestLocation(t, s, "Fort Santiago")
	ctx := context.Background()

	orig, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryBuilding,
		assetFile("a.jpg", "image/jpeg", "a"), assetFile("a.glb", "model/gltf-binary", "a"), nil), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	failing := NewARAssetService(&failingMarkerStore{Store: s}, blobs, zerolog.Nop())
	req := saveReq(loc.LocationID, model.CategoryBuilding, assetFile("b.jpg", "image/jpeg", "b"), nil, nil)
	req.TargetID = orig.TargetID
	if _, err := failing.SaveTarget(ctx, req, nil); err == nil {
		t.Fatalf("expected row write failure")
	}

	// The failed edit must not delete the previously referenced blobs.
	if !blobs.has(orig.ImageURL) || !blobs.has(orig.ModelURL) {
		t.Fatalf("old blobs must survive a failed row write")
	}
}

func TestSaveTarget_ExplicitMissingTargetRejected(t *testing.T) {
	s := newTestStore(t)
	svc := NewARAssetService(s, newBlobFake(), zerolog.Nop())
	loc := newTestLocation(t, s, "Fort Santiago")

	req := saveReq(loc.LocationID, model.CategoryArtifact, assetFile("a.jpg", "image/jpeg", "a"), assetFile("a.glb", "model/gltf-binary", "a"), nil)
	req.TargetID = "no-such-target"
	if _, err := svc.SaveTarget(context.Background(), req, nil); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("edit of a missing target: err=%v", err)
	}
}

func TestSaveTarget_CreateWithoutRequiredFilesRejected(t *testing.T) {
	s := newTestStore(t)
	blobs := newBlobFake()
	svc := NewARAssetService(s, blobs, zerolog.Nop())
	loc := newTestLocation(t, s, "Fort Santiago")
	ctx := context.Background()

	req := saveReq(loc.LocationID, model.CategoryBuilding, assetFile("a.jpg", "image/jpeg", "a"), nil, nil)
	if _, err := svc.SaveTarget(ctx, req, nil); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("create without model: err=%v", err)
	}
	req = saveReq(loc.LocationID, model.CategoryBuilding, nil, assetFile("a.glb", "model/gltf-binary", "a"), nil)
	if _, err := svc.SaveTarget(ctx, req, nil); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("create without image: err=%v", err)
	}

	// The rejection happens before any upload, so nothing may be orphaned.
	if n := blobs.count(); n != 0 {
		t.Fatalf("rejected create uploaded %d object(s)", n)
	}
}

func TestSaveTarget_UploadFailureLeavesEverythingUntouched(t *testing.T) {
	s := newTestStore(t)
	blobs := newBlobFake()
	svc := NewARAssetService(s, blobs, zerolog.Nop())
	loc := newTestLocation(t, s, "Fort Santiago")
	ctx := context.Background()

	orig, err := svc.SaveTarget(ctx, saveReq(loc.LocationID, model.CategoryBuilding,
		assetFile("a.jpg", "image/jpeg", "a"),
		assetFile("a.glb", "model/gltf-binary", "a"),
		assetFile("a.mp4", "video/mp4", "a"),
	), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	failing := NewARAssetService(s, &uploadFailBlob{blobFake: blobs}, zerolog.Nop())
	req := saveReq(loc.LocationID, model.CategoryBuilding, assetFile("b.jpg", "image/jpeg", "b"), nil, nil)
	req.TargetID = orig.TargetID
	if _, err := failing.SaveTarget(ctx, req, nil); err == nil {
		t.Fatalf("expected upload failure")
	}

	// The failed upload must leave the row, the marker image, and every
	// prior blob exactly as they were.
	got, err := s.ARTargets().Get(ctx, orig.TargetID)
	if err != nil {
		t.Fatalf("get target after failed edit: %v", err)
	}
	if got.ImageURL != orig.ImageURL || got.ModelURL != orig.ModelURL ||
		got.VideoURL == nil || *got.VideoURL != *orig.VideoURL {
		t.Fatalf("target row changed by failed upload: %+v vs %+v", got, orig)
	}
	mi, err := s.MarkerImages().Get(ctx, loc.Name)
	if err != nil || mi.ImageURL != orig.ImageURL {
		t.Fatalf("marker image changed by failed upload: got=%+v err=%v", mi, err)
	}
	if !blobs.has(orig.ImageURL) || !blobs.has(orig.ModelURL) || !blobs.has(*orig.VideoURL) {
		t.Fatalf("prior blobs must survive a failed upload")
	}
	if n := blobs.deletions(); n != 0 {
		t.Fatalf("failed upload deleted %d blob(s)", n)
	}
}
