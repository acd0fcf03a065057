package store

import (
	"context"
	"time"

	"github.com/tourkita/admin-backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres, sqlite).
type Store interface {
	Locations() Locations
	ARTargets() ARTargets
	MarkerImages() MarkerImages
	Events() Events
	Users() Users
	ArchivedUsers() ArchivedUsers
	Feedback() Feedback
	Overlays() Overlays
}

type Locations interface {
	Create(ctx context.Context, l *model.Location) (*model.Location, error)
	Get(ctx context.Context, locationID string) (*model.Location, error)
	GetByName(ctx context.Context, name string) (*model.Location, error)
	List(ctx context.Context) ([]*model.Location, error)
	Update(ctx context.Context, l *model.Location) (*model.Location, error)
	// SetARState flips the AR flag and refreshes the model URL in one write.
	SetARState(ctx context.Context, locationID string, supported bool, modelURL *string) error
	Delete(ctx context.Context, locationID string) error
}

type ARTargets interface {
	// Upsert creates the target or overwrites the row with the same key.
	Upsert(ctx context.Context, t *model.ARTarget) (*model.ARTarget, error)
	Get(ctx context.Context, targetID string) (*model.ARTarget, error)
	// List returns all targets ordered by id; category "" means no filter.
	List(ctx context.Context, category string) ([]*model.ARTarget, error)
	ListByLocation(ctx context.Context, locationName string) ([]*model.ARTarget, error)
	Delete(ctx context.Context, targetID string) error
}

type MarkerImages interface {
	// Put merge-writes the shared recognition image for a location.
	Put(ctx context.Context, m *model.MarkerImage) (*model.MarkerImage, error)
	Get(ctx context.Context, locationName string) (*model.MarkerImage, error)
	Delete(ctx context.Context, locationName string) error
}

type Events interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	Get(ctx context.Context, eventID string) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	Update(ctx context.Context, e *model.Event) (*model.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, userID string) error
}

type ArchivedUsers interface {
	Create(ctx context.Context, a *model.ArchivedUser) (*model.ArchivedUser, error)
	List(ctx context.Context) ([]*model.ArchivedUser, error)
	// ListOlderThan returns archived users whose ArchivedAt is before cutoff.
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*model.ArchivedUser, error)
	Delete(ctx context.Context, userID string) error
}

type Feedback interface {
	Create(ctx context.Context, f *model.Feedback) (*model.Feedback, error)
	List(ctx context.Context) ([]*model.Feedback, error)
}

type Overlays interface {
	Create(ctx context.Context, o *model.Overlay) (*model.Overlay, error)
	Get(ctx context.Context, overlayID string) (*model.Overlay, error)
	List(ctx context.Context) ([]*model.Overlay, error)
	Delete(ctx context.Context, overlayID string) error
}
