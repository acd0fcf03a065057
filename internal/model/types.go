package model

import (
	"encoding/json"
	"time"
)

// AR target categories. Building targets are keyed by location name so a
// location can carry at most one; artifact targets get generated ids.
const (
	CategoryBuilding = "Building"
	CategoryArtifact = "Relics/Artifacts"
)

// Location is a point of interest shown as a map marker in the mobile app.
// ARCameraSupported and ModelURL are owned by the AR asset lifecycle and
// must not be written by marker management.
type Location struct {
	LocationID        string    `json:"locationId"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Address           string    `json:"address"`
	Latitude          float64   `json:"lat"`
	Longitude         float64   `json:"lng"`
	Description       *string   `json:"description,omitempty"`
	OpeningHours      *string   `json:"openingHours,omitempty"`
	ARCameraSupported bool      `json:"arCameraSupported"`
	ModelURL          *string   `json:"modelUrl,omitempty"`
	ImageURL          *string   `json:"imageUrl,omitempty"`
	CreationTime      time.Time `json:"creationTime"`
	UpdateTime        time.Time `json:"updateTime"`
}

// ARTarget describes one augmented-reality point of interest.
type ARTarget struct {
	TargetID      string    `json:"targetId"`
	Category      string    `json:"category"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	LocationName  string    `json:"locationName"`
	ImageURL      string    `json:"imageUrl"`
	ModelURL      string    `json:"modelUrl"`
	VideoURL      *string   `json:"videoUrl,omitempty"`
	PhysicalWidth float64   `json:"physicalWidth"`
	CreationTime  time.Time `json:"creationTime"`
	UpdateTime    time.Time `json:"updateTime"`
}

// MarkerImage is the shared recognition image for a location, reused by
// every AR target at that location. Its ImageURL always tracks the most
// recently uploaded target image.
type MarkerImage struct {
	LocationName string    `json:"locationName"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"imageUrl"`
	UpdateTime   time.Time `json:"updateTime"`
}

// Event is a one-time or weekly-recurring scheduled activity, either tied
// to a location or placed at a custom map point.
type Event struct {
	EventID        string     `json:"eventId"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	LocationID     *string    `json:"locationId,omitempty"`
	CustomLat      *float64   `json:"customLat,omitempty"`
	CustomLng      *float64   `json:"customLng,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Recurring      bool       `json:"recurring"`
	RecurrenceDays []string   `json:"recurrenceDays,omitempty"`
	StartTime      string     `json:"startTime,omitempty"`
	EndTime        string     `json:"endTime,omitempty"`
	CreationTime   time.Time  `json:"creationTime"`
}

// User is an account in the mobile app, registered or guest.
type User struct {
	UserID         string     `json:"userId"`
	Email          string     `json:"email"`
	DisplayName    *string    `json:"displayName,omitempty"`
	UserType       string     `json:"userType"`
	Status         string     `json:"status"`
	CreationTime   time.Time  `json:"creationTime"`
	LastActiveTime *time.Time `json:"lastActiveTime,omitempty"`
}

// ArchivedUser is a user snapshot moved out of the active collection.
// Rows older than the retention window are removed by the sweep, which
// also requests deletion of the underlying auth identity.
type ArchivedUser struct {
	User
	ArchivedAt    time.Time `json:"archivedAt"`
	ArchiveReason string    `json:"archiveReason"`
}

// Feedback is a user rating record used by the analytics views.
type Feedback struct {
	FeedbackID   string    `json:"feedbackId"`
	UserID       string    `json:"userId"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	LocationID   *string   `json:"locationId,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Overlay is an admin-drawn map shape persisted as GeoJSON geometry.
type Overlay struct {
	OverlayID    string          `json:"overlayId"`
	Name         string          `json:"name"`
	Geometry     json.RawMessage `json:"geometry"`
	CreationTime time.Time       `json:"creationTime"`
}
