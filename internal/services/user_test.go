package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tourkita/admin-backend/internal/model"
)

// fakeIdentityProvider records deletions and can fail selected users.
type fakeIdentityProvider struct {
	deleted []string
	failFor map[string]bool
}

func (f *fakeIdentityProvider) DeleteIdentity(ctx context.Context, userID string) error {
	if f.failFor[userID] {
		return errors.New("identity backend unavailable")
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

func TestArchiveUser_MovesRow(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, &fakeIdentityProvider{}, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, &model.User{UserID: "u1", Email: "u1@example.test", UserType: "registered"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ArchiveUser(ctx, "u1", ""); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("archive without reason: err=%v", err)
	}
	au, err := svc.ArchiveUser(ctx, "u1", "inactive for 12 months")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if au.ArchiveReason != "inactive for 12 months" || au.ArchivedAt.IsZero() {
		t.Fatalf("archived row: %+v", au)
	}
	if _, err := svc.GetUser(ctx, "u1"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("source row must be gone: err=%v", err)
	}
	archived, err := svc.ListArchivedUsers(ctx)
	if err != nil || len(archived) != 1 {
		t.Fatalf("list archived: n=%d err=%v", len(archived), err)
	}
}

func TestSweepArchived_RespectsRetentionAndIdentityFailures(t *testing.T) {
	s := newTestStore(t)
	idp := &fakeIdentityProvider{failFor: map[string]bool{"u-stuck": true}}
	svc := NewUserService(s, idp, zerolog.Nop())
	ctx := context.Background()

	old := time.Now().UTC().Add(-120 * 24 * time.Hour)
	for _, id := range []string{"u-old", "u-stuck"} {
		if _, err := s.ArchivedUsers().Create(ctx, &model.ArchivedUser{
			User:          model.User{UserID: id, Email: id + "@example.test", UserType: "registered", Status: "ACTIVE", CreationTime: old},
			ArchivedAt:    old,
			ArchiveReason: "inactive",
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	if _, err := s.ArchivedUsers().Create(ctx, &model.ArchivedUser{
		User:          model.User{UserID: "u-recent", Email: "r@example.test", UserType: "registered", Status: "ACTIVE", CreationTime: old},
		ArchivedAt:    time.Now().UTC(),
		ArchiveReason: "requested",
	}); err != nil {
		t.Fatalf("seed recent: %v", err)
	}

	removed, err := svc.SweepArchived(ctx, ArchiveRetention)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed: got %d want 1", removed)
	}
	if len(idp.deleted) != 1 || idp.deleted[0] != "u-old" {
		t.Fatalf("identity deletions: %v", idp.deleted)
	}

	// The failed row and the recent row both stay for later sweeps.
	remaining, err := svc.ListArchivedUsers(ctx)
	if err != nil || len(remaining) != 2 {
		t.Fatalf("remaining archived: n=%d err=%v", len(remaining), err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc := NewUserService(newTestStore(t), &fakeIdentityProvider{}, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, &model.User{Email: "a@b.test", UserType: "registered"}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("missing id: %v", err)
	}
	if _, err := svc.CreateUser(ctx, &model.User{UserID: "u1", Email: "not-an-email", UserType: "registered"}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("bad email: %v", err)
	}
	if _, err := svc.CreateUser(ctx, &model.User{UserID: "u2", UserType: "guest"}); err != nil {
		t.Fatalf("guest without email: %v", err)
	}
}
