package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/tourkita/admin-backend/internal/auth"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ArchiveRetention is how long archived users are kept before the sweep
// removes them and their auth identity.
const ArchiveRetention = 90 * 24 * time.Hour

// UserService handles accounts and the archive lifecycle. Archival moves the
// row from users to archived_users; the periodic sweep deletes rows past the
// retention window and asks the identity provider to remove the credential.
type UserService struct {
	store    store.Store
	identity auth.IdentityProvider
	log      zerolog.Logger
}

func NewUserService(s store.Store, idp auth.IdentityProvider, log zerolog.Logger) *UserService {
	return &UserService{store: s, identity: idp, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if u.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrInvalid)
	}
	if u.UserType != "registered" && u.UserType != "guest" {
		return nil, fmt.Errorf("%w: userType must be registered or guest", model.ErrInvalid)
	}
	if u.UserType == "registered" && !emailRx.MatchString(u.Email) {
		return nil, fmt.Errorf("%w: invalid email", model.ErrInvalid)
	}
	return s.store.Users().Create(ctx, u)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.store.Users().List(ctx)
}

// ArchiveUser copies the row into archived_users with the reason and a
// timestamp, then deletes the source row.
func (s *UserService) ArchiveUser(ctx context.Context, userID, reason string) (*model.ArchivedUser, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: archive reason is required", model.ErrInvalid)
	}
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	archived := &model.ArchivedUser{
		User:          *u,
		ArchivedAt:    time.Now().UTC(),
		ArchiveReason: reason,
	}
	out, err := s.store.ArchivedUsers().Create(ctx, archived)
	if err != nil {
		return nil, fmt.Errorf("archive user %s: %w", userID, err)
	}
	if err := s.store.Users().Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("remove archived source %s: %w", userID, err)
	}
	return out, nil
}

func (s *UserService) ListArchivedUsers(ctx context.Context) ([]*model.ArchivedUser, error) {
	return s.store.ArchivedUsers().List(ctx)
}

// SweepArchived deletes archived users older than the retention window.
// The auth identity is removed first; if that fails the row stays so the
// next sweep retries. Returns the number of rows removed.
func (s *UserService) SweepArchived(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-retention)
	expired, err := s.store.ArchivedUsers().ListOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, au := range expired {
		if err := s.identity.DeleteIdentity(ctx, au.UserID); err != nil {
			s.log.Error().Stack().Err(err).Str("userId", au.UserID).Msg("identity deletion failed; keeping archived row for retry")
			continue
		}
		if err := s.store.ArchivedUsers().Delete(ctx, au.UserID); err != nil {
			return removed, fmt.Errorf("delete archived user %s: %w", au.UserID, err)
		}
		removed++
	}
	return removed, nil
}
