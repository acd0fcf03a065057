package auth

import (
	"context"

	"github.com/rs/zerolog"
)

// IdentityProvider removes auth credentials for users whose archived records
// have passed the retention window. Deleting an identity is a privileged
// operation and must happen before the archived row is removed, so a failed
// deletion leaves the row for the next sweep.
type IdentityProvider interface {
	DeleteIdentity(ctx context.Context, userID string) error
}

// LoggingIdentityProvider records requested deletions without calling an
// external provider. Used until the production identity backend is wired.
type LoggingIdentityProvider struct {
	log zerolog.Logger
}

func NewLoggingIdentityProvider(log zerolog.Logger) *LoggingIdentityProvider {
	return &LoggingIdentityProvider{log: log}
}

func (p *LoggingIdentityProvider) DeleteIdentity(ctx context.Context, userID string) error {
	p.log.Info().Str("userId", userID).Msg("identity deletion requested")
	return nil
}
