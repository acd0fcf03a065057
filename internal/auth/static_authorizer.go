package auth

import (
	"context"
	"crypto/subtle"
)

// StaticAuthorizer recognizes a single admin API key configured at startup.
// All operations are permitted to the holder of the key.
type StaticAuthorizer struct {
	apiKey string
}

func NewStaticAuthorizer(apiKey string) *StaticAuthorizer {
	return &StaticAuthorizer{apiKey: apiKey}
}

func (a *StaticAuthorizer) Authorize(ctx context.Context, apiKey, operation, resource string) (*ActorInfo, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(a.apiKey)) != 1 {
		return nil, ErrInvalidAPIKey
	}
	return &ActorInfo{
		ActorID:     "tourkita-admin",
		KeyType:     "admin",
		KeyName:     "Configured Admin Key",
		Permissions: []string{"*"},
	}, nil
}
