package auth

import (
	"context"
)

// ActorInfo describes an authenticated admin actor.
type ActorInfo struct {
	ActorID     string   `json:"actor_id"`
	KeyType     string   `json:"key_type"` // 'standard', 'admin'
	KeyName     string   `json:"key_name"`
	Permissions []string `json:"permissions"`
}

// Authorizer validates API keys and checks permissions in one call.
type Authorizer interface {
	// Authorize validates an API key and checks whether the actor can perform
	// the operation on the resource. Returns ActorInfo if authorized.
	Authorize(ctx context.Context, apiKey, operation, resource string) (*ActorInfo, error)
}
