package auth

import (
	"context"
	"errors"
	"testing"
)

func TestStaticAuthorizer(t *testing.T) {
	a := NewStaticAuthorizer("sk_admin_123")
	ctx := context.Background()

	actor, err := a.Authorize(ctx, "sk_admin_123", "POST", "/api/locations")
	if err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
	if actor.KeyType != "admin" {
		t.Fatalf("actor: %+v", actor)
	}

	if _, err := a.Authorize(ctx, "", "POST", "/api/locations"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("missing key: %v", err)
	}
	if _, err := a.Authorize(ctx, "wrong", "POST", "/api/locations"); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("wrong key: %v", err)
	}
}

func TestMockAuthorizer(t *testing.T) {
	m := NewMockAuthorizer()
	ctx := context.Background()

	if _, err := m.Authorize(ctx, LocalDevAPIKey, "DELETE", "/api/events/e1"); err != nil {
		t.Fatalf("dev key rejected: %v", err)
	}
	if _, err := m.Authorize(ctx, "sk_other", "DELETE", "/api/events/e1"); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("foreign key accepted: %v", err)
	}
}
