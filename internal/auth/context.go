package auth

import (
	"context"

	"github.com/google/uuid"
)

type ownerIDKey struct{}

func ContextWithOwnerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerIDKey{}, id)
}

// OwnerIDFromContext returns the authenticated account owner, set by the
// Auth middleware.
func OwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerIDKey{}).(uuid.UUID)
	return id, ok
}
