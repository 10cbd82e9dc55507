package roi

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const orgIDKey contextKey = "organization_id"

// ContextWithOrgID attaches the authenticated organization to the
// request context. Every query the engine issues is scoped by it.
func ContextWithOrgID(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, orgIDKey, orgID)
}

// OrgIDFromContext extracts the organization from the context.
// Returns ErrNoOrganization if it was never attached.
func OrgIDFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(orgIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoOrganization
	}
	return id, nil
}
