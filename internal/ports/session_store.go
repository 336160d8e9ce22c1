package ports

import (
	"context"

	"archie-core-facebook-layer/internal/domain"
)

// SessionStore keeps pending OAuth sessions keyed by state
type SessionStore interface {
	Save(ctx context.Context, session *domain.OAuthSession) error
	// Get returns nil, nil for an unknown or expired state
	Get(ctx context.Context, state string) (*domain.OAuthSession, error)
	Delete(ctx context.Context, state string) error
}
