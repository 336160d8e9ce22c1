package ports

import (
	"context"

	"archie-core-facebook-layer/internal/domain"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// GetByExternalID retrieves an account by its remote identifier.
	// It returns nil, nil when no account exists.
	GetByExternalID(ctx context.Context, externalID string) (*domain.AccountRecord, error)

	// Create stores a new account and returns it with its ID assigned
	Create(ctx context.Context, account *domain.AccountRecord) (*domain.AccountRecord, error)

	// Update overwrites the stored account with the same ID
	Update(ctx context.Context, account *domain.AccountRecord) (*domain.AccountRecord, error)
}
