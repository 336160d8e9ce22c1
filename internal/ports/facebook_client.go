package ports

import (
	"context"

	"archie-core-facebook-layer/internal/domain"
)

// FacebookClient defines the Graph API operations used by the integration
type FacebookClient interface {
	// ValidateToken reports whether the Graph API accepts the token.
	// Failures of any kind yield false.
	ValidateToken(ctx context.Context, accessToken string) bool

	// ListAdAccounts returns the first page of the token owner's ad accounts
	ListAdAccounts(ctx context.Context, accessToken string) ([]domain.AdAccount, error)
}

// FacebookOAuthClient performs the OAuth dialog and code exchange
type FacebookOAuthClient interface {
	AuthCodeURL(state string, scopes []string) (string, error)
	ExchangeCode(ctx context.Context, code string) (string, error)
}
