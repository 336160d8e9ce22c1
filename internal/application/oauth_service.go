package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"archie-core-facebook-layer/internal/domain"
	"archie-core-facebook-layer/internal/ports"

	"github.com/rs/zerolog"
)

// OAuthService drives the Facebook login dialog and imports the accounts
// of the user who completed it
type OAuthService struct {
	oauthClient      ports.FacebookOAuthClient
	sessions         ports.SessionStore
	accounts         *FacebookAccountService
	scopes           []string
	defaultReturnURL string
	logger           zerolog.Logger
	now              func() time.Time
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	oauthClient ports.FacebookOAuthClient,
	sessions ports.SessionStore,
	accounts *FacebookAccountService,
	scopes []string,
	defaultReturnURL string,
	logger zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		oauthClient:      oauthClient,
		sessions:         sessions,
		accounts:         accounts,
		scopes:           scopes,
		defaultReturnURL: defaultReturnURL,
		logger:           logger,
		now:              time.Now,
	}
}

// OAuthResult is the outcome of a completed OAuth callback
type OAuthResult struct {
	ReturnURL string
	Summary   *ReconcileSummary
}

// BeginAuthorization stores a new session and returns the dialog URL to redirect to
func (s *OAuthService) BeginAuthorization(ctx context.Context, returnURL string) (string, error) {
	if returnURL == "" {
		returnURL = s.defaultReturnURL
	} else if !sameOrigin(returnURL, s.defaultReturnURL) {
		s.logger.Warn().Str("returnURL", returnURL).Msg("Rejected OAuth return URL outside the frontend origin")
		return "", domain.ErrInvalidReturnURL
	}

	// Generate random state for CSRF protection
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	authURL, err := s.oauthClient.AuthCodeURL(state, s.scopes)
	if err != nil {
		return "", err
	}

	now := s.now()
	session := &domain.OAuthSession{
		State:     state,
		Scopes:    s.scopes,
		ReturnURL: returnURL,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.OAuthSessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", err
	}

	s.logger.Info().
		Strs("scopes", s.scopes).
		Str("returnURL", returnURL).
		Msg("Starting Facebook OAuth dialog")

	return authURL, nil
}

// CompleteAuthorization checks the state, exchanges the code and refreshes
// the accounts visible to the new token
func (s *OAuthService) CompleteAuthorization(ctx context.Context, code, state string) (*OAuthResult, error) {
	session, err := s.sessions.Get(ctx, state)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrInvalidSession
	}

	if err := s.sessions.Delete(ctx, state); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete OAuth session")
	}

	accessToken, err := s.oauthClient.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	summary, err := s.accounts.RefreshAccounts(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("accounts", len(summary.Accounts)).
		Msg("Facebook OAuth completed")

	return &OAuthResult{
		ReturnURL: session.ReturnURL,
		Summary:   summary,
	}, nil
}

// sameOrigin reports whether candidate is an absolute URL with the scheme and host of allowed
func sameOrigin(candidate, allowed string) bool {
	c, err := url.Parse(candidate)
	if err != nil || c.Scheme == "" || c.Host == "" {
		return false
	}
	a, err := url.Parse(allowed)
	if err != nil {
		return false
	}
	return strings.EqualFold(c.Scheme, a.Scheme) && strings.EqualFold(c.Host, a.Host)
}
