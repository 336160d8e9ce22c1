package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"archie-core-facebook-layer/internal/domain"
	"archie-core-facebook-layer/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	// AdAccountFields is the fixed field list requested from /me/adaccounts
	AdAccountFields = "id,name,account_id,account_status,currency,business_name,business"

	DefaultGraphURL  = "https://graph.facebook.com/v18.0"
	DefaultDialogURL = "https://www.facebook.com/v18.0/dialog/oauth"
	DefaultTimeout   = 10 * time.Second

	maxErrorBody = 64 << 10
)

// DefaultScopes are requested by the OAuth dialog
var DefaultScopes = []string{"ads_read", "ads_management"}

// Config configures the Graph API client
type Config struct {
	GraphURL    string
	DialogURL   string
	AppID       string
	AppSecret   string
	RedirectURL string
	Timeout     time.Duration
}

// Client talks to the Facebook Graph API
type Client struct {
	graphURL   string
	httpClient *http.Client
	oauth      *oauth2.Config
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewClient creates a Graph API client. Every request is bounded by cfg.Timeout.
func NewClient(cfg Config, m *metrics.Metrics, logger zerolog.Logger) *Client {
	graphURL := strings.TrimSuffix(cfg.GraphURL, "/")
	if graphURL == "" {
		graphURL = DefaultGraphURL
	}
	dialogURL := cfg.DialogURL
	if dialogURL == "" {
		dialogURL = DefaultDialogURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		graphURL:   graphURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
		logger:     logger,
	}

	if cfg.AppID != "" && cfg.AppSecret != "" {
		c.oauth = &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   dialogURL,
				TokenURL:  graphURL + "/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
	}

	return c
}

// ValidateToken makes a lightweight /me call. Only HTTP 200 counts as valid;
// transport failures are logged and reported as invalid.
func (c *Client) ValidateToken(ctx context.Context, accessToken string) bool {
	endpoint := c.graphURL + "/me?access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn().Err(redactURLError(err)).Msg("Failed to build token validation request")
		return false
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveGraphRequest("me", 0, started)
		c.logger.Warn().Err(redactURLError(err)).Msg("Token validation network error")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	c.metrics.ObserveGraphRequest("me", resp.StatusCode, started)

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Msg("Token validation failed: token is invalid or revoked")
		return false
	}

	c.logger.Debug().Msg("Token validation successful")
	return true
}

type adAccountsResponse struct {
	Data   []domain.AdAccount `json:"data"`
	Paging *struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// ListAdAccounts returns the ad accounts on the first page of /me/adaccounts.
// Further pages are not followed.
func (c *Client) ListAdAccounts(ctx context.Context, accessToken string) ([]domain.AdAccount, error) {
	endpoint := c.graphURL + "/me/adaccounts?fields=" + AdAccountFields + "&access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ad accounts request: %w", redactURLError(err))
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveGraphRequest("adaccounts", 0, started)
		return nil, &domain.TransportError{Op: "list ad accounts", Err: redactURLError(err)}
	}
	defer resp.Body.Close()
	c.metrics.ObserveGraphRequest("adaccounts", resp.StatusCode, started)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.RemoteAPIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var body adAccountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode ad accounts response: %w", err)
	}

	if body.Paging != nil && body.Paging.Next != "" {
		c.metrics.AdAccountsTruncated()
		c.logger.Warn().
			Int("accounts", len(body.Data)).
			Msg("Ad account listing has more pages; only the first page is used")
	}

	if body.Data == nil {
		return []domain.AdAccount{}, nil
	}
	return body.Data, nil
}

// redactURLError strips the query string, and with it the access token, from
// the URL carried by net/http errors
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	redacted := urlErr.URL
	if i := strings.IndexByte(redacted, '?'); i >= 0 {
		redacted = redacted[:i]
	}
	return &url.Error{Op: urlErr.Op, URL: redacted, Err: urlErr.Err}
}

// AuthCodeURL builds the Facebook login dialog URL
func (c *Client) AuthCodeURL(state string, scopes []string) (string, error) {
	if c.oauth == nil {
		return "", domain.ErrOAuthNotConfigured
	}
	cfg := *c.oauth
	cfg.Scopes = scopes
	return cfg.AuthCodeURL(state), nil
}

// ExchangeCode trades an authorization code for an access token
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	if c.oauth == nil {
		return "", domain.ErrOAuthNotConfigured
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	started := time.Now()
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		statusCode := 0
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			statusCode = retrieveErr.Response.StatusCode
		}
		c.metrics.ObserveGraphRequest("access_token", statusCode, started)
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	c.metrics.ObserveGraphRequest("access_token", http.StatusOK, started)

	return token.AccessToken, nil
}
