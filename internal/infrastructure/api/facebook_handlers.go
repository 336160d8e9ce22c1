package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"archie-core-facebook-layer/internal/application"
	"archie-core-facebook-layer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxRequestBody = 1 << 20

// ImportRequest is the body of POST /oauth/facebook/import
type ImportRequest struct {
	AccessToken string                 `json:"access_token"`
	Accounts    []domain.AccountRecord `json:"accounts"`
}

// RefreshRequest is the body of POST /oauth/facebook/refresh
type RefreshRequest struct {
	AccessToken string `json:"access_token"`
}

// FacebookHandler exposes the Facebook account flows over HTTP
type FacebookHandler struct {
	accounts *application.FacebookAccountService
	oauth    *application.OAuthService
	logger   zerolog.Logger
}

// NewFacebookHandler creates the Facebook HTTP handler
func NewFacebookHandler(accounts *application.FacebookAccountService, oauth *application.OAuthService, logger zerolog.Logger) *FacebookHandler {
	return &FacebookHandler{
		accounts: accounts,
		oauth:    oauth,
		logger:   logger,
	}
}

// RegisterRoutes mounts the handler under /oauth/facebook
func (h *FacebookHandler) RegisterRoutes(r chi.Router) {
	r.Route("/oauth/facebook", func(r chi.Router) {
		r.Post("/import", h.HandleImport)
		r.Post("/refresh", h.HandleRefresh)
		r.Get("/authorize", h.HandleAuthorize)
		r.Get("/callback", h.HandleCallback)
	})
}

// HandleImport validates the token and upserts the submitted accounts
func (h *FacebookHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.accounts.ImportAccounts(r.Context(), req.AccessToken, req.Accounts)
	if errors.Is(err, domain.ErrInvalidToken) {
		h.logger.Warn().Msg("Rejected account import with invalid token")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to import Facebook accounts")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleRefresh pulls the live account list for the token and upserts it
func (h *FacebookHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.accounts.RefreshAccounts(r.Context(), req.AccessToken)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to refresh Facebook accounts")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleAuthorize redirects to the Facebook login dialog
func (h *FacebookHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.oauth.BeginAuthorization(r.Context(), r.URL.Query().Get("return_url"))
	if errors.Is(err, domain.ErrInvalidReturnURL) {
		http.Error(w, "Invalid return_url", http.StatusBadRequest)
		return
	}
	if errors.Is(err, domain.ErrOAuthNotConfigured) {
		http.Error(w, "Facebook OAuth is not configured", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to start Facebook OAuth")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback completes the login dialog and imports the user's ad accounts
func (h *FacebookHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if dialogErr := query.Get("error"); dialogErr != "" {
		h.logger.Warn().
			Str("error", dialogErr).
			Str("reason", query.Get("error_reason")).
			Msg("Facebook OAuth dialog was not completed")
		http.Error(w, "Authorization denied: "+query.Get("error_description"), http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		http.Error(w, "Missing required parameters", http.StatusBadRequest)
		return
	}

	result, err := h.oauth.CompleteAuthorization(r.Context(), code, state)
	switch {
	case errors.Is(err, domain.ErrInvalidSession):
		http.Error(w, "Invalid session", http.StatusUnauthorized)
		return
	case errors.Is(err, domain.ErrOAuthNotConfigured):
		http.Error(w, "Facebook OAuth is not configured", http.StatusServiceUnavailable)
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("Failed to complete Facebook OAuth")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	redirectURL, err := successRedirect(result.ReturnURL, len(result.Summary.Accounts))
	if err != nil {
		h.logger.Error().Err(err).Str("returnURL", result.ReturnURL).Msg("Invalid OAuth return URL")
		writeJSON(w, http.StatusOK, result.Summary)
		return
	}

	h.logger.Info().
		Str("returnURL", redirectURL).
		Msg("Redirecting to frontend after successful OAuth")

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func successRedirect(returnURL string, accounts int) (string, error) {
	u, err := url.Parse(returnURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse return url: %w", err)
	}
	q := u.Query()
	q.Set("facebook_oauth", "success")
	q.Set("accounts", strconv.Itoa(accounts))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
