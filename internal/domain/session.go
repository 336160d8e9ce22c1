package domain

import "time"

// OAuthSessionTTL bounds how long an authorize redirect may wait for its callback
const OAuthSessionTTL = 10 * time.Minute

// OAuthSession represents a pending Facebook OAuth dialog
type OAuthSession struct {
	State     string    `json:"state"`
	Scopes    []string  `json:"scopes"`
	ReturnURL string    `json:"return_url"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session can no longer complete at now
func (s *OAuthSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
