package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidToken is returned when the Graph API rejects an access token
var ErrInvalidToken = errors.New("invalid access token")

// ErrInvalidSession is returned when an OAuth callback carries an unknown or expired state
var ErrInvalidSession = errors.New("invalid oauth session")

// ErrOAuthNotConfigured is returned when the app id or secret is missing
var ErrOAuthNotConfigured = errors.New("facebook oauth is not configured")

// ErrInvalidReturnURL is returned when an OAuth return URL points outside the frontend origin
var ErrInvalidReturnURL = errors.New("return url is not allowed")

// RemoteAPIError is a non-success response from the Graph API
type RemoteAPIError struct {
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("facebook api error: status %d: %s", e.StatusCode, e.Body)
}

// TransportError is a network level failure reaching the Graph API
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("facebook api %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
