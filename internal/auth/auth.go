// Package auth obtains session cookies for pages that sit behind a
// central login service. Scrapers that need authentication ask a
// Provider for a cookie header before fetching.
package auth

import (
	"context"
	"errors"
	"strings"
)

// Errors returned by providers.
var (
	// ErrNotConfigured is returned when login credentials are missing.
	ErrNotConfigured = errors.New("credentials not configured")
	// ErrLoginFailed is returned when the login service rejects the
	// credentials or the flow does not produce a session.
	ErrLoginFailed = errors.New("login failed")
	// ErrNoLoginForm is returned when the login page cannot be parsed.
	ErrNoLoginForm = errors.New("login form not found")
)

// Provider produces a cookie header for authenticated requests.
type Provider interface {
	// CookieHeader returns the value of the Cookie request header for
	// the given service URL, logging in first if needed.
	CookieHeader(ctx context.Context, serviceURL string) (string, error)
}

// Static is a provider backed by a fixed cookie header, used when a
// session is supplied through configuration instead of a login flow.
type Static struct {
	header string
}

var _ Provider = (*Static)(nil)

// NewStatic builds a provider from a raw Cookie header value such as
// "MoodleSession=abc; lang=en". The value is passed through untouched;
// cookie names are case-sensitive.
func NewStatic(header string) *Static {
	return &Static{header: strings.TrimSpace(header)}
}

// CookieHeader returns the configured cookie header.
func (s *Static) CookieHeader(context.Context, string) (string, error) {
	if s.header == "" {
		return "", ErrNotConfigured
	}
	return s.header, nil
}
