// Package strategy implements per-source post extraction. Each watched
// page layout has one Strategy that locates post elements, derives stable
// identifiers, and renders notification payloads. A registry maps the
// strategy names used in configuration onto implementations.
package strategy

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// ErrStrategyNotFound is returned when a configuration names an unknown
// strategy. This is fatal for the scraper at construction time.
var ErrStrategyNotFound = errors.New("strategy not found")

// themeColor is the accent color of every rendered notification.
const themeColor = 0x313183

// Strategy extracts posts from one known page layout.
type Strategy interface {
	// PostsSelector returns the selector matching the repeated post
	// elements, most recent first in document order.
	PostsSelector() string

	// Identify derives the stable identifier for one post element.
	// An empty string means the element could not be identified.
	Identify(sel *goquery.Selection) string

	// Render converts one post element into a notification payload.
	// The returned post's ID agrees with Identify; a best-effort payload
	// is returned even when no identifier could be derived, so failures
	// can be reported with context.
	Render(sel *goquery.Selection) domain.Post
}

// Authenticated is implemented by strategies whose source sits behind a
// login. RequestHeaders returns the extra headers for fetching the gated
// page; nil means fetch without credentials.
type Authenticated interface {
	RequestHeaders(cookie string) http.Header
}

// New returns the strategy registered under name. The base URL of the
// watched page is used to resolve relative links.
func New(name, baseURL string) (Strategy, error) {
	switch name {
	case "announcements":
		return &Announcements{base: baseURL}, nil
	case "course":
		return &Course{}, nil
	case "diplomas":
		return &Diplomas{base: baseURL}, nil
	case "events":
		return &Events{base: baseURL}, nil
	case "jobs":
		return &Jobs{base: baseURL}, nil
	case "partners":
		return &Partners{}, nil
	case "projects":
		return &Projects{base: baseURL}, nil
	case "timetables":
		return &Timetables{base: baseURL}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrStrategyNotFound, name)
	}
}

// Names returns all registered strategy names.
func Names() []string {
	return []string{
		"announcements",
		"course",
		"diplomas",
		"events",
		"jobs",
		"partners",
		"projects",
		"timetables",
	}
}

// BaseURL reduces a page URL to its scheme://host origin, the base against
// which that page's relative links are resolved.
func BaseURL(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return pageURL
	}
	return parsed.Scheme + "://" + parsed.Host
}
