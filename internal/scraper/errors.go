package scraper

import "errors"

// Cycle-level errors abort the current cycle; the loop retries after the
// error delay. Per-post errors are logged and reported but never abort
// the batch.
var (
	// ErrScraperNotFound is returned when no configuration exists for
	// the requested scraper name.
	ErrScraperNotFound = errors.New("scraper not found")
	// ErrFetch indicates a network-level fetch failure.
	ErrFetch = errors.New("fetch failed")
	// ErrBadStatus indicates a response status outside the accepted set.
	ErrBadStatus = errors.New("unexpected response status")
	// ErrParse indicates the response body could not be parsed.
	ErrParse = errors.New("parse failed")
	// ErrNoPosts indicates the posts selector matched nothing, which
	// usually means the page layout changed.
	ErrNoPosts = errors.New("no posts found")
	// ErrPostID indicates one element produced no identifier.
	ErrPostID = errors.New("post identifier missing")
	// ErrDeliver indicates delivery failed for one post.
	ErrDeliver = errors.New("post delivery failed")
)
