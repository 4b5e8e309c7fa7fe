// Package domain provides domain models used across the application.
package domain

import "time"

// Author identifies who published a post, when the source page exposes it.
type Author struct {
	// Name is the display name of the author
	Name string `json:"name"`
	// URL links to the author's profile page
	URL string `json:"url,omitempty"`
	// IconURL is the author's avatar image
	IconURL string `json:"icon_url,omitempty"`
}

// Field is a labeled value rendered inside a post notification.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Post represents one item extracted from a watched page, normalized into
// the payload delivered to the notification endpoint.
type Post struct {
	// ID is the stable identifier used for deduplication. An empty ID
	// means the element could not be identified; such posts are reported
	// as errors and are never cached or delivered.
	ID string `json:"id,omitempty"`
	// Title of the post
	Title string `json:"title"`
	// URL links to the post on the source page
	URL string `json:"url,omitempty"`
	// Description is the post body, truncated for display
	Description string `json:"description,omitempty"`
	// Author of the post, if the page exposes one
	Author *Author `json:"author,omitempty"`
	// Thumbnail is an image URL attached to the post
	Thumbnail string `json:"thumbnail,omitempty"`
	// Fields hold structured values for table-like sources
	Fields []Field `json:"fields,omitempty"`
	// Color is the accent color of the rendered notification
	Color int `json:"color"`
	// Timestamp is when the post was observed
	Timestamp time.Time `json:"timestamp"`
}

// Identified reports whether the post carries a usable identifier.
func (p *Post) Identified() bool {
	return p.ID != ""
}
