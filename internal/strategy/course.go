package strategy

import (
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// permalinkSelector matches the permanent link of a forum post, which is
// already absolute and serves as the post identifier.
const permalinkSelector = `[title="Permanent link to this post"]`

// Course extracts posts from the course forum. The forum sits behind a
// login, so the strategy supplies a session cookie on every fetch.
type Course struct{}

// PostsSelector returns the selector matching forum posts.
func (s *Course) PostsSelector() string {
	return "article"
}

// Identify returns the post's permanent link.
func (s *Course) Identify(sel *goquery.Selection) string {
	return findAttr(sel, permalinkSelector, "href")
}

// Render builds the notification payload for one forum post, including
// the author block shown on the forum.
func (s *Course) Render(sel *goquery.Selection) domain.Post {
	link := s.Identify(sel)

	authorLink := findAttr(sel, "div.d-flex.flex-column > div > a", "href")
	// The profile link carries per-view parameters after the first "&".
	if idx := strings.IndexByte(authorLink, '&'); idx >= 0 {
		authorLink = authorLink[:idx]
	}

	return domain.Post{
		ID:          link,
		Title:       orUnknown(findText(sel, "h4 > a:last-of-type")),
		URL:         link,
		Description: description(findText(sel, "div.post-content-container")),
		Author: &domain.Author{
			Name:    orUnknown(findText(sel, "h4 + div > a")),
			URL:     authorLink,
			IconURL: findAttr(sel, `img[title*="Picture of"]`, "src"),
		},
		Color:     themeColor,
		Timestamp: time.Now(),
	}
}

// RequestHeaders attaches the forum session cookie. Without a cookie the
// fetch goes out unauthenticated and the server decides what to serve.
func (s *Course) RequestHeaders(cookie string) http.Header {
	if cookie == "" {
		return nil
	}

	header := http.Header{}
	header.Set("Cookie", cookie)
	return header
}
