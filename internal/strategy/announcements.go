package strategy

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// Announcements extracts faculty announcements: titled links inside
// repeated view rows.
type Announcements struct {
	base string
}

// PostsSelector returns the selector matching announcement rows.
func (s *Announcements) PostsSelector() string {
	return "div.views-row"
}

// Identify returns the absolute announcement URL.
func (s *Announcements) Identify(sel *goquery.Selection) string {
	return resolve(s.base, findAttr(sel, "a", "href"))
}

// Render builds the notification payload for one announcement.
func (s *Announcements) Render(sel *goquery.Selection) domain.Post {
	link := s.Identify(sel)

	return domain.Post{
		ID:        link,
		Title:     orUnknown(findText(sel, "a")),
		URL:       link,
		Color:     themeColor,
		Timestamp: time.Now(),
	}
}
