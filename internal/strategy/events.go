package strategy

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// Events extracts event announcements from news-item cards.
type Events struct {
	base string
}

// PostsSelector returns the selector matching event cards.
func (s *Events) PostsSelector() string {
	return "div.news-item"
}

// Identify returns the absolute event URL.
func (s *Events) Identify(sel *goquery.Selection) string {
	return resolve(s.base, findAttr(sel, "a + a", "href"))
}

// Render builds the notification payload for one event.
func (s *Events) Render(sel *goquery.Selection) domain.Post {
	link := s.Identify(sel)

	return domain.Post{
		ID:          link,
		Title:       orUnknown(findText(sel, "a + a")),
		URL:         link,
		Description: description(findText(sel, "div.col-xs-12.col-sm-8 > div.field-content")),
		Thumbnail:   stripQuery(findAttr(sel, "img", "src")),
		Color:       themeColor,
		Timestamp:   time.Now(),
	}
}
