package strategy

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// Projects extracts research project announcements. The page shares its
// card layout with the events page.
type Projects struct {
	base string
}

// PostsSelector returns the selector matching project cards.
func (s *Projects) PostsSelector() string {
	return "div.news-item"
}

// Identify returns the absolute project URL.
func (s *Projects) Identify(sel *goquery.Selection) string {
	return resolve(s.base, findAttr(sel, "a + a", "href"))
}

// Render builds the notification payload for one project.
func (s *Projects) Render(sel *goquery.Selection) domain.Post {
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
