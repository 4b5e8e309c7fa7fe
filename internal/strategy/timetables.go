package strategy

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// Timetables extracts published timetable documents. Document links point
// at versioned files, so the visible link text is the identifier rather
// than the href.
type Timetables struct {
	base string
}

// PostsSelector returns the selector matching timetable rows.
func (s *Timetables) PostsSelector() string {
	return "div.col-sm-11"
}

// Identify returns the visible document name.
func (s *Timetables) Identify(sel *goquery.Selection) string {
	return findText(sel, "a")
}

// Render builds the notification payload for one timetable document.
func (s *Timetables) Render(sel *goquery.Selection) domain.Post {
	return domain.Post{
		ID:        s.Identify(sel),
		Title:     orUnknown(findText(sel, "a")),
		URL:       resolve(s.base, findAttr(sel, "a", "href")),
		Color:     themeColor,
		Timestamp: time.Now(),
	}
}
