package strategy

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// Jobs extracts job postings: rows where the second link is the posting
// itself and the first is the posting company.
type Jobs struct {
	base string
}

// PostsSelector returns the selector matching job posting rows.
func (s *Jobs) PostsSelector() string {
	return "div.views-row"
}

// Identify returns the absolute posting URL.
func (s *Jobs) Identify(sel *goquery.Selection) string {
	return resolve(s.base, findAttr(sel, "a + a", "href"))
}

// Render builds the notification payload for one job posting.
func (s *Jobs) Render(sel *goquery.Selection) domain.Post {
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
