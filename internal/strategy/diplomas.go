package strategy

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// browserUserAgent is required by the diploma registry, which rejects
// non-browser clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Diplomas extracts scheduled diploma defenses from the registry's panel
// list. Panels have no stable URL, so the panel heading text is the
// identifier. The registry sits behind a login.
type Diplomas struct {
	base string
}

// PostsSelector returns the selector matching defense panels.
func (s *Diplomas) PostsSelector() string {
	return "div.panel"
}

// Identify returns the panel heading text.
func (s *Diplomas) Identify(sel *goquery.Selection) string {
	return findText(sel, "div.panel-heading")
}

// Render builds the notification payload for one defense, with the
// committee and schedule as structured fields.
func (s *Diplomas) Render(sel *goquery.Selection) domain.Post {
	title := s.Identify(sel)

	index, student := splitStudent(findText(sel, panelRow(1)))

	link := findAttr(sel, panelRow(7)+" a", "href")
	if strings.Contains(link, "javascript") {
		link = ""
	} else {
		link = resolve(s.base, link)
	}

	return domain.Post{
		ID:    title,
		Title: orUnknown(title),
		URL:   link,
		Author: &domain.Author{
			Name: index + " - " + student,
		},
		Fields: []domain.Field{
			{Name: "Mentor", Value: orUnknown(findText(sel, panelRow(2))), Inline: true},
			{Name: "Member 1", Value: orUnknown(findText(sel, panelRow(3))), Inline: true},
			{Name: "Member 2", Value: orUnknown(findText(sel, panelRow(4))), Inline: true},
			{Name: "Date", Value: orUnknown(findText(sel, panelRow(5))), Inline: true},
			{Name: "Status", Value: orUnknown(findText(sel, panelRow(6))), Inline: true},
		},
		Description: description(findText(sel, panelRow(8))),
		Color:       themeColor,
		Timestamp:   time.Now(),
	}
}

// RequestHeaders attaches the registry session cookie and a browser
// user agent.
func (s *Diplomas) RequestHeaders(cookie string) http.Header {
	if cookie == "" {
		return nil
	}

	header := http.Header{}
	header.Set("Cookie", cookie)
	header.Set("User-Agent", browserUserAgent)
	return header
}

// panelRow selects the value cell of the n-th row in a defense panel's
// detail table.
func panelRow(n int) string {
	return fmt.Sprintf("div.panel-body > table tr:nth-of-type(%d) > td:nth-of-type(2)", n)
}

// splitStudent splits the "index - student name" cell of the first row.
func splitStudent(cell string) (index, student string) {
	parts := strings.SplitN(cell, " - ", 2)
	if len(parts) < 2 {
		return unknownValue, unknownValue
	}
	return parts[0], parts[1]
}
