package strategy

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniwatch/uniwatch/internal/domain"
)

// partnerLabels are tier badges rendered inside partner cards; they are
// stripped so the identifier stays stable when a partner changes tier.
var partnerLabels = []string{"Gold partner", "Silver partner"}

// sponsorDomain links on the supporting-sponsor card point at the sponsor
// site rather than a partner page; the card collapses to a fixed name.
const (
	sponsorDomain = "a1.com"
	sponsorName   = "A1"
)

// Partners extracts the faculty partner list. Partner cards carry no
// dates or post URLs, so the cleaned partner name is the identifier and a
// new card means a new partner.
type Partners struct{}

// PostsSelector returns the selector matching partner cards.
func (s *Partners) PostsSelector() string {
	return "div.card, div.support"
}

// Identify returns the cleaned partner name.
func (s *Partners) Identify(sel *goquery.Selection) string {
	if url := findAttr(sel, "a", "href"); strings.Contains(url, sponsorDomain) {
		return sponsorName
	}
	return cleanPartnerName(sel.Text())
}

// Render builds the notification payload for one partner card.
func (s *Partners) Render(sel *goquery.Selection) domain.Post {
	name := s.Identify(sel)

	return domain.Post{
		ID:          name,
		Title:       orUnknown(name),
		URL:         findAttr(sel, "a", "href"),
		Description: "New faculty partner",
		Color:       themeColor,
		Timestamp:   time.Now(),
	}
}

// cleanPartnerName strips tier labels and collapses whitespace.
func cleanPartnerName(name string) string {
	for _, label := range partnerLabels {
		name = strings.ReplaceAll(name, label, "")
	}
	return collapseSpace(name)
}
