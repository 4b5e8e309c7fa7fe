package strategy

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// descriptionLimit caps the rendered description length.
	descriptionLimit = 500
	// noDescription is rendered when a post has no visible body.
	noDescription = "No description provided."
	// unknownValue stands in for display fields the page did not provide.
	unknownValue = "?"
)

// findText returns the trimmed text of the first element matching selector.
func findText(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// findAttr returns the trimmed attribute value of the first element
// matching selector, or "" when absent.
func findAttr(sel *goquery.Selection, selector, attr string) string {
	value, ok := sel.Find(selector).First().Attr(attr)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

// resolve makes href absolute against base. Absolute hrefs pass through
// unchanged; an empty href resolves to "".
func resolve(base, href string) string {
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return parsed.ResolveReference(ref).String()
}

// stripQuery drops the query string from a URL, used for image sources
// that carry cache-busting parameters.
func stripQuery(raw string) string {
	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

// description normalizes a post body: trimmed, truncated to the display
// limit, with a placeholder when the page provides nothing.
func description(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return noDescription
	}
	if runes := []rune(trimmed); len(runes) > descriptionLimit {
		return string(runes[:descriptionLimit])
	}
	return trimmed
}

// orUnknown substitutes the unknown placeholder for empty display values.
func orUnknown(value string) string {
	if value == "" {
		return unknownValue
	}
	return value
}

// collapseSpace reduces all interior whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
