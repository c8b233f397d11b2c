package adapter

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (no-op on already-real HTML), strips all tags,
// then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// formatSalary renders a range like "$50,000 - $70,000". Either bound missing
// yields an empty string.
func formatSalary(symbol string, lo, hi float64) string {
	if lo <= 0 || hi <= 0 {
		return ""
	}
	return symbol + humanize.Comma(int64(lo)) + " - " + symbol + humanize.Comma(int64(hi))
}

// absoluteURL resolves href against base. Unparseable input is returned as-is.
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// cleanText collapses whitespace in a selection's text.
func cleanText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// firstText returns the text of the first selector that yields a non-empty match.
func firstText(card *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := cleanText(card.Find(sel).First()); t != "" {
			return t
		}
	}
	return ""
}

// joinNonEmpty joins the non-blank parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
