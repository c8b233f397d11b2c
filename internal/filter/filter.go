// Package filter decides which scraped or fetched postings are worth keeping.
package filter

import (
	"strings"

	"github.com/amishk599/hunter/internal/model"
)

// Matcher reports whether a posting should be kept.
type Matcher interface {
	Match(p model.JobPosting) bool
}

// TitleAndLocationFilter matches postings whose title contains any of the title
// keywords and whose location contains any of the location keywords.
// Matching is case-insensitive. Empty keyword lists are treated as "match all".
type TitleAndLocationFilter struct {
	titleKeywords []string
	locations     []string
}

// NewTitleAndLocationFilter returns a filter that requires both a title keyword
// match and a location keyword match (case-insensitive substring).
func NewTitleAndLocationFilter(titleKeywords []string, locations []string) *TitleAndLocationFilter {
	return &TitleAndLocationFilter{
		titleKeywords: lowerAll(titleKeywords),
		locations:     lowerAll(locations),
	}
}

// ForQuery builds a filter from a search query: any keyword word must appear in the
// title, and the location (if given) must appear in the posting's location.
func ForQuery(q model.Query) *TitleAndLocationFilter {
	var locations []string
	if loc := strings.TrimSpace(q.Location); loc != "" {
		locations = []string{loc}
	}
	return NewTitleAndLocationFilter(strings.Fields(q.Keywords), locations)
}

// Match returns true if the posting's title contains any title keyword and its
// location contains any location keyword. Empty keyword lists pass all.
func (f *TitleAndLocationFilter) Match(p model.JobPosting) bool {
	if len(f.titleKeywords) > 0 && !containsAny(strings.ToLower(p.Title), f.titleKeywords) {
		return false
	}
	if len(f.locations) > 0 && !containsAny(strings.ToLower(p.Location), f.locations) {
		return false
	}
	return true
}

// Apply returns the postings m accepts, in order.
func Apply(m Matcher, postings []model.JobPosting) []model.JobPosting {
	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if m.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
