// Package rank scores postings and produces the final deterministic ordering.
package rank

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amishk599/hunter/internal/model"
	"github.com/amishk599/hunter/internal/region"
)

const (
	baseScore          = 1.0
	minRelevanceScore  = 0.1
	defaultSourceScore = 1.0
)

// DefaultReliability is the per-provider weight reflecting expected data quality.
var DefaultReliability = map[string]float64{
	"jsearch":   3.0,
	"adzuna":    2.5,
	"jooble":    2.0,
	"indeed":    2.0,
	"jobberman": 1.5,
}

var (
	seniorityKeywords = []string{"senior", "lead", "manager", "director", "principal", "head"}
	spamPhrases       = []string{"click here", "apply now!", "urgent!!!", "work from home!!!", "earn $$$"}
)

// Ranker computes relevance and source reliability scores.
type Ranker struct {
	reliability map[string]float64
}

// NewRanker returns a ranker using DefaultReliability with the given overrides
// applied. Source names are matched case-insensitively.
func NewRanker(overrides map[string]float64) *Ranker {
	rel := make(map[string]float64, len(DefaultReliability)+len(overrides))
	for name, w := range DefaultReliability {
		rel[name] = w
	}
	for name, w := range overrides {
		rel[strings.ToLower(strings.TrimSpace(name))] = w
	}
	return &Ranker{reliability: rel}
}

// Rank scores every posting and sorts by combined score, highest first. Postings
// with equal combined scores keep their input order.
func (r *Ranker) Rank(postings []model.JobPosting, req model.SearchRequest) []model.ScoredPosting {
	scored := make([]model.ScoredPosting, 0, len(postings))
	for _, p := range postings {
		rel := r.Relevance(p, req)
		src := r.SourceScore(p.Source)
		scored = append(scored, model.ScoredPosting{
			JobPosting:     p,
			RelevanceScore: rel,
			SourceScore:    src,
			CombinedScore:  rel + src,
		})
	}

	slices.SortStableFunc(scored, func(a, b model.ScoredPosting) int {
		return cmp.Compare(b.CombinedScore, a.CombinedScore)
	})
	return scored
}

// SourceScore returns the reliability weight for a Source name, 1.0 if unknown.
func (r *Ranker) SourceScore(source string) float64 {
	if w, ok := r.reliability[strings.ToLower(strings.TrimSpace(source))]; ok && w >= defaultSourceScore {
		return w
	}
	return defaultSourceScore
}

// Relevance scores how well a posting matches the request and how complete its data is.
func (r *Ranker) Relevance(p model.JobPosting, req model.SearchRequest) float64 {
	score := baseScore

	wanted := strings.ToLower(strings.TrimSpace(req.Location))
	have := strings.ToLower(p.Location)
	if !region.IsPlaceholder(wanted) && have != "" {
		if strings.Contains(have, wanted) {
			score += 2.0
		} else if anyTokenIn(wanted, have) {
			score += 1.0
		}
	}
	if region.IsLocal(req.Location) && region.IsLocal(p.Location) {
		score += 2.0
	}

	salary := strings.TrimSpace(p.Salary)
	if salary != "" {
		score += 1.5
		if containsAny(strings.ToLower(salary), seniorityKeywords) {
			score += 0.5
		}
	}

	switch n := utf8.RuneCountInString(p.Description); {
	case n > 150:
		score += 1.2
	case n > 75:
		score += 0.8
	case n > 25:
		score += 0.4
	}

	if p.Link != "" && p.Link != model.PlaceholderLink && strings.Contains(p.Link, "http") {
		score += 1.0
	}

	if utf8.RuneCountInString(p.Company) > 3 {
		score += 0.5
	}

	if n := utf8.RuneCountInString(p.Title); n >= 10 && n < 100 {
		score += 0.5
	}

	if containsAny(strings.ToLower(p.Title), spamPhrases) {
		score -= 2.0
	}

	return max(score, minRelevanceScore)
}

// anyTokenIn reports whether a word of query longer than two characters occurs in text.
func anyTokenIn(query, text string) bool {
	tokens := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) > 2 && strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
