package filter

import (
	"strings"
	"unicode/utf8"

	"github.com/amishk599/hunter/internal/model"
)

var (
	placeholderTitles = []string{"undefined", "null", "error", "test job"}

	// Navigation and widget text that scrapers pick up from listing pages.
	uiText = []string{
		"search filter", "homepage", "find a job", "jobs found",
		"filter applied", "filters applied", "sort by", "view all",
		"load more", "sign in", "register", "login", "create account",
		"jobs in nigeria", "any job function", "refine search",
		"browse", "categories", "popular searches",
	}

	roleWords = []string{
		"manager", "officer", "executive", "assistant", "specialist",
		"engineer", "developer", "analyst", "coordinator", "supervisor",
		"director", "consultant", "representative", "administrator",
		"accountant", "designer", "marketer", "sales", "hr", "it",
		"intern", "graduate", "senior", "junior", "lead",
	}
)

// Basic rejects postings with placeholder titles, very short titles, or neither
// company nor location.
type Basic struct{}

// Match implements Matcher.
func (Basic) Match(p model.JobPosting) bool {
	title := strings.TrimSpace(p.Title)
	if utf8.RuneCountInString(title) < 5 {
		return false
	}
	if containsAny(strings.ToLower(title), placeholderTitles) {
		return false
	}
	return hasCompanyOrLocation(p)
}

// Strict additionally rejects page chrome mistaken for titles and postings whose
// link is a fragment or script URL.
type Strict struct{}

// Match implements Matcher.
func (Strict) Match(p model.JobPosting) bool {
	if !ValidTitle(p.Title) || !hasCompanyOrLocation(p) {
		return false
	}
	link := strings.ToLower(p.Link)
	return !strings.Contains(link, "#") && !strings.Contains(link, "javascript:")
}

// ValidTitle reports whether title looks like a job title rather than UI text.
func ValidTitle(title string) bool {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < 5 || n > 150 {
		return false
	}
	lower := strings.ToLower(title)
	if containsAny(lower, uiText) {
		return false
	}
	if containsAny(lower, roleWords) {
		return true
	}
	words := len(strings.Fields(lower))
	return words >= 2 && words <= 20
}

func hasCompanyOrLocation(p model.JobPosting) bool {
	return strings.TrimSpace(p.Company) != "" || strings.TrimSpace(p.Location) != ""
}
