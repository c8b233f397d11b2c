package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/hunter/internal/filter"
	"github.com/amishk599/hunter/internal/model"
	"github.com/amishk599/hunter/internal/region"
	"github.com/amishk599/hunter/internal/source"
	"github.com/amishk599/hunter/internal/useragent"
)

const jobbermanBaseURL = "https://www.jobberman.com"

var (
	// A results page mentions at least three of these.
	jobbermanPageMarkers = []string{"salary", "apply", "company", "position", "experience", "qualification"}

	jobbermanNoise = "nav, header, footer, aside, .sidebar, .nav, .menu, .filter"

	jobbermanCardSelectors = []string{
		`article[class*="job"]`,
		`div[class*="job-card"]`,
		`div[class*="search-result"]`,
		`li[class*="job"]`,
		".job-item",
		".listing",
	}
	jobbermanTitleSelectors = []string{
		"h1 a", "h2 a", "h3 a", "h4 a",
		`a[href*="/job/"]`,
		`a[href*="/jobs/"]`,
		".job-title a",
		".title a",
	}
	jobbermanCompanySelectors  = []string{".company-name", ".employer", ".company", `[class*="company"]`}
	jobbermanLocationSelectors = []string{".location", ".job-location", `[class*="location"]`}

	salaryMarkers  = []string{"₦", "NGN", "naira", "salary", "$", "per month", "per annum"}
	cardWords      = []string{"apply", "salary", "experience", "qualification", "job", "position", "role"}
	cardNavigation = []string{
		"search filter", "homepage", "find a job", "jobs found",
		"filter applied", "sort by", "view all", "load more",
		"sign in", "register", "login", "create account",
		"terms", "privacy", "cookie", "contact us",
	}
	companyNoise = []string{"filter", "search", "homepage", "jobs found"}
)

// JobbermanAdapter scrapes search results from jobberman.com, the regional board.
// It tries the board's two known search URL patterns in order.
type JobbermanAdapter struct {
	baseURL string
	client  *http.Client
	agents  *useragent.Pool
	logger  *slog.Logger
}

// NewJobbermanAdapter creates a scraper. client should already be proxy-aware if
// proxies are configured.
func NewJobbermanAdapter(client *http.Client, agents *useragent.Pool, logger *slog.Logger) *JobbermanAdapter {
	return &JobbermanAdapter{
		baseURL: jobbermanBaseURL,
		client:  client,
		agents:  agents,
		logger:  logger.With("adapter", "jobberman"),
	}
}

// Fetch implements model.Fetcher.
func (a *JobbermanAdapter) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	a.logger.Debug("searching", "keywords", q.Keywords, "location", region.FormatLocal(q.Location))

	chain := source.NewChain(a.logger,
		source.Strategy{Name: "q", Fetcher: a.searchBy("q")},
		source.Strategy{Name: "search", Fetcher: a.searchBy("search")},
	)
	return chain.Fetch(ctx, q)
}

// searchBy returns a fetcher for the search URL using the given query parameter.
func (a *JobbermanAdapter) searchBy(param string) model.Fetcher {
	return source.FetcherFunc(func(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
		page := fmt.Sprintf("%s/jobs?%s=%s", a.baseURL, param, url.QueryEscape(q.Keywords))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
		if err != nil {
			return nil, fmt.Errorf("jobberman fetch: %w", err)
		}
		a.agents.Apply(req, a.baseURL+"/")
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("jobberman fetch: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			return nil, nil
		}
		if err := checkStatus(resp, "jobberman fetch"); err != nil {
			return nil, err
		}

		body, err := readPage(resp)
		if err != nil {
			return nil, fmt.Errorf("jobberman fetch: reading body: %w", err)
		}
		if !looksLikeResultsPage(body) {
			a.logger.Debug("page has no job content", "url", page)
			return nil, nil
		}
		return a.parse(body, q.MaxResults)
	})
}

func looksLikeResultsPage(body string) bool {
	if len(body) < 1000 {
		return false
	}
	lower := strings.ToLower(body)
	n := 0
	for _, m := range jobbermanPageMarkers {
		if strings.Contains(lower, m) {
			n++
		}
	}
	return n >= 3
}

func (a *JobbermanAdapter) parse(body string, max int) ([]model.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jobberman parse: %w", err)
	}
	doc.Find(jobbermanNoise).Remove()

	var cards []*goquery.Selection
	for _, sel := range jobbermanCardSelectors {
		found := doc.Find(sel)
		if found.Length() > 0 {
			found.Each(func(_ int, s *goquery.Selection) { cards = append(cards, s) })
			break
		}
	}
	if len(cards) == 0 {
		doc.Find("div, article, li").Each(func(_ int, s *goquery.Selection) {
			if looksLikeJobCard(s) {
				cards = append(cards, s)
			}
		})
	}

	limit := len(cards)
	if max > 0 {
		limit = min(limit, max*3)
	}

	var postings []model.JobPosting
	for _, card := range cards[:limit] {
		p, ok := a.extract(card)
		if !ok || !(filter.Strict{}).Match(p) {
			continue
		}
		postings = append(postings, p)
		if max > 0 && len(postings) >= max {
			break
		}
	}
	return postings, nil
}

func looksLikeJobCard(s *goquery.Selection) bool {
	text := strings.ToLower(s.Text())
	if n := utf8.RuneCountInString(text); n < 50 || n > 2000 {
		return false
	}
	words := 0
	for _, w := range cardWords {
		if strings.Contains(text, w) {
			words++
		}
	}
	if words < 2 {
		return false
	}
	for _, nav := range cardNavigation {
		if strings.Contains(text, nav) {
			return false
		}
	}
	return s.Find("a[href]").Length() > 0
}

func (a *JobbermanAdapter) extract(card *goquery.Selection) (model.JobPosting, bool) {
	p := model.JobPosting{Source: "Jobberman"}

	for _, sel := range jobbermanTitleSelectors {
		link := card.Find(sel).First()
		if link.Length() == 0 {
			continue
		}
		title := cleanText(link)
		if !filter.ValidTitle(title) {
			continue
		}
		p.Title = title
		if href, ok := link.Attr("href"); ok {
			p.Link = absoluteURL(a.baseURL, href)
		}
		break
	}
	if p.Title == "" {
		return p, false
	}

	for _, sel := range jobbermanCompanySelectors {
		c := cleanText(card.Find(sel).First())
		n := utf8.RuneCountInString(c)
		if n > 1 && n < 100 && !containsFold(c, companyNoise) {
			p.Company = c
			break
		}
	}

	for _, sel := range jobbermanLocationSelectors {
		if loc := cleanText(card.Find(sel).First()); region.IsLocal(loc) {
			p.Location = loc
			break
		}
	}

	for _, line := range strings.Split(card.Text(), "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < 50 && containsAnyString(line, salaryMarkers) && strings.ContainsFunc(line, unicode.IsDigit) {
			p.Salary = line
			break
		}
	}

	card.Find("p").EachWithBreak(func(_ int, para *goquery.Selection) bool {
		text := cleanText(para)
		if n := utf8.RuneCountInString(text); n > 50 && n < 500 {
			p.Description = text
			return false
		}
		return true
	})

	return p, true
}

func containsAnyString(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func containsFold(s string, needles []string) bool {
	return containsAnyString(strings.ToLower(s), needles)
}
