package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/hunter/internal/filter"
	"github.com/amishk599/hunter/internal/model"
	"github.com/amishk599/hunter/internal/region"
	"github.com/amishk599/hunter/internal/useragent"
)

var indeedDomains = map[string]string{
	"ng":     "https://ng.indeed.com",
	"gb":     "https://uk.indeed.com",
	"global": "https://www.indeed.com",
}

var (
	indeedCardSelectors     = []string{"[data-jk]", ".jobsearch-SerpJobCard", ".job_seen_beacon", "td.resultContent"}
	indeedCompanySelectors  = []string{`[data-testid="company-name"]`, ".companyName"}
	indeedLocationSelectors = []string{`[data-testid="job-location"]`, ".companyLocation"}
	indeedTitleSelectors    = []string{"h2 a", ".jobTitle a", `[data-testid="job-title"] a`}
	salaryCurrencies        = []string{"₦", "$", "€", "£", "USD", "NGN", "GBP"}
)

// IndeedAdapter scrapes the server-rendered Indeed search results page.
type IndeedAdapter struct {
	client *http.Client
	agents *useragent.Pool
}

// NewIndeedAdapter creates a scraper. client should already be proxy-aware if
// proxies are configured.
func NewIndeedAdapter(client *http.Client, agents *useragent.Pool) *IndeedAdapter {
	return &IndeedAdapter{client: client, agents: agents}
}

// indeedBaseURL picks the country site for a location.
func indeedBaseURL(location string) string {
	lower := strings.ToLower(location)
	switch {
	case region.IsLocal(location):
		return indeedDomains["ng"]
	case strings.Contains(lower, "uk") || strings.Contains(lower, "united kingdom"):
		return indeedDomains["gb"]
	default:
		return indeedDomains["global"]
	}
}

// indeedSearchURL builds the results page URL for q on base.
func indeedSearchURL(base string, q model.Query) string {
	params := url.Values{}
	params.Set("q", q.Keywords)
	if q.Location != "" {
		params.Set("l", q.Location)
	}
	params.Set("start", "0")
	params.Set("sort", "relevance")
	if jt := normalizeJobType(q.JobType); jt != "" {
		params.Set("jt", jt)
	}
	return base + "/jobs?" + params.Encode()
}

// Fetch implements model.Fetcher.
func (a *IndeedAdapter) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	base := indeedBaseURL(q.Location)
	page := indeedSearchURL(base, q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return nil, fmt.Errorf("indeed search: %w", err)
	}
	a.agents.Apply(req, base+"/")
	req.Header.Set("User-Agent", a.agents.Chrome())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indeed search: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "indeed search"); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("indeed search: parsing html: %w", err)
	}
	return parseIndeed(doc, base, q.MaxResults), nil
}

func parseIndeed(doc *goquery.Document, base string, max int) []model.JobPosting {
	var cards *goquery.Selection
	for _, sel := range indeedCardSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			cards = found
			break
		}
	}
	if cards == nil {
		return []model.JobPosting{}
	}

	var postings []model.JobPosting
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if max > 0 && i >= max {
			return false
		}
		p := extractIndeedCard(card, base)
		if (filter.Basic{}).Match(p) {
			postings = append(postings, p)
		}
		return true
	})
	return postings
}

func extractIndeedCard(card *goquery.Selection, base string) model.JobPosting {
	p := model.JobPosting{Source: "Indeed"}

	if t, ok := card.Find("h2 a span[title]").First().Attr("title"); ok && strings.TrimSpace(t) != "" {
		p.Title = strings.TrimSpace(t)
	} else {
		p.Title = firstText(card, indeedTitleSelectors...)
	}
	p.Company = firstText(card, indeedCompanySelectors...)
	p.Location = firstText(card, indeedLocationSelectors...)

	if salary := firstText(card, ".salary-snippet", `[data-testid*="salary"]`); containsAnyString(salary, salaryCurrencies) {
		p.Salary = salary
	}

	if href, ok := card.Find("h2 a[href]").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		p.Link = absoluteURL(base, href)
	} else if jk, ok := card.Attr("data-jk"); ok && jk != "" {
		p.Link = base + "/viewjob?jk=" + url.QueryEscape(jk)
	}

	p.Description = firstText(card, ".job-snippet", ".summary")
	return p
}
