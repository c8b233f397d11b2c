package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amishk599/hunter/internal/model"
	"github.com/amishk599/hunter/internal/region"
)

const adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

// adzunaCountries maps location fragments to Adzuna country codes. First match wins.
var adzunaCountries = []struct{ fragment, country string }{
	{"london", "gb"},
	{"united kingdom", "gb"},
	{", uk", "gb"},
	{"berlin", "de"},
	{"germany", "de"},
	{"toronto", "ca"},
	{"canada", "ca"},
}

var adzunaCurrency = map[string]string{
	"gb": "£",
	"de": "€",
	"ng": "₦",
}

type adzunaJob struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	RedirectURL  string  `json:"redirect_url"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	ContractTime string  `json:"contract_time"`
	Company      struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

// AdzunaAdapter queries the Adzuna jobs search API.
type AdzunaAdapter struct {
	appID  string
	appKey string
	client *http.Client
}

// NewAdzunaAdapter creates an adapter with the given application credentials.
func NewAdzunaAdapter(appID, appKey string, client *http.Client) *AdzunaAdapter {
	return &AdzunaAdapter{appID: appID, appKey: appKey, client: client}
}

// adzunaCountry picks the country index to search. Remote and unknown locations
// use the US index.
func adzunaCountry(location string) string {
	if region.IsLocal(location) {
		return "ng"
	}
	lower := strings.ToLower(location)
	for _, c := range adzunaCountries {
		if strings.Contains(lower, c.fragment) {
			return c.country
		}
	}
	return "us"
}

// Fetch searches the first results page of the country index matching q.Location.
func (a *AdzunaAdapter) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	if a.appID == "" || a.appKey == "" {
		return nil, fmt.Errorf("adzuna: %w", ErrMissingAPIKey)
	}

	country := adzunaCountry(q.Location)
	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("what", q.Keywords)
	params.Set("content-type", "application/json")
	if q.MaxResults > 0 {
		params.Set("results_per_page", strconv.Itoa(q.MaxResults))
	}
	if !region.IsPlaceholder(q.Location) {
		params.Set("where", q.Location)
	}
	switch normalizeJobType(q.JobType) {
	case jobTypeFullTime:
		params.Set("full_time", "1")
	case jobTypePartTime:
		params.Set("part_time", "1")
	case jobTypeContract:
		params.Set("contract", "1")
	}

	endpoint := fmt.Sprintf("%s/%s/search/1?%s", adzunaBaseURL, country, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna search: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", apiUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna search: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "adzuna search"); err != nil {
		return nil, err
	}

	var ar adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("adzuna search: decoding response: %w", err)
	}

	symbol, ok := adzunaCurrency[country]
	if !ok {
		symbol = "$"
	}

	postings := make([]model.JobPosting, 0, len(ar.Results))
	for _, j := range ar.Results {
		postings = append(postings, model.JobPosting{
			Title:       extractText(j.Title),
			Company:     j.Company.DisplayName,
			Location:    j.Location.DisplayName,
			Salary:      formatSalary(symbol, j.SalaryMin, j.SalaryMax),
			Description: extractText(j.Description),
			JobType:     j.ContractTime,
			Link:        j.RedirectURL,
			Source:      "Adzuna",
		})
	}
	return postings, nil
}
