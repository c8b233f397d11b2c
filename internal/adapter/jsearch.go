package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/hunter/internal/model"
	"github.com/amishk599/hunter/internal/region"
)

const (
	jsearchHost    = "jsearch.p.rapidapi.com"
	jsearchBaseURL = "https://" + jsearchHost + "/search"
)

type jsearchJob struct {
	Title          string   `json:"job_title"`
	Employer       string   `json:"employer_name"`
	ApplyLink      string   `json:"job_apply_link"`
	City           string   `json:"job_city"`
	Country        string   `json:"job_country"`
	SalaryMin      *float64 `json:"job_min_salary"`
	SalaryMax      *float64 `json:"job_max_salary"`
	SalaryCurrency string   `json:"job_salary_currency"`
	Description    string   `json:"job_description"`
	EmploymentType string   `json:"job_employment_type"`
}

type jsearchResponse struct {
	Status string       `json:"status"`
	Data   []jsearchJob `json:"data"`
}

// JSearchAdapter queries the JSearch API on RapidAPI.
type JSearchAdapter struct {
	apiKey string
	client *http.Client
}

// NewJSearchAdapter creates an adapter authenticated with a RapidAPI key.
func NewJSearchAdapter(apiKey string, client *http.Client) *JSearchAdapter {
	return &JSearchAdapter{apiKey: apiKey, client: client}
}

// Fetch runs a single-page search for "<keywords> in <location>".
func (a *JSearchAdapter) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("jsearch: %w", ErrMissingAPIKey)
	}

	query := q.Keywords
	if q.Location != "" {
		loc := q.Location
		if region.IsLocal(loc) {
			loc = region.FormatLocal(loc)
		}
		query = fmt.Sprintf("%s in %s", q.Keywords, loc)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("num_pages", "1")
	params.Set("date_posted", "all")
	if jt := jsearchEmploymentType(q.JobType); jt != "" {
		params.Set("employment_types", jt)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jsearchBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch search: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", a.apiKey)
	req.Header.Set("X-RapidAPI-Host", jsearchHost)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch search: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "jsearch search"); err != nil {
		return nil, err
	}

	var jr jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("jsearch search: decoding response: %w", err)
	}

	postings := make([]model.JobPosting, 0, len(jr.Data))
	for _, j := range jr.Data {
		postings = append(postings, model.JobPosting{
			Title:       j.Title,
			Company:     j.Employer,
			Location:    joinNonEmpty(", ", j.City, j.Country),
			Salary:      jsearchSalary(j),
			Description: extractText(j.Description),
			JobType:     j.EmploymentType,
			Link:        j.ApplyLink,
			Source:      "JSearch",
		})
		if q.MaxResults > 0 && len(postings) >= q.MaxResults {
			break
		}
	}
	return postings, nil
}

func jsearchSalary(j jsearchJob) string {
	if j.SalaryMin == nil || j.SalaryMax == nil {
		return ""
	}
	var symbol string
	switch strings.ToUpper(j.SalaryCurrency) {
	case "", "USD":
		symbol = "$"
	case "NGN":
		symbol = "₦"
	default:
		symbol = strings.ToUpper(j.SalaryCurrency) + " "
	}
	return formatSalary(symbol, *j.SalaryMin, *j.SalaryMax)
}

func jsearchEmploymentType(jobType string) string {
	switch normalizeJobType(jobType) {
	case jobTypeFullTime:
		return "FULLTIME"
	case jobTypePartTime:
		return "PARTTIME"
	case jobTypeContract:
		return "CONTRACTOR"
	default:
		return ""
	}
}
