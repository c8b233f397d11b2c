package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/amishk599/hunter/internal/model"
)

const joobleBaseURL = "https://jooble.org/api"

// ErrMissingAPIKey is returned by API adapters constructed without credentials.
var ErrMissingAPIKey = errors.New("api key not configured")

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location"`
	Page     int    `json:"page"`
}

type joobleJob struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Snippet  string `json:"snippet"`
	Salary   string `json:"salary"`
	Type     string `json:"type"`
	Link     string `json:"link"`
	Company  string `json:"company"`
}

type joobleResponse struct {
	TotalCount int         `json:"totalCount"`
	Jobs       []joobleJob `json:"jobs"`
}

// JoobleAdapter queries the Jooble job search REST API.
type JoobleAdapter struct {
	apiKey string
	client *http.Client
}

// NewJoobleAdapter creates an adapter authenticated with apiKey.
func NewJoobleAdapter(apiKey string, client *http.Client) *JoobleAdapter {
	return &JoobleAdapter{apiKey: apiKey, client: client}
}

// Fetch posts the search and normalizes the first page of results.
func (a *JoobleAdapter) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("jooble: %w", ErrMissingAPIKey)
	}

	body, err := json.Marshal(joobleRequest{Keywords: q.Keywords, Location: q.Location, Page: 1})
	if err != nil {
		return nil, fmt.Errorf("jooble search: %w", err)
	}

	url := fmt.Sprintf("%s/%s", joobleBaseURL, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jooble search: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", apiUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jooble search: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "jooble search"); err != nil {
		return nil, err
	}

	var jr joobleResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("jooble search: decoding response: %w", err)
	}

	wantType := normalizeJobType(q.JobType)
	postings := make([]model.JobPosting, 0, len(jr.Jobs))
	for _, j := range jr.Jobs {
		if wantType != "" && j.Type != "" && normalizeJobType(j.Type) != wantType {
			continue
		}
		postings = append(postings, model.JobPosting{
			Title:       extractText(j.Title),
			Company:     j.Company,
			Location:    j.Location,
			Salary:      j.Salary,
			Description: extractText(j.Snippet),
			JobType:     j.Type,
			Link:        j.Link,
			Source:      "Jooble",
		})
		if q.MaxResults > 0 && len(postings) >= q.MaxResults {
			break
		}
	}
	return postings, nil
}
