package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/hunter/internal/model"
)

func TestAdzunaCountry(t *testing.T) {
	tests := map[string]string{
		"":                  "us",
		"Remote":            "us",
		"New York, NY":      "us",
		"London, UK":        "gb",
		"Manchester, UK":    "gb",
		"Berlin, DE":        "de",
		"Toronto, ON":       "ca",
		"Lagos":             "ng",
		"Calabar, Nigeria":  "ng",
		"Somewhere Unknown": "us",
	}
	for loc, want := range tests {
		if got := adzunaCountry(loc); got != want {
			t.Errorf("adzunaCountry(%q) = %q, want %q", loc, got, want)
		}
	}
}

func TestAdzunaFetch_Success(t *testing.T) {
	payload := `{
		"results": [
			{
				"title": "<strong>Data</strong> Analyst",
				"description": "Analyse things",
				"redirect_url": "https://adzuna.com/land/ad/1",
				"salary_min": 300000,
				"salary_max": 450000,
				"contract_time": "full_time",
				"company": {"display_name": "Flutterwave"},
				"location": {"display_name": "Lagos, Lagos State"}
			},
			{
				"title": "Analyst",
				"description": "",
				"redirect_url": "https://adzuna.com/land/ad/2",
				"company": {"display_name": "Acme"},
				"location": {"display_name": "Ikeja"}
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/api/jobs/ng/search/1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("app_id") != "id" || q.Get("app_key") != "key" {
			t.Errorf("missing credentials in query: %s", r.URL.RawQuery)
		}
		if q.Get("what") != "data analyst" || q.Get("where") != "Lagos" {
			t.Errorf("unexpected what/where: %q / %q", q.Get("what"), q.Get("where"))
		}
		if q.Get("results_per_page") != "5" || q.Get("full_time") != "1" {
			t.Errorf("unexpected paging/type params: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewAdzunaAdapter("id", "key", rewriteClient(srv))
	postings, err := a.Fetch(context.Background(), model.Query{
		Keywords:   "data analyst",
		Location:   "Lagos",
		JobType:    "Full-Time",
		MaxResults: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.Title != "Data Analyst" {
		t.Errorf("unexpected title %q", p.Title)
	}
	if p.Salary != "₦300,000 - ₦450,000" {
		t.Errorf("unexpected salary %q", p.Salary)
	}
	if p.Company != "Flutterwave" || p.Location != "Lagos, Lagos State" || p.JobType != "full_time" {
		t.Errorf("unexpected posting: %+v", p)
	}
	if p.Source != "Adzuna" {
		t.Errorf("unexpected source %q", p.Source)
	}
	if postings[1].Salary != "" {
		t.Errorf("expected empty salary without bounds, got %q", postings[1].Salary)
	}
}

func TestAdzunaFetch_RemoteOmitsWhere(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/api/jobs/us/search/1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Has("where") {
			t.Errorf("did not expect where for remote search: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	a := NewAdzunaAdapter("id", "key", rewriteClient(srv))
	postings, err := a.Fetch(context.Background(), model.Query{Keywords: "go", Location: "Remote", MaxResults: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 0 {
		t.Errorf("expected no postings, got %d", len(postings))
	}
}

func TestAdzunaFetch_MissingCredentials(t *testing.T) {
	a := NewAdzunaAdapter("id", "", http.DefaultClient)
	if _, err := a.Fetch(context.Background(), model.Query{Keywords: "go"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestAdzunaFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := NewAdzunaAdapter("id", "key", rewriteClient(srv))
	_, err := a.Fetch(context.Background(), model.Query{Keywords: "go"})

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected HTTPError 401, got %v", err)
	}
}
