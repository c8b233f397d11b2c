package rank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/hunter/internal/model"
)

const delta = 1e-9

func TestRelevance_WorkedExample(t *testing.T) {
	r := NewRanker(nil)
	req := model.SearchRequest{Keywords: "backend", Location: "Remote", MaxResultsPerSource: 5}
	p := model.JobPosting{
		Title:       "Senior Backend Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Salary:      "$50,000-$70,000",
		Description: strings.Repeat("d", 200),
		Link:        "https://x.com/job/1",
		Source:      "JSearch",
	}

	scored := r.Rank([]model.JobPosting{p}, req)

	require.Len(t, scored, 1)
	assert.InDelta(t, 5.7, scored[0].RelevanceScore, delta)
	assert.InDelta(t, 3.0, scored[0].SourceScore, delta)
	assert.InDelta(t, 8.7, scored[0].CombinedScore, delta)
}

func TestRelevance_LocationBonuses(t *testing.T) {
	r := NewRanker(nil)

	cases := []struct {
		name     string
		wanted   string
		location string
		want     float64
	}{
		{"substring and both local", "Lagos", "Lagos, Nigeria", 1.0 + 2.0 + 2.0},
		{"token and both local", "Ikeja Nigeria", "Abuja, Nigeria", 1.0 + 1.0 + 2.0},
		{"substring only", "Berlin", "Berlin, Germany", 1.0 + 2.0},
		{"short tokens ignored", "NY, US", "US-NY-Albany", 1.0},
		{"no request location", "", "Lagos", 1.0},
		{"remote placeholder", "remote", "Remote", 1.0},
		{"empty posting location", "Berlin", "", 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := model.SearchRequest{Keywords: "x", Location: tc.wanted, MaxResultsPerSource: 1}
			got := r.Relevance(model.JobPosting{Location: tc.location}, req)
			assert.InDelta(t, tc.want, got, delta)
		})
	}
}

func TestRelevance_SalaryAndSeniority(t *testing.T) {
	r := NewRanker(nil)
	req := model.SearchRequest{Keywords: "x", MaxResultsPerSource: 1}

	assert.InDelta(t, 2.5, r.Relevance(model.JobPosting{Salary: "₦300,000"}, req), delta)
	assert.InDelta(t, 3.0, r.Relevance(model.JobPosting{Salary: "Senior band: $90k"}, req), delta)
	assert.InDelta(t, 1.0, r.Relevance(model.JobPosting{Salary: "   "}, req), delta)
}

func TestRelevance_DescriptionBands(t *testing.T) {
	r := NewRanker(nil)
	req := model.SearchRequest{Keywords: "x", MaxResultsPerSource: 1}

	cases := map[int]float64{
		0:   1.0,
		25:  1.0,
		26:  1.4,
		75:  1.4,
		76:  1.8,
		150: 1.8,
		151: 2.2,
	}
	for n, want := range cases {
		p := model.JobPosting{Description: strings.Repeat("a", n)}
		assert.InDelta(t, want, r.Relevance(p, req), delta, "description length %d", n)
	}
}

func TestRelevance_LinkCompanyTitle(t *testing.T) {
	r := NewRanker(nil)
	req := model.SearchRequest{Keywords: "x", MaxResultsPerSource: 1}

	assert.InDelta(t, 1.0, r.Relevance(model.JobPosting{Link: "#"}, req), delta)
	assert.InDelta(t, 1.0, r.Relevance(model.JobPosting{Link: "/viewjob?jk=1"}, req), delta)
	assert.InDelta(t, 2.0, r.Relevance(model.JobPosting{Link: "http://a.b/c"}, req), delta)
	assert.InDelta(t, 1.0, r.Relevance(model.JobPosting{Company: "IBM"}, req), delta)
	assert.InDelta(t, 1.5, r.Relevance(model.JobPosting{Company: "Acme"}, req), delta)
	assert.InDelta(t, 1.0, r.Relevance(model.JobPosting{Title: "Engineer"}, req), delta)
	assert.InDelta(t, 1.5, r.Relevance(model.JobPosting{Title: "Go Engineer"}, req), delta)
	assert.InDelta(t, 1.0, r.Relevance(model.JobPosting{Title: strings.Repeat("t", 100)}, req), delta)
}

func TestRelevance_SpamPenaltyIsFloored(t *testing.T) {
	r := NewRanker(nil)
	req := model.SearchRequest{Keywords: "x", MaxResultsPerSource: 1}

	got := r.Relevance(model.JobPosting{Title: "URGENT!!! hiring"}, req)
	assert.InDelta(t, 0.1, got, delta)

	got = r.Relevance(model.JobPosting{Title: "Click here for a great job", Company: "Acme", Salary: "$10"}, req)
	assert.InDelta(t, 1.0+1.5+0.5+0.5-2.0, got, delta)
}

func TestSourceScore(t *testing.T) {
	r := NewRanker(map[string]float64{"WeWorkRemotely": 1.8, "Jooble": 0.2})

	assert.InDelta(t, 3.0, r.SourceScore("JSearch"), delta)
	assert.InDelta(t, 2.5, r.SourceScore("adzuna"), delta)
	assert.InDelta(t, 1.5, r.SourceScore("Jobberman"), delta)
	assert.InDelta(t, 1.8, r.SourceScore("WeWorkRemotely"), delta)
	assert.InDelta(t, 1.0, r.SourceScore("Jooble"), delta, "weights below 1.0 fall back to default")
	assert.InDelta(t, 1.0, r.SourceScore("SomethingElse"), delta)
}

func TestRank_StableDescending(t *testing.T) {
	r := NewRanker(nil)
	req := model.SearchRequest{Keywords: "x", MaxResultsPerSource: 1}
	in := []model.JobPosting{
		{Title: "a", Source: "Other"},
		{Title: "b", Source: "JSearch"},
		{Title: "c", Source: "Other"},
		{Title: "d", Source: "Jooble"},
		{Title: "e", Source: "Indeed"},
	}

	out := r.Rank(in, req)

	var titles []string
	for _, p := range out {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, titles)
}

func TestRank_Deterministic(t *testing.T) {
	r := NewRanker(nil)
	req := model.SearchRequest{Keywords: "x", Location: "Lagos", MaxResultsPerSource: 1}
	in := []model.JobPosting{
		{Title: "Backend Engineer", Company: "Acme", Location: "Lagos", Source: "Jooble"},
		{Title: "Frontend Engineer", Company: "Beta", Location: "Abuja", Source: "Indeed"},
		{Title: "QA Engineer", Company: "Gamma", Location: "Remote", Salary: "$1", Source: "Adzuna"},
	}

	assert.Equal(t, r.Rank(in, req), r.Rank(in, req))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, NewRanker(nil).Rank(nil, model.SearchRequest{}))
}
