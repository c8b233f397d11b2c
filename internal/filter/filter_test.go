package filter

import (
	"strings"
	"testing"

	"github.com/amishk599/hunter/internal/model"
)

func posting(title, location string) model.JobPosting {
	return model.JobPosting{Title: title, Location: location}
}

func TestTitleAndLocationFilter_Match(t *testing.T) {
	tests := []struct {
		name          string
		titleKeywords []string
		locations     []string
		posting       model.JobPosting
		wantMatch     bool
	}{
		{
			name:          "matches both title and location",
			titleKeywords: []string{"software engineer", "backend"},
			locations:     []string{"Lagos", "Remote"},
			posting:       posting("Software Engineer", "Remote - Africa"),
			wantMatch:     true,
		},
		{
			name:          "title match but location miss",
			titleKeywords: []string{"software engineer"},
			locations:     []string{"Lagos", "Remote"},
			posting:       posting("Software Engineer", "London, UK"),
			wantMatch:     false,
		},
		{
			name:          "case insensitive matching",
			titleKeywords: []string{"FULLSTACK"},
			locations:     []string{"ng"},
			posting:       posting("Fullstack Developer", "Abuja, NG"),
			wantMatch:     true,
		},
		{
			name:          "no keywords match",
			titleKeywords: []string{"devops", "sre"},
			locations:     []string{"Remote"},
			posting:       posting("Frontend Engineer", "New York, NY"),
			wantMatch:     false,
		},
		{
			name:          "empty keyword lists pass all",
			titleKeywords: []string{},
			locations:     []string{},
			posting:       posting("Any Role", "Anywhere"),
			wantMatch:     true,
		},
		{
			name:          "blank keywords ignored",
			titleKeywords: []string{"  "},
			posting:       posting("Any Role", ""),
			wantMatch:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTitleAndLocationFilter(tt.titleKeywords, tt.locations)
			got := f.Match(tt.posting)
			if got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestForQuery(t *testing.T) {
	f := ForQuery(model.Query{Keywords: "golang backend", Location: " Remote "})

	if !f.Match(posting("Senior Backend Engineer", "Remote (Worldwide)")) {
		t.Error("expected backend remote posting to match")
	}
	if f.Match(posting("Senior Backend Engineer", "Berlin")) {
		t.Error("expected non-remote posting to be rejected")
	}
	if !ForQuery(model.Query{Keywords: "golang"}).Match(posting("Golang Dev", "Berlin")) {
		t.Error("expected empty location to pass all locations")
	}
}

func TestApply(t *testing.T) {
	in := []model.JobPosting{
		posting("Data Analyst", "Lagos"),
		posting("null", "Lagos"),
		posting("Accountant", ""),
	}

	out := Apply(Basic{}, in)

	if len(out) != 1 || out[0].Title != "Data Analyst" {
		t.Errorf("Apply() = %v, want only Data Analyst", out)
	}
}

func TestBasic_Match(t *testing.T) {
	tests := []struct {
		name string
		p    model.JobPosting
		want bool
	}{
		{"valid", model.JobPosting{Title: "Backend Engineer", Company: "Acme"}, true},
		{"location only", model.JobPosting{Title: "Backend Engineer", Location: "Lagos"}, true},
		{"short title", model.JobPosting{Title: "Dev", Company: "Acme"}, false},
		{"placeholder", model.JobPosting{Title: "undefined role", Company: "Acme"}, false},
		{"test job", model.JobPosting{Title: "Test Job Opening", Company: "Acme"}, false},
		{"no company or location", model.JobPosting{Title: "Backend Engineer", Company: "  "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Basic{}).Match(tt.p); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Senior Accountant", true},
		{"Chef de partie", true},
		{"Barista", false},
		{"Sign in to apply", false},
		{"Load more jobs", false},
		{"Jobs found: 230", false},
		{"Sort by date", false},
		{"Graduate", true},
		{"abc", false},
		{"Software Engineer " + strings.Repeat("x", 150), false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := ValidTitle(tt.title); got != tt.want {
				t.Errorf("ValidTitle(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestStrict_Match(t *testing.T) {
	base := model.JobPosting{Title: "Sales Executive", Company: "Dangote", Link: "https://www.jobberman.com/listings/sales-exec-1"}

	if !(Strict{}).Match(base) {
		t.Error("expected valid posting to match")
	}

	fragment := base
	fragment.Link = "https://www.jobberman.com/jobs#top"
	if (Strict{}).Match(fragment) {
		t.Error("expected fragment link to be rejected")
	}

	script := base
	script.Link = "JavaScript:void(0)"
	if (Strict{}).Match(script) {
		t.Error("expected script link to be rejected")
	}

	noLink := base
	noLink.Link = ""
	if !(Strict{}).Match(noLink) {
		t.Error("expected missing link to be accepted")
	}

	chrome := base
	chrome.Title = "Popular searches"
	if (Strict{}).Match(chrome) {
		t.Error("expected UI text to be rejected")
	}
}
