package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/hunter/internal/model"
)

const wwrFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>We Work Remotely: Remote jobs</title>
    <link>https://weworkremotely.com/</link>
    <item>
      <title>Acme Inc: Senior Golang Engineer</title>
      <region>Anywhere in the World</region>
      <type>Full-Time</type>
      <description>&lt;p&gt;Build &lt;strong&gt;distributed&lt;/strong&gt; systems.&lt;/p&gt;</description>
      <link>https://weworkremotely.com/remote-jobs/acme-senior-golang-engineer</link>
    </item>
    <item>
      <title>Beta: Product Designer</title>
      <description>Design things.</description>
      <link>https://weworkremotely.com/remote-jobs/beta-product-designer</link>
    </item>
    <item>
      <title>Gamma: Golang Contractor</title>
      <type>Contract</type>
      <description>Short gig.</description>
      <link>https://weworkremotely.com/remote-jobs/gamma-golang-contractor</link>
    </item>
    <item>
      <title>Untitled golang role without company</title>
      <description></description>
      <link>https://weworkremotely.com/remote-jobs/untitled</link>
    </item>
  </channel>
</rss>`

func newWWRServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/remote-jobs.rss" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(wwrFixture))
	}))
}

func TestWeWorkRemotelyFetch_FiltersByKeyword(t *testing.T) {
	srv := newWWRServer(t)
	defer srv.Close()

	a := NewWeWorkRemotelyAdapter("", rewriteClient(srv))
	postings, err := a.Fetch(context.Background(), model.Query{Keywords: "golang", MaxResults: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 3 {
		t.Fatalf("expected 3 golang postings, got %d", len(postings))
	}

	p := postings[0]
	if p.Company != "Acme Inc" || p.Title != "Senior Golang Engineer" {
		t.Errorf("unexpected company/title split: %q / %q", p.Company, p.Title)
	}
	if p.Description != "Build distributed systems." {
		t.Errorf("unexpected description %q", p.Description)
	}
	if !strings.HasPrefix(p.Location, "Remote") {
		t.Errorf("expected remote location, got %q", p.Location)
	}
	if p.Source != "WeWorkRemotely" || p.Link != "https://weworkremotely.com/remote-jobs/acme-senior-golang-engineer" {
		t.Errorf("unexpected source/link: %q / %q", p.Source, p.Link)
	}

	if postings[2].Company != "" || postings[2].Title != "Untitled golang role without company" {
		t.Errorf("unexpected untitled posting: %+v", postings[2])
	}
}

func TestWeWorkRemotelyFetch_MaxResults(t *testing.T) {
	srv := newWWRServer(t)
	defer srv.Close()

	a := NewWeWorkRemotelyAdapter("", rewriteClient(srv))
	postings, err := a.Fetch(context.Background(), model.Query{Keywords: "golang", MaxResults: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Errorf("expected 2 postings, got %d", len(postings))
	}
}

func TestWeWorkRemotelyFetch_NoMatch(t *testing.T) {
	srv := newWWRServer(t)
	defer srv.Close()

	a := NewWeWorkRemotelyAdapter("", rewriteClient(srv))
	postings, err := a.Fetch(context.Background(), model.Query{Keywords: "cobol", MaxResults: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 0 {
		t.Errorf("expected no postings, got %d", len(postings))
	}
}

func TestWeWorkRemotelyFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewWeWorkRemotelyAdapter("", rewriteClient(srv))
	if _, err := a.Fetch(context.Background(), model.Query{Keywords: "go"}); err == nil {
		t.Fatal("expected error for HTTP 502, got nil")
	}
}

func TestWeWorkRemotelyFetch_NotAFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer srv.Close()

	a := NewWeWorkRemotelyAdapter("", rewriteClient(srv))
	if _, err := a.Fetch(context.Background(), model.Query{Keywords: "go"}); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
