package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/amishk599/hunter/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleScored(title, company string, score float64) model.ScoredPosting {
	return model.ScoredPosting{
		JobPosting: model.JobPosting{
			Title:    title,
			Company:  company,
			Location: "Lagos",
			Salary:   "₦500,000",
			Link:     "https://example.com/apply",
			Source:   "Jooble",
		},
		CombinedScore: score,
	}
}

var digestRequest = model.SearchRequest{Keywords: "backend engineer", Location: "Lagos", MaxResultsPerSource: 10}

func TestSlackNotifier_EmptyPostings(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger(), 10)

	if err := n.Notify(digestRequest, nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_SingleDigestMessage(t *testing.T) {
	var calls atomic.Int32
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger(), 10)
	postings := []model.ScoredPosting{
		sampleScored("Backend Engineer", "Acme Corp", 5.7),
		sampleScored("Platform Engineer", "Beta", 3.0),
	}

	if err := n.Notify(digestRequest, postings); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	// header, 2 postings, divider
	if len(payload.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(payload.Blocks))
	}

	header := payload.Blocks[0]
	if header.Type != "header" || header.Text.Text != "🔎 2 jobs for \"backend engineer\" in Lagos" {
		t.Errorf("header = %+v", header.Text)
	}

	first := payload.Blocks[1]
	if !strings.HasPrefix(first.Text.Text, "*1. <https://example.com/apply|Backend Engineer>*") {
		t.Errorf("first posting text = %q", first.Text.Text)
	}
	if !strings.Contains(first.Text.Text, "Acme Corp · Lagos · ₦500,000") {
		t.Errorf("first posting meta = %q", first.Text.Text)
	}
	if !strings.Contains(first.Text.Text, "score 5.7") {
		t.Errorf("first posting score = %q", first.Text.Text)
	}
	if first.Accessory == nil || first.Accessory.URL != "https://example.com/apply" || first.Accessory.Style != "primary" {
		t.Errorf("accessory = %+v", first.Accessory)
	}

	if payload.Blocks[3].Type != "divider" {
		t.Errorf("last block type = %q, want divider", payload.Blocks[3].Type)
	}
}

func TestSlackNotifier_TruncatesToMaxItems(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger(), 1)
	postings := []model.ScoredPosting{
		sampleScored("A Engineer", "A", 3),
		sampleScored("B Engineer", "B", 2),
		sampleScored("C Engineer", "C", 1),
	}
	if err := n.Notify(digestRequest, postings); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// header, 1 posting, "more" note, divider
	if len(payload.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(payload.Blocks))
	}
	if !strings.Contains(payload.Blocks[2].Text.Text, "2 more") {
		t.Errorf("overflow note = %q", payload.Blocks[2].Text.Text)
	}
}

func TestSlackNotifier_PlaceholderLinkHasNoButton(t *testing.T) {
	p := sampleScored("Backend Engineer", "Acme", 2)
	p.Link = model.PlaceholderLink

	payload := buildPayload(digestRequest, []model.ScoredPosting{p}, 10)
	if payload.Blocks[1].Accessory != nil {
		t.Errorf("expected no button for placeholder link, got %+v", payload.Blocks[1].Accessory)
	}
	if strings.Contains(payload.Blocks[1].Text.Text, "<#|") {
		t.Errorf("placeholder link rendered as hyperlink: %q", payload.Blocks[1].Text.Text)
	}
}

func TestSlackNotifier_SlackReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger(), 10)
	if err := n.Notify(digestRequest, []model.ScoredPosting{sampleScored("Fails", "A", 1)}); err == nil {
		t.Error("expected error when Slack fails, got nil")
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := calls.Add(1)
		if c == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger(), 10)
	if err := n.Notify(digestRequest, []model.ScoredPosting{sampleScored("Rate Limited Job", "Test", 1)}); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}

func TestSendTestMessage(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger(), 10)
	if err := SendTestMessage(n); err != nil {
		t.Fatalf("SendTestMessage() = %v", err)
	}
	if !strings.Contains(string(body), "Integration Verified") {
		t.Errorf("unexpected payload: %s", body)
	}
}
