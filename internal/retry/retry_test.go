package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/hunter/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockFetcher calls a function on each invocation, tracking call count.
type mockFetcher struct {
	calls int
	fn    func(attempt int) ([]model.JobPosting, error)
}

func (m *mockFetcher) Fetch(_ context.Context, _ model.Query) ([]model.JobPosting, error) {
	m.calls++
	return m.fn(m.calls)
}

var query = model.Query{Keywords: "golang", Location: "Lagos", MaxResults: 10}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	postings := []model.JobPosting{{Title: "Engineer", Link: "https://a/1"}}
	mock := &mockFetcher{fn: func(_ int) ([]model.JobPosting, error) {
		return postings, nil
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rf.Fetch(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Link != "https://a/1" {
		t.Fatalf("unexpected postings: %v", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) ([]model.JobPosting, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return []model.JobPosting{{Title: "Engineer"}}, nil
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rf.Fetch(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(got))
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) ([]model.JobPosting, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 429, RetryAfter: 50 * time.Millisecond, Err: errors.New("slow down")}
		}
		return nil, nil
	}}

	rf := NewRetryFetcher(mock, 1, time.Hour, discardLogger())
	start := time.Now()
	if _, err := rf.Fetch(context.Background(), query); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond || elapsed > time.Second {
		t.Errorf("expected ~50ms Retry-After wait, got %v", elapsed)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.JobPosting, error) {
		return nil, &model.HTTPError{StatusCode: 403, Err: errors.New("bad api key")}
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rf.Fetch(context.Background(), query)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 403 {
		t.Fatalf("expected HTTPError with status 403, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.JobPosting, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	if _, err := rf.Fetch(context.Background(), query); err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.JobPosting, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rf := NewRetryFetcher(mock, 2, time.Second, discardLogger())
	_, err := rf.Fetch(ctx, query)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, false},
		{"429", &model.HTTPError{StatusCode: 429}, true},
		{"502", &model.HTTPError{StatusCode: 502}, true},
		{"401", &model.HTTPError{StatusCode: 401}, false},
		{"network", errors.New("connection reset"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryable(tc.err); got != tc.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
