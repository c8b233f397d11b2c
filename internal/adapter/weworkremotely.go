package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/amishk599/hunter/internal/filter"
	"github.com/amishk599/hunter/internal/model"
)

const weWorkRemotelyFeedURL = "https://weworkremotely.com/remote-jobs.rss"

// WeWorkRemotelyAdapter reads the WeWorkRemotely RSS feed and keeps items whose
// title matches the query keywords. Every listing on the board is remote.
type WeWorkRemotelyAdapter struct {
	feedURL string
	client  *http.Client
}

// NewWeWorkRemotelyAdapter creates an adapter reading feedURL, or the board's
// main feed when feedURL is empty.
func NewWeWorkRemotelyAdapter(feedURL string, client *http.Client) *WeWorkRemotelyAdapter {
	if feedURL == "" {
		feedURL = weWorkRemotelyFeedURL
	}
	return &WeWorkRemotelyAdapter{feedURL: feedURL, client: client}
}

// Fetch downloads and filters the feed.
func (a *WeWorkRemotelyAdapter) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("weworkremotely feed: %w", err)
	}
	req.Header.Set("User-Agent", apiUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weworkremotely feed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "weworkremotely feed"); err != nil {
		return nil, err
	}

	// gofeed parsers carry per-parse state; one per call keeps Fetch concurrency-safe.
	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("weworkremotely feed: parsing: %w", err)
	}

	match := filter.NewTitleAndLocationFilter(strings.Fields(q.Keywords), nil)
	wantType := normalizeJobType(q.JobType)

	var postings []model.JobPosting
	for _, item := range feed.Items {
		p := wwrPosting(item)
		if !match.Match(p) {
			continue
		}
		if wantType != "" && p.JobType != "" && normalizeJobType(p.JobType) != wantType {
			continue
		}
		postings = append(postings, p)
		if q.MaxResults > 0 && len(postings) >= q.MaxResults {
			break
		}
	}
	return postings, nil
}

// wwrPosting maps a feed item. Titles are published as "Company: Role".
func wwrPosting(item *gofeed.Item) model.JobPosting {
	company, title := "", strings.TrimSpace(item.Title)
	if before, after, ok := strings.Cut(title, ":"); ok {
		company, title = strings.TrimSpace(before), strings.TrimSpace(after)
	}

	location := "Remote"
	if r := strings.TrimSpace(item.Custom["region"]); r != "" {
		location = "Remote (" + r + ")"
	}

	desc := item.Description
	if desc == "" {
		desc = item.Content
	}

	return model.JobPosting{
		Title:       title,
		Company:     company,
		Location:    location,
		Description: extractText(desc),
		JobType:     strings.TrimSpace(item.Custom["type"]),
		Link:        item.Link,
		Source:      "WeWorkRemotely",
	}
}
