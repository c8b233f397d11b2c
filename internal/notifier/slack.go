package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/hunter/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends a ranked digest to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	maxItems   int
}

// NewSlackNotifier returns a notifier that posts one digest message per search.
// maxItems <= 0 includes every posting.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger, maxItems int) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		maxItems:   maxItems,
	}
}

// Notify sends the top postings as a single Block Kit message. An empty result
// sends nothing.
func (s *SlackNotifier) Notify(req model.SearchRequest, postings []model.ScoredPosting) error {
	if len(postings) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(req, postings, s.maxItems))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	retried, err := s.post(body)
	if err != nil {
		s.logger.Error("slack notification failed", "keywords", req.Keywords, "error", err)
		return err
	}
	s.logger.Info("slack digest sent", "keywords", req.Keywords, "postings", len(limit(postings, s.maxItems)), "retried", retried)
	return nil
}

// post delivers body, retrying once when Slack answers 429.
func (s *SlackNotifier) post(body []byte) (retried bool, err error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return true, fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return true, fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		return true, nil
	}

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	return false, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type      string        `json:"type"`
	Text      *slackText    `json:"text,omitempty"`
	Fields    []slackText   `json:"fields,omitempty"`
	Accessory *slackElement `json:"accessory,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style,omitempty"`
}

// SendTestMessage sends a one-posting digest to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	req := model.SearchRequest{Keywords: "integration test", Location: "Everywhere", MaxResultsPerSource: 1}
	posting := model.ScoredPosting{
		JobPosting: model.JobPosting{
			Title:    "Test Notification: Integration Verified",
			Company:  "Hunter Test",
			Location: "Everywhere",
			Link:     "https://github.com/amishk599/hunter",
			Source:   "test",
		},
		RelevanceScore: 1,
		SourceScore:    1,
		CombinedScore:  1,
	}
	return n.Notify(req, []model.ScoredPosting{posting})
}

func headline(req model.SearchRequest, total int) string {
	where := ""
	if strings.TrimSpace(req.Location) != "" {
		where = " in " + req.Location
	}
	noun := "jobs"
	if total == 1 {
		noun = "job"
	}
	return fmt.Sprintf("🔎 %d %s for \"%s\"%s", total, noun, req.Keywords, where)
}

func postingText(rank int, p model.ScoredPosting) string {
	title := p.Title
	if p.Link != "" && p.Link != model.PlaceholderLink {
		title = "<" + p.Link + "|" + p.Title + ">"
	}
	var meta []string
	for _, part := range []string{p.Company, p.Location, p.Salary} {
		if part != "" {
			meta = append(meta, part)
		}
	}
	text := fmt.Sprintf("*%d. %s*", rank, title)
	if len(meta) > 0 {
		text += "\n" + strings.Join(meta, " · ")
	}
	return text + fmt.Sprintf("\n_%s · score %.1f_", p.Source, p.CombinedScore)
}

func buildPayload(req model.SearchRequest, postings []model.ScoredPosting, maxItems int) slackPayload {
	top := limit(postings, maxItems)

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: headline(req, len(postings))},
		},
	}

	for i, p := range top {
		block := slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: postingText(i+1, p)},
		}
		if p.Link != "" && p.Link != model.PlaceholderLink {
			block.Accessory = &slackElement{
				Type:  "button",
				Text:  slackText{Type: "plain_text", Text: "Apply"},
				URL:   p.Link,
				Style: "primary",
			}
		}
		blocks = append(blocks, block)
	}

	if len(top) < len(postings) {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("_…and %d more_", len(postings)-len(top))},
		})
	}

	blocks = append(blocks, slackBlock{Type: "divider"})
	return slackPayload{Blocks: blocks}
}
