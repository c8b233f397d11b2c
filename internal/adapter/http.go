package adapter

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/hunter/internal/model"
)

const (
	apiUserAgent = "hunter/1.0 (+https://github.com/amishk599/hunter)"
	maxPageBytes = 5 << 20
)

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// checkStatus turns any non-200 response into a *model.HTTPError so retry logic
// can classify it.
func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return &model.HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode),
	}
}

// readPage reads at most maxPageBytes of an HTML response.
func readPage(resp *http.Response) (string, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
