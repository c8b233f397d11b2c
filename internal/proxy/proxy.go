// Package proxy holds a rotating pool of outbound HTTP proxies for the scrapers.
package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Pool rotates through a fixed list of proxies. It is safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	proxies []*url.URL
	next    int
}

// Parse builds a pool from entries of the form "host:port" or
// "host:port:username:password". Malformed entries are logged and skipped.
func Parse(entries []string, logger *slog.Logger) *Pool {
	p := &Pool{}
	for _, entry := range entries {
		u, err := parseEntry(entry)
		if err != nil {
			logger.Warn("skipping proxy entry", "error", err)
			continue
		}
		p.proxies = append(p.proxies, u)
	}
	return p
}

func parseEntry(entry string) (*url.URL, error) {
	parts := strings.Split(strings.TrimSpace(entry), ":")
	switch len(parts) {
	case 2, 3:
		if parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("proxy %q: empty host or port", entry)
		}
		return &url.URL{Scheme: "http", Host: parts[0] + ":" + parts[1]}, nil
	case 4:
		if parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("proxy %q: empty host or port", entry)
		}
		return &url.URL{
			Scheme: "http",
			Host:   parts[0] + ":" + parts[1],
			User:   url.UserPassword(parts[2], parts[3]),
		}, nil
	default:
		return nil, fmt.Errorf("proxy %q: want host:port or host:port:user:pass", entry)
	}
}

// Len returns the number of usable proxies.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Proxies returns a copy of the pool's entries.
func (p *Pool) Proxies() []*url.URL {
	if p.Len() == 0 {
		return nil
	}
	return append([]*url.URL(nil), p.proxies...)
}

// Next returns the next proxy in rotation, or nil if the pool is empty.
func (p *Pool) Next() *url.URL {
	if p.Len() == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	u := p.proxies[p.next]
	p.next = (p.next + 1) % len(p.proxies)
	return u
}

// Random returns a uniformly chosen proxy, or nil if the pool is empty.
func (p *Pool) Random() *url.URL {
	if p.Len() == 0 {
		return nil
	}
	return p.proxies[rand.IntN(len(p.proxies))]
}

// ProxyFunc returns a function suitable for http.Transport.Proxy. Each request gets
// the next proxy in rotation; an empty pool sends requests direct.
func (p *Pool) ProxyFunc() func(*http.Request) (*url.URL, error) {
	return func(*http.Request) (*url.URL, error) {
		return p.Next(), nil
	}
}

// Transport returns an http.Transport routing through the pool.
func (p *Pool) Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if p.Len() > 0 {
		t.Proxy = p.ProxyFunc()
	}
	return t
}

// Probe checks that a proxy can fetch target with a 200 response.
func Probe(ctx context.Context, proxyURL *url.URL, target string, timeout time.Duration) error {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = http.ProxyURL(proxyURL)
	client := &http.Client{Transport: t, Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating probe request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probing via %s: %w", proxyURL.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probing via %s: status %d", proxyURL.Host, resp.StatusCode)
	}
	return nil
}
