// Package useragent supplies browser User-Agent strings and request headers for
// the HTML scrapers.
package useragent

import (
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
)

var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:109.0) Gecko/20100101 Firefox/121.0",
}

// Pool picks User-Agent strings at random. Safe for concurrent use.
type Pool struct {
	mu     sync.Mutex
	rng    *rand.Rand
	agents []string
}

// New returns a pool over agents, or over the built-in list when agents is empty.
func New(agents []string, seed uint64) *Pool {
	if len(agents) == 0 {
		agents = defaultAgents
	}
	return &Pool{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		agents: agents,
	}
}

// Random returns any agent from the pool.
func (p *Pool) Random() string {
	return p.pick(p.agents)
}

// Chrome returns a Chrome agent, falling back to the first agent in the pool.
func (p *Pool) Chrome() string {
	return p.pickFamily("Chrome", p.agents[0])
}

// Firefox returns a Firefox agent, falling back to the last agent in the pool.
func (p *Pool) Firefox() string {
	return p.pickFamily("Firefox", p.agents[len(p.agents)-1])
}

func (p *Pool) pickFamily(family, fallback string) string {
	var matching []string
	for _, a := range p.agents {
		if strings.Contains(a, family) {
			matching = append(matching, a)
		}
	}
	if len(matching) == 0 {
		return fallback
	}
	return p.pick(matching)
}

func (p *Pool) pick(from []string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return from[p.rng.IntN(len(from))]
}

// Headers returns browser-like request headers with a random agent. Referer is set
// only when non-empty.
func (p *Pool) Headers(referer string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", p.Random())
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	h.Set("Upgrade-Insecure-Requests", "1")
	if referer != "" {
		h.Set("Referer", referer)
	}
	return h
}

// Apply copies Headers(referer) onto req.
func (p *Pool) Apply(req *http.Request, referer string) {
	for k, v := range p.Headers(referer) {
		req.Header[k] = v
	}
}
