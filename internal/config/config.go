package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no --config flag is given.
const EnvConfigPath = "HUNTER_CONFIG"

// Source types understood by the CLI wiring.
const (
	TypeJooble         = "jooble"
	TypeAdzuna         = "adzuna"
	TypeJSearch        = "jsearch"
	TypeWeWorkRemotely = "weworkremotely"
	TypeJobberman      = "jobberman"
	TypeIndeed         = "indeed"
)

// defaultGroups assigns a priority group to each source type when the config omits one.
var defaultGroups = map[string]string{
	TypeJooble:         "fast",
	TypeAdzuna:         "fast",
	TypeJSearch:        "fast",
	TypeWeWorkRemotely: "fast",
	TypeJobberman:      "slow",
	TypeIndeed:         "slow",
}

// Config is the root configuration for hunter.
type Config struct {
	Budget       BudgetConfig
	Search       SearchConfig
	Sources      []SourceConfig
	Proxies      []string
	UserAgents   []string
	RateLimit    RateLimitConfig
	Retry        RetryConfig
	History      HistoryConfig
	Notification NotificationConfig
	Server       ServerConfig
}

// BudgetConfig bounds the wall-clock time of a single aggregation run.
type BudgetConfig struct {
	MaxTotalTime        time.Duration
	FastGroupTimeout    time.Duration
	SlowGroupTimeout    time.Duration
	MinRemainingForSlow time.Duration // slow group is skipped below this
	MaxWorkers          int
}

// SearchConfig holds request defaults for the CLI and HTTP surfaces.
type SearchConfig struct {
	Location            string `yaml:"location"`
	JobType             string `yaml:"job_type"`
	MaxResultsPerSource int    `yaml:"max_results_per_source"`
	IncludeLocal        bool   `yaml:"include_local"`
}

// SourceConfig describes a single provider.
type SourceConfig struct {
	Name        string
	Type        string
	Group       string        // "fast" or "slow"
	Timeout     time.Duration // zero means the group timeout
	APIKey      string        // expanded from env var by Load
	AppID       string        // adzuna only
	FeedURL     string        // weworkremotely only
	UseProxy    bool
	Reliability float64 // zero keeps the built-in weight
	Enabled     bool
}

// RateLimitConfig controls per-provider request pacing.
type RateLimitConfig struct {
	MinDelay  time.Duration            // minimum gap between requests to the same provider
	Overrides map[string]time.Duration // keyed by source name
}

// MinDelayFor returns the configured delay for the given source, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(source string) time.Duration {
	if d, ok := r.Overrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// RetryConfig controls the retry decorator wrapped around every provider.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// HistoryConfig controls the search history store.
type HistoryConfig struct {
	Enabled   bool
	Path      string
	Retention time.Duration
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
	MaxItems   int    `yaml:"max_items"`
}

// ServerConfig controls `hunter serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Budget       rawBudgetConfig    `yaml:"budget"`
	Search       SearchConfig       `yaml:"search"`
	Sources      []rawSourceConfig  `yaml:"sources"`
	Proxies      []string           `yaml:"proxies"`
	UserAgents   []string           `yaml:"user_agents"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Retry        rawRetryConfig     `yaml:"retry"`
	History      rawHistoryConfig   `yaml:"history"`
	Notification NotificationConfig `yaml:"notification"`
	Server       ServerConfig       `yaml:"server"`
}

type rawBudgetConfig struct {
	MaxTotalTime        string `yaml:"max_total_time"`
	FastGroupTimeout    string `yaml:"fast_group_timeout"`
	SlowGroupTimeout    string `yaml:"slow_group_timeout"`
	MinRemainingForSlow string `yaml:"min_remaining_for_slow"`
	MaxWorkers          int    `yaml:"max_workers"`
}

type rawSourceConfig struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	Group       string  `yaml:"group"`
	Timeout     string  `yaml:"timeout"`
	APIKey      string  `yaml:"api_key"`
	AppID       string  `yaml:"app_id"`
	FeedURL     string  `yaml:"feed_url"`
	UseProxy    bool    `yaml:"use_proxy"`
	Reliability float64 `yaml:"reliability"`
	Enabled     bool    `yaml:"enabled"`
}

type rawRateLimitConfig struct {
	MinDelay  string            `yaml:"min_delay"`
	Overrides map[string]string `yaml:"overrides"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawHistoryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

// ResolvePath picks the config file: the flag value, then $HUNTER_CONFIG, then ./config.yaml.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return "config.yaml"
}

// DefaultHistoryPath is the history database location under the XDG data dir.
func DefaultHistoryPath() string {
	return filepath.Join(xdg.DataHome, "hunter", "history.db")
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	budget := BudgetConfig{MaxWorkers: raw.Budget.MaxWorkers}
	if budget.MaxWorkers == 0 {
		budget.MaxWorkers = 5
	}
	durations := []struct {
		field string
		value string
		def   time.Duration
		dst   *time.Duration
	}{
		{"budget.max_total_time", raw.Budget.MaxTotalTime, 45 * time.Second, &budget.MaxTotalTime},
		{"budget.fast_group_timeout", raw.Budget.FastGroupTimeout, 15 * time.Second, &budget.FastGroupTimeout},
		{"budget.slow_group_timeout", raw.Budget.SlowGroupTimeout, 30 * time.Second, &budget.SlowGroupTimeout},
		{"budget.min_remaining_for_slow", raw.Budget.MinRemainingForSlow, 5 * time.Second, &budget.MinRemainingForSlow},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(d.field, d.value, d.def); err != nil {
			return nil, err
		}
	}

	sources := make([]SourceConfig, 0, len(raw.Sources))
	for i, rs := range raw.Sources {
		timeout, err := parseDuration(fmt.Sprintf("sources[%d].timeout", i), rs.Timeout, 0)
		if err != nil {
			return nil, err
		}
		typ := strings.ToLower(strings.TrimSpace(rs.Type))
		group := strings.ToLower(strings.TrimSpace(rs.Group))
		if group == "" {
			group = defaultGroups[typ]
		}
		name := rs.Name
		if name == "" {
			name = typ
		}
		sources = append(sources, SourceConfig{
			Name:        name,
			Type:        typ,
			Group:       group,
			Timeout:     timeout,
			APIKey:      rs.APIKey,
			AppID:       rs.AppID,
			FeedURL:     rs.FeedURL,
			UseProxy:    rs.UseProxy,
			Reliability: rs.Reliability,
			Enabled:     rs.Enabled,
		})
	}

	rateLimitDelay, err := parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, 2*time.Second)
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]time.Duration)
	for name, raw := range raw.RateLimit.Overrides {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.overrides[%q]: %w", name, err)
		}
		overrides[name] = d
	}

	maxRetries := 2 // default
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}
	retryDelay, err := parseDuration("retry.base_delay", raw.Retry.BaseDelay, time.Second)
	if err != nil {
		return nil, err
	}

	retention, err := parseDuration("history.retention", raw.History.Retention, 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	historyPath := raw.History.Path
	if historyPath == "" {
		historyPath = DefaultHistoryPath()
	}

	search := raw.Search
	if search.MaxResultsPerSource == 0 {
		search.MaxResultsPerSource = 10
	}
	if search.JobType == "" {
		search.JobType = "all"
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}
	if notification.MaxItems == 0 {
		notification.MaxItems = 10
	}

	server := raw.Server
	if server.Addr == "" {
		server.Addr = ":8080"
	}

	cfg := &Config{
		Budget:     budget,
		Search:     search,
		Sources:    sources,
		Proxies:    raw.Proxies,
		UserAgents: raw.UserAgents,
		RateLimit: RateLimitConfig{
			MinDelay:  rateLimitDelay,
			Overrides: overrides,
		},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  retryDelay,
		},
		History: HistoryConfig{
			Enabled:   raw.History.Enabled,
			Path:      historyPath,
			Retention: retention,
		},
		Notification: notification,
		Server:       server,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnabledSources returns the sources with enabled set, in file order.
func (c *Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// Reliability returns the per-source ranking weights set in the file.
func (c *Config) Reliability() map[string]float64 {
	out := make(map[string]float64)
	for _, s := range c.Sources {
		if s.Reliability > 0 {
			out[s.Name] = s.Reliability
		}
	}
	return out
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	b := cfg.Budget
	if b.MaxTotalTime <= 0 || b.FastGroupTimeout <= 0 || b.SlowGroupTimeout <= 0 {
		return fmt.Errorf("budget timeouts must be positive")
	}
	if b.FastGroupTimeout > b.MaxTotalTime || b.SlowGroupTimeout > b.MaxTotalTime {
		return fmt.Errorf("budget group timeouts must not exceed max_total_time (%v)", b.MaxTotalTime)
	}
	if b.MinRemainingForSlow < 0 {
		return fmt.Errorf("budget.min_remaining_for_slow must not be negative, got %v", b.MinRemainingForSlow)
	}
	if b.MaxWorkers < 1 {
		return fmt.Errorf("budget.max_workers must be at least 1, got %d", b.MaxWorkers)
	}

	if cfg.Search.MaxResultsPerSource < 1 {
		return fmt.Errorf("search.max_results_per_source must be positive, got %d", cfg.Search.MaxResultsPerSource)
	}

	enabled := 0
	seen := make(map[string]bool)
	for _, s := range cfg.Sources {
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
		if _, ok := defaultGroups[s.Type]; !ok {
			return fmt.Errorf("source %q: unknown type %q", s.Name, s.Type)
		}
		if s.Group != "fast" && s.Group != "slow" {
			return fmt.Errorf("source %q: group must be \"fast\" or \"slow\", got %q", s.Name, s.Group)
		}
		if s.Reliability < 0 {
			return fmt.Errorf("source %q: reliability must not be negative", s.Name)
		}
		if !s.Enabled {
			continue
		}
		enabled++
		switch s.Type {
		case TypeJooble, TypeJSearch:
			if s.APIKey == "" {
				return fmt.Errorf("source %q: api_key is required for %s", s.Name, s.Type)
			}
		case TypeAdzuna:
			if s.APIKey == "" || s.AppID == "" {
				return fmt.Errorf("source %q: app_id and api_key are required for adzuna", s.Name)
			}
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
