package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/hunter/internal/adapter"
	"github.com/amishk599/hunter/internal/config"
	"github.com/amishk599/hunter/internal/model"
	"github.com/amishk599/hunter/internal/notifier"
	"github.com/amishk599/hunter/internal/proxy"
	"github.com/amishk599/hunter/internal/rank"
	"github.com/amishk599/hunter/internal/ratelimit"
	"github.com/amishk599/hunter/internal/retry"
	"github.com/amishk599/hunter/internal/scheduler"
	"github.com/amishk599/hunter/internal/source"
	"github.com/amishk599/hunter/internal/store"
	"github.com/amishk599/hunter/internal/useragent"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "hunter",
	Short:        "Job search across APIs, feeds and job boards",
	Long:         "Hunter queries several job providers at once under a fixed time budget and prints one deduplicated, ranked list.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: HUNTER_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig(path string) (*config.Config, error) {
	return config.Load(config.ResolvePath(path))
}

// setupLogger logs to stderr so that stdout stays clean for results and --json.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Debug("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger, cfg.Notification.MaxItems)
	default:
		return notifier.NewLogNotifier(logger, cfg.Notification.MaxItems)
	}
}

// historyStore is a SearchHistory that owns a resource.
type historyStore interface {
	model.SearchHistory
	Close() error
}

func setupHistory(cfg *config.Config, logger *slog.Logger) historyStore {
	if !cfg.History.Enabled {
		return store.NewNopStore()
	}
	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Warn("search history unavailable, continuing without it", "path", cfg.History.Path, "error", err)
		return store.NewNopStore()
	}
	if err := s.Cleanup(cfg.History.Retention); err != nil {
		logger.Warn("history cleanup failed", "error", err)
	}
	return s
}

func newOrchestrator(cfg *config.Config, logger *slog.Logger) *scheduler.Orchestrator {
	budget := scheduler.Budget{
		MaxTotalTime:        cfg.Budget.MaxTotalTime,
		FastGroupTimeout:    cfg.Budget.FastGroupTimeout,
		SlowGroupTimeout:    cfg.Budget.SlowGroupTimeout,
		MinRemainingForSlow: cfg.Budget.MinRemainingForSlow,
		MaxWorkers:          cfg.Budget.MaxWorkers,
	}
	return scheduler.NewOrchestrator(budget, rank.NewRanker(cfg.Reliability()), logger)
}

// createFetcher builds the provider client for one configured source.
func createFetcher(sc config.SourceConfig, apiClient, scrapeClient *http.Client, agents *useragent.Pool, logger *slog.Logger) (model.Fetcher, bool) {
	switch sc.Type {
	case config.TypeJooble:
		return adapter.NewJoobleAdapter(sc.APIKey, apiClient), true
	case config.TypeAdzuna:
		return adapter.NewAdzunaAdapter(sc.AppID, sc.APIKey, apiClient), true
	case config.TypeJSearch:
		return adapter.NewJSearchAdapter(sc.APIKey, apiClient), true
	case config.TypeWeWorkRemotely:
		return adapter.NewWeWorkRemotelyAdapter(sc.FeedURL, apiClient), true
	case config.TypeJobberman:
		return adapter.NewJobbermanAdapter(scrapeClient, agents, logger), true
	case config.TypeIndeed:
		return adapter.NewIndeedAdapter(scrapeClient, agents), true
	default:
		logger.Warn("unsupported source type, skipping", "source", sc.Name, "type", sc.Type)
		return nil, false
	}
}

// buildSources wires every enabled source as retry -> rate limit -> guarded Source.
func buildSources(cfg *config.Config, logger *slog.Logger) []scheduler.Registration {
	apiClient := &http.Client{Timeout: 30 * time.Second}
	proxies := proxy.Parse(cfg.Proxies, logger)
	agents := useragent.New(cfg.UserAgents, uint64(time.Now().UnixNano()))

	limiter := ratelimit.NewSourceRateLimiter(cfg.RateLimit.MinDelay)
	for name, d := range cfg.RateLimit.Overrides {
		limiter.SetDelay(name, d)
	}

	var regs []scheduler.Registration
	for _, sc := range cfg.EnabledSources() {
		scrapeClient := apiClient
		if sc.UseProxy && proxies.Len() > 0 {
			scrapeClient = &http.Client{Timeout: 30 * time.Second, Transport: proxies.Transport()}
		}

		fetcher, ok := createFetcher(sc, apiClient, scrapeClient, agents, logger)
		if !ok {
			continue
		}
		fetcher = retry.NewRetryFetcher(fetcher, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
		fetcher = ratelimit.NewRateLimitedFetcher(fetcher, limiter, sc.Name)

		group, err := model.ParsePriorityGroup(sc.Group)
		if err != nil {
			logger.Warn("bad priority group, using fast", "source", sc.Name, "error", err)
		}
		regs = append(regs, scheduler.Registration{
			Source:  source.New(sc.Name, fetcher, logger),
			Group:   group,
			Timeout: sc.Timeout,
		})
		logger.Debug("registered source", "name", sc.Name, "type", sc.Type, "group", group.String(), "proxy", sc.UseProxy && proxies.Len() > 0)
	}
	return regs
}

// engine bundles everything a search needs.
type engine struct {
	cfg          *config.Config
	logger       *slog.Logger
	orchestrator *scheduler.Orchestrator
	sources      []scheduler.Registration
	history      historyStore
	notifier     model.Notifier
}

func newEngine(cfg *config.Config, logger *slog.Logger) *engine {
	return &engine{
		cfg:          cfg,
		logger:       logger,
		orchestrator: newOrchestrator(cfg, logger),
		sources:      buildSources(cfg, logger),
		history:      setupHistory(cfg, logger),
		notifier:     setupNotifier(cfg, &http.Client{Timeout: 30 * time.Second}, logger),
	}
}

func (e *engine) Close() error {
	return e.history.Close()
}

// search runs one aggregation and records it in the history store.
func (e *engine) search(ctx context.Context, req model.SearchRequest) model.AggregationResult {
	res := e.orchestrator.Run(ctx, req, e.sources)
	// Recording must not be cut short by the caller's cancellation.
	if err := e.history.RecordRun(context.WithoutCancel(ctx), req, res); err != nil {
		e.logger.Warn("failed to record search", "error", err)
	}
	return res
}

// searchFlags are shared by the search and browse commands.
type searchFlags struct {
	location     string
	jobType      string
	maxResults   int
	includeLocal bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.location, "location", "l", "", "location to search (default from config)")
	cmd.Flags().StringVarP(&f.jobType, "type", "t", "", "job type: fulltime, parttime, contract or all (default from config)")
	cmd.Flags().IntVarP(&f.maxResults, "max", "n", 0, "maximum results per source (default from config)")
	cmd.Flags().BoolVar(&f.includeLocal, "local", false, "include regional job boards even for non-local locations")
}

// request builds a SearchRequest, filling unset fields from the config defaults.
func (f *searchFlags) request(cfg *config.Config, args []string) model.SearchRequest {
	req := model.SearchRequest{
		Keywords:            strings.Join(args, " "),
		Location:            f.location,
		JobType:             f.jobType,
		MaxResultsPerSource: f.maxResults,
		IncludeLocal:        f.includeLocal || cfg.Search.IncludeLocal,
	}
	if req.Location == "" {
		req.Location = cfg.Search.Location
	}
	if req.JobType == "" {
		req.JobType = cfg.Search.JobType
	}
	if req.MaxResultsPerSource <= 0 {
		req.MaxResultsPerSource = cfg.Search.MaxResultsPerSource
	}
	return req
}
