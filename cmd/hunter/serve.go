package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/hunter/internal/config"
	"github.com/amishk599/hunter/internal/model"
	"github.com/amishk599/hunter/internal/scheduler"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve searches over HTTP (JSON)",
	Long:  "Starts an HTTP server exposing GET /search, /health and /stats; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

// searcher is the part of the engine the HTTP handlers need.
type searcher interface {
	search(ctx context.Context, req model.SearchRequest) model.AggregationResult
	statistics() scheduler.Statistics
}

func (e *engine) statistics() scheduler.Statistics {
	return e.orchestrator.Statistics()
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	e := newEngine(cfg, logger)
	defer e.Close()
	if len(e.sources) == 0 {
		logger.Error("no sources to search")
		os.Exit(1)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(e, cfg.Search, logger),
		ReadHeaderTimeout: 10 * time.Second,
		// A search may take the whole budget.
		WriteTimeout: cfg.Budget.MaxTotalTime + 15*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", addr, "sources", len(e.sources))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("goodbye")
	return nil
}

func newMux(s searcher, defaults config.SearchConfig, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		req, err := parseSearchRequest(r, defaults)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()}, logger)
			return
		}
		writeJSON(w, http.StatusOK, s.search(r.Context(), req), logger)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.statistics(), logger)
	})
	return mux
}

func parseSearchRequest(r *http.Request, defaults config.SearchConfig) (model.SearchRequest, error) {
	q := r.URL.Query()
	req := model.SearchRequest{
		Keywords:            q.Get("q"),
		Location:            q.Get("location"),
		JobType:             q.Get("job_type"),
		MaxResultsPerSource: defaults.MaxResultsPerSource,
		IncludeLocal:        defaults.IncludeLocal,
	}
	if !q.Has("location") {
		req.Location = defaults.Location
	}
	if req.JobType == "" {
		req.JobType = defaults.JobType
	}
	if v := q.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("max_results must be an integer")
		}
		req.MaxResultsPerSource = n
	}
	if v := q.Get("include_local"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("include_local must be a boolean")
		}
		req.IncludeLocal = b
	}
	return req, req.Validate()
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response failed", "error", err)
	}
}
