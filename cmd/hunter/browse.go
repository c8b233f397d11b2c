package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/hunter/internal/browse"
	"github.com/amishk599/hunter/internal/model"
)

var browseOpts searchFlags

var browseCmd = &cobra.Command{
	Use:   "browse <keywords...>",
	Short: "Search and browse results interactively (TUI)",
	Long:  "Runs one aggregation behind a spinner, then opens a list and detail view of the ranked results.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBrowse,
}

func init() {
	browseOpts.register(browseCmd)
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	req := browseOpts.request(cfg, args)
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid search: %w", err)
	}

	// The TUI owns the terminal; log lines would corrupt it.
	e := newEngine(cfg, discardLogger())
	defer e.Close()
	if len(e.sources) == 0 {
		logger.Error("no sources to search")
		os.Exit(1)
	}

	res, err := browse.RunLoader(context.Background(), fmt.Sprintf("%d sources for %q", len(e.sources), req.Keywords),
		func(ctx context.Context) model.AggregationResult {
			return e.search(ctx, req)
		})
	if errors.Is(err, browse.ErrCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("running search: %w", err)
	}

	return browse.Run(req, res)
}
