package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/amishk599/hunter/internal/model"
)

var (
	searchOpts   searchFlags
	searchJSON   bool
	searchNotify bool
)

var searchCmd = &cobra.Command{
	Use:   "search <keywords...>",
	Short: "Search all enabled sources once and print ranked results",
	Long:  "Runs one aggregation across the configured sources and prints the deduplicated, ranked postings.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchOpts.register(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the full result as JSON")
	searchCmd.Flags().BoolVar(&searchNotify, "notify", false, "send the results through the configured notifier")
	rootCmd.AddCommand(searchCmd)
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableScoreStyle  = tableCellStyle.Foreground(lipgloss.Color("42"))
	summaryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	req := searchOpts.request(cfg, args)
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid search: %w", err)
	}

	e := newEngine(cfg, logger)
	defer e.Close()
	if len(e.sources) == 0 {
		logger.Error("no sources to search")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := e.search(ctx, req)

	if searchNotify {
		if err := e.notifier.Notify(req, res.Postings); err != nil {
			logger.Error("notification failed", "error", err)
		}
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(os.Stdout, req, res)
	return nil
}

func printResult(w io.Writer, req model.SearchRequest, res model.AggregationResult) {
	if len(res.Postings) == 0 {
		fmt.Fprintf(w, "No jobs found for %q.\n", req.Keywords)
	} else {
		rows := make([][]string, 0, len(res.Postings))
		for i, p := range res.Postings {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				fmt.Sprintf("%.1f", p.CombinedScore),
				model.Truncate(p.Title, 50),
				model.Truncate(p.Company, 25),
				model.Truncate(p.Location, 25),
				model.Truncate(p.Salary, 25),
				p.Source,
			})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			Headers("#", "Score", "Title", "Company", "Location", "Salary", "Source").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return tableHeaderStyle
				case col == 1:
					return tableScoreStyle
				default:
					return tableCellStyle
				}
			})
		fmt.Fprintln(w, t.Render())

		for i, p := range res.Postings {
			if p.Link != "" && p.Link != model.PlaceholderLink {
				fmt.Fprintf(w, "%3d  %s\n", i+1, p.Link)
			}
		}
	}

	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf("\n%d found, %d unique, %s", res.TotalFound, res.UniqueFound, res.Elapsed.Round(10*time.Millisecond))))
	var notes []string
	for _, r := range res.Sources {
		if r.Outcome != model.OutcomeOK {
			notes = append(notes, fmt.Sprintf("%s: %s", r.Name, r.Outcome))
		}
	}
	if res.SlowGroupSkipped {
		notes = append(notes, "slow sources skipped (budget)")
	}
	if res.Degraded {
		notes = append(notes, "ranking degraded")
	}
	if len(notes) > 0 {
		fmt.Fprintln(w, warnStyle.Render(strings.Join(notes, " | ")))
	}
}
