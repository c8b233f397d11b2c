package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/hunter/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	Long:  "Reads the search history database and prints the most recent runs.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.History.Enabled {
		fmt.Println("Search history is disabled (history.enabled: false).")
		return nil
	}

	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer s.Close()

	runs, err := s.RecentRuns(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No searches recorded yet.")
		return nil
	}

	fmt.Printf("%-16s %-30s %-18s %7s %7s %9s  %s\n", "When", "Keywords", "Location", "Found", "Unique", "Elapsed", "Notes")
	fmt.Println(strings.Repeat("─", 104))
	for _, r := range runs {
		var notes []string
		if r.SlowSkipped {
			notes = append(notes, "slow skipped")
		}
		if r.Degraded {
			notes = append(notes, "degraded")
		}
		fmt.Printf("%-16s %-30s %-18s %7d %7d %9s  %s\n",
			humanize.Time(r.CreatedAt),
			truncate(r.Keywords, 30),
			truncate(r.Location, 18),
			r.TotalFound,
			r.UniqueFound,
			r.Elapsed.String(),
			strings.Join(notes, ", "),
		)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
