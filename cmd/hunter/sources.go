package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/hunter/internal/proxy"
)

const defaultProbeTarget = "https://httpbin.org/ip"

var (
	probeProxies bool
	probeTarget  string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and proxies",
	Long:  "Reads the config and prints a table of all configured sources. With --probe, checks every proxy concurrently.",
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().BoolVar(&probeProxies, "probe", false, "check that each configured proxy works")
	sourcesCmd.Flags().StringVar(&probeTarget, "probe-url", defaultProbeTarget, "URL fetched through each proxy when probing")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-18s %-16s %-6s %-9s %-6s %s\n", "Source", "Type", "Group", "Timeout", "Proxy", "Status")
	fmt.Println(strings.Repeat("─", 66))

	enabled, disabled := 0, 0
	for _, s := range cfg.Sources {
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		timeout := "group"
		if s.Timeout > 0 {
			timeout = s.Timeout.String()
		}
		useProxy := "no"
		if s.UseProxy {
			useProxy = "yes"
		}
		fmt.Printf("%-18s %-16s %-6s %-9s %-6s %s\n", s.Name, s.Type, s.Group, timeout, useProxy, status)
	}
	fmt.Printf("\nTotal: %d sources (%d enabled, %d disabled)\n", len(cfg.Sources), enabled, disabled)

	pool := proxy.Parse(cfg.Proxies, setupLogger(debug))
	fmt.Printf("Proxies: %d configured, %d usable\n", len(cfg.Proxies), pool.Len())

	if !probeProxies || pool.Len() == 0 {
		return nil
	}

	results := probeAll(context.Background(), pool.Proxies(), probeTarget, 10*time.Second)
	fmt.Println()
	working := 0
	for i, u := range pool.Proxies() {
		if results[i] == nil {
			working++
			fmt.Printf("  ✓ %s\n", u.Host)
		} else {
			fmt.Printf("  ✗ %s  %v\n", u.Host, results[i])
		}
	}
	fmt.Printf("\n%d/%d proxies working\n", working, pool.Len())
	return nil
}

// probeAll checks every proxy concurrently and returns one error (or nil) per proxy.
func probeAll(ctx context.Context, proxies []*url.URL, target string, timeout time.Duration) []error {
	results := make([]error, len(proxies))
	var g errgroup.Group
	g.SetLimit(10)
	for i, u := range proxies {
		g.Go(func() error {
			results[i] = proxy.Probe(ctx, u, target, timeout)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
