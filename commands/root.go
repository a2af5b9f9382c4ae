package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/analyzer"
	"github.com/sam16vis/go-replay-inspector/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Output related
	outputFormat string
	timezone     string

	// Filtering and grouping
	duration    string
	groupBy     string
	limit       int
	reset       bool
	concurrency int

	rootCmd = &cobra.Command{
		Use:   "go-replay-inspector [replay-dir]",
		Short: "Session replay network inspector",
		Long: `go-replay-inspector analyzes the network activity captured in a session
replay: the fetch, XHR and navigation requests a recorded browser session made.

It scans a directory of replay segment files (.json or .jsonl), merges the
performance spans they carry into one timeline, and prints grouped request
statistics. Use the inspect subcommand for the interactive time-synchronized
view.

Examples:
  go-replay-inspector                                  # Report on the current directory
  go-replay-inspector ./replays/checkout-bug           # Report on a replay directory
  go-replay-inspector --output json --group-by host    # JSON output grouped by host
  go-replay-inspector --group-by status --limit 10     # Ten busiest status classes
  go-replay-inspector --duration 90s                   # Only the last 90 seconds of activity`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReport,
	}
)

const (
	defaultLogFile  = "~/.go-replay-inspector/logs/app.log"
	defaultCacheDir = "~/.go-replay-inspector/cache"
)

func init() {
	// Time filtering
	rootCmd.Flags().StringVarP(&duration, "duration", "d", "",
		"Trailing window of replay activity to report on (e.g., 90s, 5m, 1h30m)")

	// Data organization and analysis
	rootCmd.Flags().StringVar(&groupBy, "group-by", "host",
		"Group by field (host, method, status, op)")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Limit result count (0 = unlimited)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "",
		"Alias for --output")
	rootCmd.Flags().StringVar(&timezone, "timezone", "Local",
		"Timezone for displayed timestamps (e.g., Asia/Shanghai, UTC)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear the parse cache before analysis")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0,
		"Parser worker count (0 = all CPUs)")
}

func runReport(cmd *cobra.Command, args []string) error {
	// Determine log level based on debug flag
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	// Handle format alias
	if format := cmd.Flags().Lookup("format"); format != nil && format.Changed {
		outputFormat = format.Value.String()
	}

	// Initialize logging
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
	if err := util.InitializeTimeProvider(timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	// Expand paths
	dataDir := "."
	if len(args) > 0 {
		dataDir = args[0]
	}
	dataDir = expandPath(dataDir)
	cacheDir := expandPath(defaultCacheDir)

	// Ensure cache directory exists
	if err := ensureDir(cacheDir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Create analyzer config
	config := &analyzer.Config{
		DataDir:      dataDir,
		CacheDir:     cacheDir,
		OutputFormat: outputFormat,
		Duration:     duration,
		GroupBy:      groupBy,
		Limit:        limit,
		Concurrency:  concurrency,
	}

	// Create and run analyzer
	a, err := analyzer.New(config)
	if err != nil {
		return err
	}

	if reset {
		if err := a.ClearCache(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Parse cache cleared")
	}

	return a.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
