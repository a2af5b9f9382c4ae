package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/sam16vis/go-replay-inspector/internal/application/player"
	"github.com/sam16vis/go-replay-inspector/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Display related flags
	inspectTimezone         string
	inspectTimeFormat       string
	inspectRefreshPerSecond float64

	// Playback related flags
	inspectSpeed  float64
	inspectFollow bool

	// View history flags
	inspectResetView bool

	// Performance flags
	inspectConcurrency int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [replay-dir]",
	Short: "Inspect a replay's network activity interactively",
	Long: `Opens a full-screen view of the replay's network requests, synchronized
to a playback clock. Rows appear as their requests start and the current
request tracks the playback position.

Playback model:
- Space plays and pauses, arrow keys seek by one second
- ',' and '.' scrub a hover cursor without moving playback, 'm' commits it
- 'n' jumps the grid to the request at the current position
- Sort, filter and layout choices are saved per replay and restored`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	// Display flags
	inspectCmd.Flags().StringVar(&inspectTimezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")
	inspectCmd.Flags().StringVar(&inspectTimeFormat, "time-format", "24h",
		"Time format (12h or 24h)")
	inspectCmd.Flags().Float64Var(&inspectRefreshPerSecond, "refresh-per-second", 0.75,
		"Display refresh rate (0.1-20 Hz)")

	// Playback flags
	inspectCmd.Flags().Float64Var(&inspectSpeed, "speed", 1.0,
		"Playback speed multiplier (0.25-16)")
	inspectCmd.Flags().BoolVar(&inspectFollow, "follow", false,
		"Start playing immediately")

	// View history flags
	inspectCmd.Flags().BoolVar(&inspectResetView, "reset-view", false,
		"Reset saved view preferences before starting")

	// Performance flags
	inspectCmd.Flags().IntVar(&inspectConcurrency, "concurrency", 0,
		"Parser worker count (0 = all CPUs)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	// Handle debug mode (inherited from root command)
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	// Initialize logging (reuse root logic)
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)

	// Handle timezone
	if inspectTimezone == "auto" {
		inspectTimezone = "Local"
	}
	if err := util.InitializeTimeProvider(inspectTimezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", inspectTimezone, err)
	}

	// Validate refresh rate
	if inspectRefreshPerSecond < 0.1 || inspectRefreshPerSecond > 20 {
		return fmt.Errorf("refresh-per-second must be between 0.1 and 20")
	}

	// Validate time format
	if inspectTimeFormat != "12h" && inspectTimeFormat != "24h" {
		return fmt.Errorf("invalid time format '%s': must be either '12h' or '24h'", inspectTimeFormat)
	}

	// Validate playback speed
	if inspectSpeed < 0.25 || inspectSpeed > 16 {
		return fmt.Errorf("speed must be between 0.25 and 16")
	}

	// Handle view history reset if requested
	if inspectResetView {
		confirmed, err := confirmResetView()
		if err != nil {
			return fmt.Errorf("failed to reset view history: %w", err)
		}
		inspectResetView = confirmed
	}

	dataDir := "."
	if len(args) > 0 {
		dataDir = args[0]
	}

	workers := inspectConcurrency
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	// Create configuration
	config := &player.Config{
		DataDir:       expandPath(dataDir),
		CacheDir:      expandPath(defaultCacheDir),
		Timezone:      inspectTimezone,
		TimeFormat:    inspectTimeFormat,
		UIRefreshRate: inspectRefreshPerSecond,
		Speed:         inspectSpeed,
		Follow:        inspectFollow,
		ResetView:     inspectResetView,
		Concurrency:   workers,
	}

	// Create player
	p, err := player.NewPlayer(config)
	if err != nil {
		return err
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		<-sigChan
		cancel()
	}()

	// Run main loop
	return p.Run(ctx)
}

// confirmResetView prompts before clearing saved view preferences. The
// prompt has to happen here, before the terminal enters raw mode.
func confirmResetView() (bool, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return false, err
	}

	historyPath := filepath.Join(homeDir, ".go-replay-inspector", "history", "view_history.json")

	if _, err := os.Stat(historyPath); os.IsNotExist(err) {
		fmt.Println("No view history found. Nothing to reset.")
		return false, nil
	}

	fmt.Print("Reset saved view preferences? This clears sort and layout settings for every replay. (y/N): ")
	var response string
	fmt.Scanln(&response)

	if response != "y" && response != "Y" {
		fmt.Println("Reset cancelled.")
		return false, nil
	}

	return true, nil
}
