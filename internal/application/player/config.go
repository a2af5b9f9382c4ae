package player

// Config contains configuration for the inspect command
type Config struct {
	// Data directories
	DataDir  string
	CacheDir string

	// Display settings
	Timezone   string
	TimeFormat string

	// Refresh and playback settings
	UIRefreshRate float64
	Speed         float64
	Follow        bool

	// View history
	ResetView bool

	// Performance settings
	Concurrency int
}

// Validate fills defaults and clamps the tunable rates into their
// supported ranges.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.CacheDir == "" {
		c.CacheDir = "~/.go-replay-inspector/cache"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "24h"
	}
	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = 0.75
	}
	if c.UIRefreshRate < 0.1 {
		c.UIRefreshRate = 0.1
	}
	if c.UIRefreshRate > 20 {
		c.UIRefreshRate = 20
	}
	if c.Speed == 0 {
		c.Speed = 1
	}
	if c.Speed < 0.25 {
		c.Speed = 0.25
	}
	if c.Speed > 16 {
		c.Speed = 16
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	return nil
}
