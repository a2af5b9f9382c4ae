package player

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// ViewPreferences is the per-replay view shape worth restoring across runs:
// how the grid was sorted and how dense the rows were. Playback position is
// not persisted; a fresh inspect always starts at the beginning.
type ViewPreferences struct {
	SortBy      string `json:"sort_by"`
	SortAsc     bool   `json:"sort_asc"`
	LayoutStyle int    `json:"layout_style"`
	DetailSize  int    `json:"detail_size"`
	UpdatedAt   int64  `json:"updated_at"`
}

// ViewHistory is the on-disk document, one preferences entry per replay name
type ViewHistory struct {
	Replays     map[string]ViewPreferences `json:"replays"`
	LastUpdated int64                      `json:"last_updated"`
}

// ViewHistoryManager handles persistence of view preferences
type ViewHistoryManager struct {
	history     *ViewHistory
	historyPath string
	mu          sync.Mutex
}

// NewViewHistoryManager creates a new view history manager
func NewViewHistoryManager(cacheDir string) *ViewHistoryManager {
	// Use ~/.go-replay-inspector/history/ instead of cache directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to cache directory if home directory is not accessible
		return &ViewHistoryManager{
			historyPath: filepath.Join(cacheDir, "view_history.json"),
			history:     &ViewHistory{Replays: make(map[string]ViewPreferences)},
		}
	}

	historyDir := filepath.Join(homeDir, ".go-replay-inspector", "history")
	return &ViewHistoryManager{
		historyPath: filepath.Join(historyDir, "view_history.json"),
		history:     &ViewHistory{Replays: make(map[string]ViewPreferences)},
	}
}

// Load loads view history from disk
func (m *ViewHistoryManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			util.LogInfo("No existing view history found, starting fresh")
			return nil
		}
		return fmt.Errorf("failed to read view history: %w", err)
	}

	var history ViewHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return fmt.Errorf("failed to unmarshal view history: %w", err)
	}
	if history.Replays == nil {
		history.Replays = make(map[string]ViewPreferences)
	}

	m.history = &history
	util.LogInfo(fmt.Sprintf("Loaded view preferences for %d replays", len(history.Replays)))
	return nil
}

// Save saves view history to disk
func (m *ViewHistoryManager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history.LastUpdated = time.Now().Unix()
	data, err := json.MarshalIndent(m.history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal view history: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(m.historyPath), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	// Write to temp file first, then rename (atomic operation)
	tempPath := m.historyPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write view history: %w", err)
	}

	if err := os.Rename(tempPath, m.historyPath); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return fmt.Errorf("failed to save view history: %w", err)
	}

	util.LogDebug(fmt.Sprintf("Saved view preferences for %d replays", len(m.history.Replays)))
	return nil
}

// Get returns the stored preferences for a replay
func (m *ViewHistoryManager) Get(replayName string) (ViewPreferences, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefs, ok := m.history.Replays[replayName]
	return prefs, ok
}

// Put stores preferences for a replay
func (m *ViewHistoryManager) Put(replayName string, prefs ViewPreferences) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefs.UpdatedAt = time.Now().Unix()
	m.history.Replays[replayName] = prefs
}

// Reset deletes the history file and clears the in-memory state
func (m *ViewHistoryManager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = &ViewHistory{Replays: make(map[string]ViewPreferences)}

	if err := os.Remove(m.historyPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove view history: %w", err)
	}
	util.LogInfo("View history reset")
	return nil
}
