package player

import (
	"sync"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// StateManager manages player state in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	// Replay state
	activeReplay   *model.Replay
	previousReplay *model.Replay // Keep previous valid replay during reloads

	// Loading state
	isLoading      bool
	loadingMessage string

	// Interaction state
	interactionState model.InteractionState

	// Metadata
	lastDataUpdate int64 // Timestamp of last successful data update
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{
		interactionState: model.InteractionState{},
	}
}

// GetReplay returns the current active replay (thread-safe)
func (sm *StateManager) GetReplay() *model.Replay {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.activeReplay
}

// SetReplay installs a freshly built replay, keeping the last non-empty one
// as the fallback shown while the next reload is in flight.
func (sm *StateManager) SetReplay(replay *model.Replay) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.activeReplay != nil && !sm.activeReplay.IsEmpty() {
		sm.previousReplay = sm.activeReplay
	}

	sm.activeReplay = replay
	sm.lastDataUpdate = time.Now().Unix()
}

// GetLoadingState returns current loading state and message
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// GetInteractionState returns a copy of the current interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.interactionState
}

// SetInteractionState updates interaction state
func (sm *StateManager) SetInteractionState(state model.InteractionState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.interactionState = state
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	updateFunc(&sm.interactionState)
}

// GetLastDataUpdate returns timestamp of last successful data update
func (sm *StateManager) GetLastDataUpdate() int64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.lastDataUpdate
}

// GetReplayForDisplay returns the replay appropriate for rendering based on
// loading state: the active replay normally, the previous one while a reload
// is in flight so the screen never blanks out.
func (sm *StateManager) GetReplayForDisplay() *model.Replay {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.isLoading && sm.activeReplay != nil {
		return sm.activeReplay
	}

	if sm.isLoading && sm.previousReplay != nil {
		return sm.previousReplay
	}

	return sm.activeReplay
}
