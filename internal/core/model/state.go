package model

// FileEvent represents a file system event on a watched replay source
type FileEvent struct {
	Path      string
	Operation string
}

// Clock is an immutable snapshot of playback time. HoverTimeMs is non-nil
// only while the user is scrubbing a candidate position.
type Clock struct {
	CurrentTimeMs int64
	HoverTimeMs   *int64
}

// EffectiveMs returns the hover position while scrubbing, otherwise the
// committed playback time.
func (c Clock) EffectiveMs() int64 {
	if c.HoverTimeMs != nil {
		return *c.HoverTimeMs
	}
	return c.CurrentTimeMs
}

// InteractionState represents the current UI interaction state
type InteractionState struct {
	IsPlaying      bool
	ShowHelp       bool
	ForceReload    bool
	IsLoading      bool
	LoadingMessage string
	LayoutStyle    int    // LayoutDetailed or LayoutCompact
	StatusMessage  string // transient message shown on the status line
	ConfirmDialog  *ConfirmDialog

	// Incremental search. SearchBuffer applies to the grid on every
	// keystroke; SearchPrior is restored when the user cancels.
	SearchActive bool
	SearchBuffer string
	SearchPrior  string
}

// ConfirmDialog represents a confirmation dialog
type ConfirmDialog struct {
	Title     string
	Message   string
	OnConfirm func()
	OnCancel  func()
}

// LayoutParam carries the render-time preferences layouts need
type LayoutParam struct {
	Timezone   string
	TimeFormat string
}
