package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/core/constants"
	"github.com/sam16vis/go-replay-inspector/internal/core/grid"
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/core/monitoring"
	"github.com/sam16vis/go-replay-inspector/internal/core/playback"
	"github.com/sam16vis/go-replay-inspector/internal/presentation/display"
	"github.com/sam16vis/go-replay-inspector/internal/presentation/interaction"
	"github.com/sam16vis/go-replay-inspector/internal/presentation/layout"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// Player drives the interactive inspect session: it owns the grid, the
// playback clock and the terminal, and its Run loop is the single goroutine
// that mutates any of them.
type Player struct {
	config   *Config
	state    *StateManager
	loader   *DataLoader
	grid     *grid.Grid
	clock    *playback.Clock
	display  *display.TerminalDisplay
	history  *ViewHistoryManager
	watcher  *monitoring.FileWatcher
	keyboard *interaction.KeyboardReader
	sizer    layout.Sizer

	refreshMutex sync.Mutex // Prevent concurrent reloads
	lastAdvance  time.Time  // Wall-clock base for playback advancement
}

// NewPlayer creates a Player for the given configuration.
func NewPlayer(config *Config) (*Player, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	loader, err := NewDataLoader(config)
	if err != nil {
		return nil, err
	}

	return &Player{
		config:  config,
		state:   NewStateManager(),
		loader:  loader,
		grid:    grid.New(grid.Callbacks{}),
		clock:   playback.NewClock(),
		display: display.NewTerminalDisplay(),
		history: NewViewHistoryManager(config.CacheDir),
	}, nil
}

func (p *Player) Run(ctx context.Context) error {
	util.LogInfo("Starting replay inspector...")

	// Ensure cleanup on exit
	defer p.Close()

	// Initialize global time provider with configured timezone
	if err := util.InitializeTimeProvider(p.config.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	// Phase 1: view history
	if p.config.ResetView {
		if err := p.history.Reset(); err != nil {
			util.LogWarn(fmt.Sprintf("View history reset warning: %v", err))
		}
	}
	if err := p.history.Load(); err != nil {
		util.LogWarn(fmt.Sprintf("View history load warning: %v", err))
	}

	// Phase 2: keyboard in raw mode
	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	p.keyboard = keyboard
	defer p.keyboard.Close()

	// Enter alternate screen mode early to show loading state
	p.display.EnterAlternateScreen()
	defer p.display.ExitAlternateScreen()

	p.state.SetLoadingState(true, "Loading replay data...")
	p.updateDisplay()

	// Phase 3: preload segments synchronously
	if err := p.loader.Preload(); err != nil {
		return fmt.Errorf("preload failed: %w", err)
	}

	p.installReplay(p.loader.BuildReplay())
	p.applyViewPreferences()
	p.state.SetLoadingState(false, "")

	if p.config.Follow {
		p.togglePlay()
	}

	// Phase 4: start file monitoring
	if err := p.startWatcher(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	// Phase 5: main loop
	uiTicker := time.NewTicker(time.Duration(1000/p.config.UIRefreshRate) * time.Millisecond)
	defer uiTicker.Stop()

	playTicker := time.NewTicker(constants.PlaybackTick)
	defer playTicker.Stop()

	cacheTicker := time.NewTicker(constants.CachePersistInterval)
	defer cacheTicker.Stop()

	reloadTimer := time.NewTimer(constants.ReloadDebounce)
	reloadTimer.Stop()

	p.lastAdvance = time.Now()

	// Initial display with loaded data
	p.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down replay inspector...")
			return nil

		case <-uiTicker.C:
			p.updateDisplay()

		case now := <-playTicker.C:
			// Advance playback by scaled wall time. Renders happen here too
			// so the marker moves smoother than the UI refresh rate.
			elapsed := now.Sub(p.lastAdvance)
			p.lastAdvance = now
			if p.clock.Advance(time.Duration(float64(elapsed) * p.config.Speed)) {
				p.updateDisplay()
			}

		case <-cacheTicker.C:
			p.persistCache()

		case event := <-p.watcher.Events():
			// Exports flush whole segments; wait for the burst to settle
			util.LogDebug(fmt.Sprintf("Segment changed: %s (%s)", event.Path, event.Operation))
			reloadTimer.Reset(constants.ReloadDebounce)

		case <-reloadTimer.C:
			p.reloadReplay(false)
			p.updateDisplay()

		case keyEvent := <-p.keyboard.Events():
			if p.handleKeyboard(keyEvent) {
				return nil // Exit requested
			}
			if p.state.GetInteractionState().ForceReload {
				p.state.UpdateInteractionState(func(s *model.InteractionState) {
					s.ForceReload = false
				})
				p.reloadReplay(true)
			}
			p.updateDisplay() // Update display after keyboard action
		}
	}
}

// installReplay feeds a freshly built replay to every consumer: state for
// rendering, the grid for display and the clock for playback bounds.
func (p *Player) installReplay(replay *model.Replay) {
	p.state.SetReplay(replay)
	p.grid.SetFrames(replay.Frames, replay.StartMs)
	p.clock.SetBounds(replay.StartMs, replay.EndMs)

	util.LogInfo(fmt.Sprintf("Replay %s loaded: %d segments, %d frames, span %s",
		replay.Name, len(replay.Segments), len(replay.Frames),
		util.FormatDurationMs(replay.DurationMs())))
}

// reloadReplay rebuilds the replay from disk. force stages a full memory
// cache reset so segments deleted from disk drop out; the regular path
// revalidates existing cache entries and parses only changed files.
func (p *Player) reloadReplay(force bool) {
	p.refreshMutex.Lock()
	defer p.refreshMutex.Unlock()

	p.state.SetLoadingState(true, "Reloading replay data...")

	if force {
		p.loader.BeginReset()
	}

	files, err := p.loader.ScanSegments()
	if err != nil {
		util.LogError(fmt.Sprintf("Failed to scan segment files: %v", err))
		if force {
			p.loader.CancelReset()
		}
		p.state.SetLoadingState(false, "")
		return
	}

	if err := p.loader.LoadSegments(files); err != nil {
		util.LogError(fmt.Sprintf("Failed to load segment files: %v", err))
		if force {
			p.loader.CancelReset()
		}
		p.state.SetLoadingState(false, "")
		return
	}

	if force {
		p.loader.CommitReset()
	}

	replay := p.loader.BuildReplay()

	// A debounced event for an unchanged file must not reset the cursor and
	// detail pane; install only when the merged replay actually moved
	prev := p.state.GetReplay()
	if !force && prev != nil &&
		prev.StartMs == replay.StartMs && prev.EndMs == replay.EndMs &&
		len(prev.Frames) == len(replay.Frames) && len(prev.Segments) == len(replay.Segments) {
		util.LogDebug("Reload produced an identical replay, keeping current view")
		p.state.SetLoadingState(false, "")
		return
	}

	p.installReplay(replay)
	p.state.SetLoadingState(false, "")
}

func (p *Player) updateDisplay() {
	isLoading, loadingMessage := p.state.GetLoadingState()
	replay := p.state.GetReplayForDisplay()

	state := p.state.GetInteractionState()
	state.IsLoading = isLoading
	state.LoadingMessage = loadingMessage
	state.IsPlaying = p.clock.IsPlaying()

	termWidth, termHeight := p.sizer.GetTerminalSize()
	gridWidth, gridHeight := layout.GridGeometry(termWidth, termHeight)
	p.grid.SetGeometry(gridHeight, gridWidth)

	snapshot := p.clock.Snapshot()
	p.display.RenderWithState(&layout.Screen{
		View:   p.grid.View(snapshot),
		Replay: replayInfo(replay),
		Clock:  snapshot,
		State:  state,
		Param:  model.LayoutParam{Timezone: p.config.Timezone, TimeFormat: p.config.TimeFormat},
		Speed:  p.config.Speed,
		Width:  termWidth,
		Height: termHeight,
	})
}

// handleKeyboard processes one key event, returning true to exit.
func (p *Player) handleKeyboard(event interaction.KeyEvent) bool {
	state := p.state.GetInteractionState()

	// Handle confirm dialog inputs first
	if state.ConfirmDialog != nil {
		switch event.Type {
		case interaction.KeyChar:
			switch event.Key {
			case 'y', 'Y':
				if state.ConfirmDialog.OnConfirm != nil {
					state.ConfirmDialog.OnConfirm()
				}
				p.display.ClearScreen()
			case 'n', 'N':
				if state.ConfirmDialog.OnCancel != nil {
					state.ConfirmDialog.OnCancel()
				}
				p.display.ClearScreen()
			}
		case interaction.KeyEscape:
			if state.ConfirmDialog.OnCancel != nil {
				state.ConfirmDialog.OnCancel()
			}
			p.display.ClearScreen()
		}
		return false // Ignore other keys while the dialog is open
	}

	// Any key dismisses the help screen; quit keys still quit
	if state.ShowHelp {
		if event.Type == interaction.KeyChar && (event.Key == 'q' || event.Key == 'Q' || event.Key == 3) {
			return true
		}
		p.state.UpdateInteractionState(func(s *model.InteractionState) {
			s.ShowHelp = false
		})
		return false
	}

	// Incremental search captures every key until committed or cancelled
	if state.SearchActive {
		return p.handleSearchKey(event)
	}

	switch event.Type {
	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q', 3: // 'q', 'Q', or Ctrl+C
			return true
		case 'h', '?':
			p.state.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = !s.ShowHelp
			})
		case 'j':
			p.grid.MoveCursor(1)
		case 'k':
			p.grid.MoveCursor(-1)
		case 4: // Ctrl+D
			p.grid.PageCursor(1)
		case 21: // Ctrl+U
			p.grid.PageCursor(-1)
		case 'g':
			p.grid.CursorToTop()
		case 'G':
			p.grid.CursorToBottom()
		case '+', '=':
			p.grid.ResizeDetail(1)
		case '-', '_':
			p.grid.ResizeDetail(-1)
		case '1', '2', '3', '4', '5', '6', '7':
			p.grid.ToggleSortByNumber(int(event.Key - '0'))
		case '/':
			p.startSearch()
		case 'c':
			p.grid.ClearFilter()
		case ' ':
			p.togglePlay()
		case ',':
			p.clock.HoverBy(-constants.HoverStepMs)
		case '.':
			p.clock.HoverBy(constants.HoverStepMs)
		case 'm':
			p.clock.CommitHover()
		case 'x':
			p.clock.ClearHover()
		case 'n':
			p.grid.JumpToCurrent(p.clock.Snapshot())
		case 't':
			p.cycleLayout()
		case 'r':
			p.state.UpdateInteractionState(func(s *model.InteractionState) {
				s.ForceReload = true
			})
		case 'C':
			p.confirmClearParseCache()
		}

	case interaction.KeyUp:
		p.grid.MoveCursor(-1)
	case interaction.KeyDown:
		p.grid.MoveCursor(1)
	case interaction.KeyLeft:
		p.clock.SeekBy(-constants.SeekStepMs)
	case interaction.KeyRight:
		p.clock.SeekBy(constants.SeekStepMs)
	case interaction.KeyPageUp:
		p.grid.PageCursor(-1)
	case interaction.KeyPageDown:
		p.grid.PageCursor(1)
	case interaction.KeyHome:
		p.grid.CursorToTop()
	case interaction.KeyEnd:
		p.grid.CursorToBottom()
	case interaction.KeyEnter:
		p.grid.SelectCursorRow()

	case interaction.KeyEscape:
		if p.grid.DetailOpen() {
			p.grid.CloseDetail()
			return false
		}
		return true
	}

	return false
}

// handleSearchKey edits the incremental search buffer. The term applies to
// the grid on every keystroke; Esc restores what was active before '/'.
func (p *Player) handleSearchKey(event interaction.KeyEvent) bool {
	switch event.Type {
	case interaction.KeyEnter:
		p.state.UpdateInteractionState(func(s *model.InteractionState) {
			s.SearchActive = false
			s.SearchPrior = ""
		})

	case interaction.KeyEscape:
		var prior string
		p.state.UpdateInteractionState(func(s *model.InteractionState) {
			prior = s.SearchPrior
			s.SearchActive = false
			s.SearchBuffer = ""
			s.SearchPrior = ""
		})
		p.grid.SetSearchTerm(prior)

	case interaction.KeyBackspace:
		var buffer string
		p.state.UpdateInteractionState(func(s *model.InteractionState) {
			if s.SearchBuffer != "" {
				runes := []rune(s.SearchBuffer)
				s.SearchBuffer = string(runes[:len(runes)-1])
			}
			buffer = s.SearchBuffer
		})
		p.grid.SetSearchTerm(buffer)

	case interaction.KeyChar:
		if event.Key == 3 { // Ctrl+C still quits
			return true
		}
		if event.Key < 32 || event.Key == 127 {
			return false
		}
		var buffer string
		p.state.UpdateInteractionState(func(s *model.InteractionState) {
			s.SearchBuffer += string(event.Key)
			buffer = s.SearchBuffer
		})
		p.grid.SetSearchTerm(buffer)
	}

	return false
}

func (p *Player) startSearch() {
	term := p.grid.SearchTerm()
	p.state.UpdateInteractionState(func(s *model.InteractionState) {
		s.SearchActive = true
		s.SearchBuffer = term
		s.SearchPrior = term
	})
}

func (p *Player) togglePlay() {
	playing := p.clock.TogglePlay()
	p.lastAdvance = time.Now()
	p.state.UpdateInteractionState(func(s *model.InteractionState) {
		s.IsPlaying = playing
	})
}

func (p *Player) cycleLayout() {
	style := (p.state.GetInteractionState().LayoutStyle + 1) % 2
	p.state.UpdateInteractionState(func(s *model.InteractionState) {
		s.LayoutStyle = style
	})
	p.grid.SetRowHeight(layout.GetLayoutStrategy(style).RowHeight())
}

func (p *Player) confirmClearParseCache() {
	p.state.UpdateInteractionState(func(s *model.InteractionState) {
		s.ConfirmDialog = &model.ConfirmDialog{
			Title:   "Clear Parse Cache",
			Message: "This will delete every cached segment parse and re-read all files from disk. Continue?",
			OnConfirm: func() {
				if err := p.loader.ClearFileCache(); err != nil {
					util.LogError(fmt.Sprintf("Failed to clear parse cache: %v", err))
					p.state.UpdateInteractionState(func(s *model.InteractionState) {
						s.StatusMessage = "Failed to clear parse cache"
						s.ConfirmDialog = nil
					})
					return
				}
				util.LogInfo("Parse cache cleared")
				p.state.UpdateInteractionState(func(s *model.InteractionState) {
					s.StatusMessage = "Parse cache cleared"
					s.ForceReload = true
					s.ConfirmDialog = nil
				})
			},
			OnCancel: func() {
				p.state.UpdateInteractionState(func(s *model.InteractionState) {
					s.ConfirmDialog = nil
				})
			},
		}
	})
}

// applyViewPreferences restores the persisted view shape for this replay.
func (p *Player) applyViewPreferences() {
	prefs, ok := p.history.Get(p.loader.ReplayName())
	if !ok {
		return
	}

	p.grid.SetSort(grid.SortConfig{By: grid.ColumnKey(prefs.SortBy), Asc: prefs.SortAsc})
	if prefs.DetailSize > 0 {
		p.grid.SetDetailSize(prefs.DetailSize)
	}

	style := prefs.LayoutStyle
	if style != model.LayoutDetailed && style != model.LayoutCompact {
		style = model.LayoutDetailed
	}
	p.state.UpdateInteractionState(func(s *model.InteractionState) {
		s.LayoutStyle = style
	})
	p.grid.SetRowHeight(layout.GetLayoutStrategy(style).RowHeight())

	util.LogDebug(fmt.Sprintf("Restored view preferences for %s: sort=%s asc=%v layout=%d",
		p.loader.ReplayName(), prefs.SortBy, prefs.SortAsc, prefs.LayoutStyle))
}

func (p *Player) saveViewPreferences() {
	sort := p.grid.Sort()
	p.history.Put(p.loader.ReplayName(), ViewPreferences{
		SortBy:      string(sort.By),
		SortAsc:     sort.Asc,
		LayoutStyle: p.state.GetInteractionState().LayoutStyle,
		DetailSize:  p.grid.DetailSize(),
	})

	if err := p.history.Save(); err != nil {
		util.LogError(fmt.Sprintf("Failed to save view history: %v", err))
	}
}

func (p *Player) persistCache() {
	if err := p.loader.PersistDirtyEntries(); err != nil {
		util.LogError(fmt.Sprintf("Failed to persist cache: %v", err))
	}
	p.saveViewPreferences()
}

func (p *Player) startWatcher() error {
	watcher, err := monitoring.NewFileWatcher([]string{p.config.DataDir})
	if err != nil {
		return err
	}

	p.watcher = watcher
	return nil
}

// replayInfo converts the loaded replay into the chrome identification block.
func replayInfo(replay *model.Replay) layout.ReplayInfo {
	if replay == nil {
		return layout.ReplayInfo{}
	}
	return layout.ReplayInfo{
		Name:         replay.Name,
		StartMs:      replay.StartMs,
		EndMs:        replay.EndMs,
		FrameCount:   len(replay.Frames),
		SegmentCount: len(replay.Segments),
	}
}

// Close cleans up all resources used by the Player
func (p *Player) Close() error {
	// Save view preferences before closing
	p.saveViewPreferences()

	// Close file watcher if it exists
	if p.watcher != nil {
		if err := p.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
	}

	// Keyboard cleanup is handled by defer in Run()
	return nil
}
