package grid

// Splitter manages the resizable split between the grid body and the detail
// pane. The pane size persists across selection changes and survives
// close/reopen within a session; it is clamped so the grid always keeps at
// least the handle line.
type Splitter struct {
	open  bool
	index int
	size  int

	containerHeight int
	handleAllowance int
}

// DefaultDetailSize is the pane height used before the user resizes it.
const DefaultDetailSize = 12

func NewSplitter() *Splitter {
	return &Splitter{size: DefaultDetailSize, handleAllowance: 1}
}

// SetContainerHeight installs the available height and re-clamps the pane.
func (s *Splitter) SetContainerHeight(height int) {
	s.containerHeight = height
	s.size = s.clamp(s.size)
}

// IsOpen reports whether a detail pane is showing.
func (s *Splitter) IsOpen() bool { return s.open }

// Index returns the selected display row. Only meaningful while open.
func (s *Splitter) Index() int { return s.index }

// Size returns the detail pane height in lines.
func (s *Splitter) Size() int { return s.size }

// Select handles a row activation. Selecting the open row closes the pane;
// selecting a different row moves the pane to it, retaining its size, with
// no intermediate closed state. Returns whether the pane is open afterward.
func (s *Splitter) Select(index int) bool {
	if s.open && s.index == index {
		s.open = false
		return false
	}
	s.open = true
	s.index = index
	return true
}

// Close shuts the pane. The size is remembered for the next open.
func (s *Splitter) Close() {
	s.open = false
}

// Resize grows or shrinks the pane by delta lines, clamped to the container.
func (s *Splitter) Resize(delta int) {
	s.size = s.clamp(s.size + delta)
}

// Reselect force-points the open pane at a new index without toggling.
func (s *Splitter) Reselect(index int) {
	if s.open {
		s.index = index
	}
}

// SetSize installs a persisted pane height.
func (s *Splitter) SetSize(size int) {
	s.size = s.clamp(size)
}

func (s *Splitter) clamp(size int) int {
	if size < 0 {
		return 0
	}
	if s.containerHeight > 0 {
		if max := s.containerHeight - s.handleAllowance; size > max {
			return max
		}
	}
	return size
}
