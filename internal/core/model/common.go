package model

// Recording event types (rrweb numbering)
const (
	EventDOMContentLoaded    = 0
	EventLoad                = 1
	EventFullSnapshot        = 2
	EventIncrementalSnapshot = 3
	EventMeta                = 4
	EventCustom              = 5
)

// Custom event tags
const (
	TagPerformanceSpan = "performanceSpan"
	TagBreadcrumb      = "breadcrumb"
	TagOptions         = "options"
)

// Span op families shown in the grid
const (
	OpPrefixResource   = "resource."
	OpPrefixNavigation = "navigation."
)

// Layout styles
const (
	LayoutDetailed = 0
	LayoutCompact  = 1
)

// DisplayMode identifies which full-screen surface owns the terminal.
type DisplayMode int

const (
	ModeNormal DisplayMode = iota
	ModeLoading
	ModeHelp
	ModeDialog
)
