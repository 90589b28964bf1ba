package tui

// ViewState is the lifecycle state of an interactive view.
type ViewState int

const (
	// ViewStateIdle is a view that has not requested anything yet.
	ViewStateIdle ViewState = iota
	// ViewStateLoading is a view waiting for its latest request.
	ViewStateLoading
	// ViewStateRendered is a view showing a loaded page.
	ViewStateRendered
	// ViewStateError is a view showing an inline error.
	ViewStateError
	// ViewStateQuitting is a view that is shutting down.
	ViewStateQuitting
)

// String returns the state name used in debug logs.
func (s ViewState) String() string {
	switch s {
	case ViewStateIdle:
		return "idle"
	case ViewStateLoading:
		return "loading"
	case ViewStateRendered:
		return "rendered"
	case ViewStateError:
		return "error"
	case ViewStateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}

// Key bindings shared by the interactive views.
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keyEsc      = "esc"
	keySlash    = "/"
	keyColon    = ":"
	keyLeft     = "left"
	keyRight    = "right"
	keyH        = "h"
	keyL        = "l"
	keyBracketL = "["
	keyBracketR = "]"
	keyHome     = "home"
	keyEnd      = "end"
	keyG        = "g"
	keyShiftG   = "G"
	keyReload   = "r"
	keyYes      = "y"
)

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30

	// chromeHeight is the rows reserved for the title, summary, controls and help.
	chromeHeight = 9
	minTableRows = 3
)
