package pagination

import "strconv"

// ControlKind identifies an element of the page-selector strip.
type ControlKind int

const (
	// ControlPrevious moves one page back.
	ControlPrevious ControlKind = iota
	// ControlPage jumps to a specific page.
	ControlPage
	// ControlEllipsis marks a gap between the first/last page and the window.
	ControlEllipsis
	// ControlNext moves one page forward.
	ControlNext
)

// Control is one element of the page-selector strip.
type Control struct {
	Kind ControlKind

	// Page is the page number the control navigates to (0 for ellipsis).
	Page int

	// Current marks the button for the page being shown.
	Current bool

	// Disabled marks Previous on the first page and Next on the last page.
	Disabled bool
}

// Label returns the text shown for the control.
func (c Control) Label() string {
	switch c.Kind {
	case ControlPrevious:
		return "Previous"
	case ControlNext:
		return "Next"
	case ControlEllipsis:
		return "..."
	case ControlPage:
		return strconv.Itoa(c.Page)
	default:
		return ""
	}
}

// VisibleWindow returns the inclusive range of page numbers shown as buttons.
//
// The window is centered on current, clamped to [1, total], then shifted back
// toward page 1 when it runs past total so that exactly min(windowSize, total)
// pages are shown. A non-positive windowSize falls back to DefaultWindowSize.
//
//nolint:nonamedreturns // Named returns document the (start, end) pair.
func VisibleWindow(current, total, windowSize int) (start, end int) {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if total < MinPage {
		total = MinPage
	}
	if current < MinPage {
		current = MinPage
	}
	if current > total {
		current = total
	}

	start = max(1, current-windowSize/2)
	end = min(total, start+windowSize-1)

	// Near the end the window comes up short; pull the start back.
	if end-start+1 < windowSize {
		start = max(1, end-windowSize+1)
	}

	return start, end
}

// Controls builds the page-selector strip for the given position.
//
// The strip is: Previous, [1, ...], window pages, [..., last], Next. The first
// and last page buttons appear whenever the window excludes them; the ellipsis
// appears only when at least one page is skipped between them and the window.
func Controls(current, total, windowSize int) []Control {
	start, end := VisibleWindow(current, total, windowSize)
	if total < MinPage {
		total = MinPage
	}
	if current < MinPage {
		current = MinPage
	}
	if current > total {
		current = total
	}

	controls := make([]Control, 0, end-start+6) //nolint:mnd // prev/next + two edge buttons + two ellipses.
	controls = append(controls, Control{Kind: ControlPrevious, Page: current - 1, Disabled: current <= 1})

	if start > 1 {
		controls = append(controls, Control{Kind: ControlPage, Page: 1})
		if start > 2 { //nolint:mnd // page 2 adjacent to page 1 needs no gap.
			controls = append(controls, Control{Kind: ControlEllipsis})
		}
	}

	for i := start; i <= end; i++ {
		controls = append(controls, Control{Kind: ControlPage, Page: i, Current: i == current})
	}

	if end < total {
		if end < total-1 {
			controls = append(controls, Control{Kind: ControlEllipsis})
		}
		controls = append(controls, Control{Kind: ControlPage, Page: total})
	}

	controls = append(controls, Control{Kind: ControlNext, Page: current + 1, Disabled: current >= total})
	return controls
}
