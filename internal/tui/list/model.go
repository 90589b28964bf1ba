package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultBufferSize is the number of extra rows rendered above/below the viewport.
const defaultBufferSize = 3

// halfViewportDivisor is used to center the cursor in the viewport.
const halfViewportDivisor = 2

// RenderFunc renders one item. cursor marks the row under the cursor and
// checked marks a row the user has ticked.
type RenderFunc[T any] func(item T, cursor, checked bool) string

// CheckList is a scrolling list whose rows can be ticked on and off.
// Only the rows around the viewport are rendered.
type CheckList[T any] struct {
	items      []T
	checked    map[int]bool
	renderFunc RenderFunc[T]

	cursor      int
	visibleFrom int
	visibleTo   int
	height      int
	width       int
	bufferSize  int
}

// NewCheckList creates a list with nothing ticked.
func NewCheckList[T any](items []T, height, width int, renderFunc RenderFunc[T]) *CheckList[T] {
	m := &CheckList[T]{
		items:      items,
		checked:    make(map[int]bool),
		renderFunc: renderFunc,
		height:     height,
		width:      width,
		bufferSize: defaultBufferSize,
	}
	m.updateVisibleRange()
	return m
}

// Init implements tea.Model.
func (m *CheckList[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation, ticking and resize messages.
func (m *CheckList[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.width = msg.Width
		m.updateVisibleRange()
	}
	return m, nil
}

//nolint:exhaustive // Only navigation and toggle keys are handled.
func (m *CheckList[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch msg.Type {
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyPgUp:
		m.move(-m.height)
	case tea.KeyPgDown:
		m.move(m.height)
	case tea.KeyHome:
		m.SetCursor(0)
	case tea.KeyEnd:
		m.SetCursor(len(m.items) - 1)
	case tea.KeySpace:
		m.Toggle(m.cursor)
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return
		}
		switch msg.Runes[0] {
		case 'j':
			m.move(1)
		case 'k':
			m.move(-1)
		case ' ', 'x':
			m.Toggle(m.cursor)
		case 'a':
			m.ToggleAll()
		}
	default:
	}
}

func (m *CheckList[T]) move(delta int) {
	m.SetCursor(m.cursor + delta)
}

// Toggle flips the tick on item i.
func (m *CheckList[T]) Toggle(i int) {
	if i < 0 || i >= len(m.items) {
		return
	}
	if m.checked[i] {
		delete(m.checked, i)
		return
	}
	m.checked[i] = true
}

// ToggleAll ticks every item, or clears all ticks when everything is ticked.
func (m *CheckList[T]) ToggleAll() {
	if len(m.checked) == len(m.items) {
		m.checked = make(map[int]bool)
		return
	}
	for i := range m.items {
		m.checked[i] = true
	}
}

// IsChecked reports whether item i is ticked.
func (m *CheckList[T]) IsChecked(i int) bool {
	return m.checked[i]
}

// CheckedCount returns how many items are ticked.
func (m *CheckList[T]) CheckedCount() int {
	return len(m.checked)
}

// CheckedItems returns the ticked items in list order.
func (m *CheckList[T]) CheckedItems() []T {
	out := make([]T, 0, len(m.checked))
	for i, item := range m.items {
		if m.checked[i] {
			out = append(out, item)
		}
	}
	return out
}

// updateVisibleRange keeps the cursor inside [visibleFrom, visibleTo).
func (m *CheckList[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom = 0
		m.visibleTo = 0
		return
	}

	half := m.height / halfViewportDivisor
	from := m.cursor - half
	to := m.cursor + half

	if from < 0 {
		from = 0
		to = m.height
	}
	if to > len(m.items) {
		to = len(m.items)
		from = max(0, to-m.height)
	}

	m.visibleFrom = from
	m.visibleTo = to
}

// View renders the rows around the viewport.
func (m *CheckList[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	from := max(0, m.visibleFrom-m.bufferSize)
	to := min(len(m.items), m.visibleTo+m.bufferSize)

	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		lines = append(lines, m.renderFunc(m.items[i], i == m.cursor, m.checked[i]))
	}
	return strings.Join(lines, "\n")
}

// ItemCount returns the number of items.
func (m *CheckList[T]) ItemCount() int {
	return len(m.items)
}

// Cursor returns the index under the cursor.
func (m *CheckList[T]) Cursor() int {
	return m.cursor
}

// SetCursor moves the cursor, clamped to the list bounds.
func (m *CheckList[T]) SetCursor(index int) {
	if len(m.items) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(index, 0), len(m.items)-1)
	m.updateVisibleRange()
}

// CursorItem returns the item under the cursor.
func (m *CheckList[T]) CursorItem() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}

// VisibleRange returns the viewport bounds, excluding the render buffer.
func (m *CheckList[T]) VisibleRange() (int, int) {
	return m.visibleFrom, m.visibleTo
}
