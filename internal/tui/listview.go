package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/nutriboard/internal/logging"
	"github.com/rshade/nutriboard/internal/pagination"
)

// Loader fetches one page for a request. It is called once per page selection.
type Loader[T any] func(ctx context.Context, req pagination.PageRequest) (pagination.Page[T], error)

// FilterValidator normalizes a filter typed into the filter prompt.
type FilterValidator func(filter string) (string, error)

// ListOptions configures a PaginatedListView.
type ListOptions[T any] struct {
	Layout Layout[T]
	Loader Loader[T]

	// Filter is the initial filter value.
	Filter string

	// PageSize is sent with every request. Zero uses the default page size.
	PageSize int

	// StartPage is the page Init requests. Zero means the first page.
	StartPage int

	// ValidateFilter checks filter prompt input. Nil accepts anything.
	ValidateFilter FilterValidator
}

// pageLoadedMsg carries a loader result back to the view that asked for it.
type pageLoadedMsg[T any] struct {
	viewID     uint64
	generation uint64
	request    pagination.PageRequest
	page       pagination.Page[T]
	err        error
}

type promptKind int

const (
	promptNone promptKind = iota
	promptGoto
	promptFilter
)

//nolint:gochecknoglobals // view IDs must be unique per process.
var viewSeq atomic.Uint64

var errNoLoader = errors.New("no loader configured")

// PaginatedListView shows one page of T at a time with page controls.
//
// Every page selection bumps a generation counter; a loader result is only
// applied when its generation is the latest, so the newest request wins no
// matter in which order responses arrive.
type PaginatedListView[T any] struct {
	id     uint64
	ctx    context.Context
	layout Layout[T]
	loader Loader[T]

	validateFilter FilterValidator

	startPage  int
	state      ViewState
	filter     string
	pageSize   int
	generation uint64
	pending    pagination.PageRequest
	cancel     context.CancelFunc

	page    pagination.Page[T]
	hasPage bool
	table   table.Model
	err     error
	notice  string

	prompt promptKind
	input  textinput.Model

	loading *LoadingState
	// spinning is set while a spinner tick is in flight.
	spinning bool
	width    int
	height   int
}

// NewPaginatedListView creates an idle list view. Init requests the first page.
func NewPaginatedListView[T any](ctx context.Context, opts ListOptions[T]) *PaginatedListView[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	if opts.Layout.WindowSize <= 0 {
		opts.Layout.WindowSize = pagination.DefaultWindowSize
	}

	return &PaginatedListView[T]{
		id:             viewSeq.Add(1),
		ctx:            ctx,
		layout:         opts.Layout,
		loader:         opts.Loader,
		validateFilter: opts.ValidateFilter,
		startPage:      max(opts.StartPage, pagination.DefaultPage),
		state:          ViewStateIdle,
		filter:         opts.Filter,
		pageSize:       pageSize,
		input:          newTextInput(),
		loading:        NewLoadingState(),
		width:          defaultWidth,
		height:         defaultHeight,
	}
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 50
	ti.Width = 30
	return ti
}

func (m *PaginatedListView[T]) logger() zerolog.Logger {
	return logging.ComponentLogger(*logging.FromContext(m.ctx), "listview")
}

// Init starts the spinner and requests the start page.
func (m *PaginatedListView[T]) Init() tea.Cmd {
	m.spinning = true
	return tea.Batch(m.loading.Init(), m.SelectPage(m.startPage))
}

// State returns the current view state.
func (m *PaginatedListView[T]) State() ViewState {
	return m.state
}

// Filter returns the filter sent with every request.
func (m *PaginatedListView[T]) Filter() string {
	return m.filter
}

// Generation returns the token of the latest request.
func (m *PaginatedListView[T]) Generation() uint64 {
	return m.generation
}

// Page returns the page being shown, if any.
func (m *PaginatedListView[T]) Page() (pagination.Page[T], bool) {
	return m.page, m.hasPage
}

// Err returns the error being shown in the error state.
func (m *PaginatedListView[T]) Err() error {
	return m.err
}

// Notice returns the last input-validation message, if any.
func (m *PaginatedListView[T]) Notice() string {
	return m.notice
}

// SelectedItem returns the item under the table cursor.
func (m *PaginatedListView[T]) SelectedItem() (T, bool) {
	var zero T
	if !m.hasPage || m.state != ViewStateRendered {
		return zero, false
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.page.Items) {
		return zero, false
	}
	return m.page.Items[idx], true
}

// SetFilter replaces the filter and requests its first page.
func (m *PaginatedListView[T]) SetFilter(filter string) tea.Cmd {
	m.filter = filter
	m.hasPage = false
	return m.SelectPage(pagination.DefaultPage)
}

// SelectPage requests page n with the current filter. The returned command
// calls the loader exactly once; its result arrives as a message for Update.
// An out-of-range page sets a notice and returns nil.
func (m *PaginatedListView[T]) SelectPage(n int) tea.Cmd {
	req := pagination.PageRequest{Filter: m.filter, Page: n, PageSize: m.pageSize}
	if err := req.Validate(); err != nil {
		m.notice = err.Error()
		return nil
	}
	if m.hasPage && n > m.page.TotalPages {
		m.notice = fmt.Sprintf("page %d is out of range (1-%d)", n, m.page.TotalPages)
		return nil
	}

	// A newer request supersedes the one in flight.
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	m.generation++
	m.pending = req
	m.state = ViewStateLoading
	m.err = nil
	m.notice = ""
	m.loading.SetMessage(fmt.Sprintf("Loading page %d...", n))

	log := m.logger()
	log.Debug().
		Uint64("generation", m.generation).
		Int("page", n).
		Str("filter", m.filter).
		Msg("page requested")

	return loadCmd(ctx, m.loader, m.id, m.generation, req)
}

func loadCmd[T any](
	ctx context.Context,
	loader Loader[T],
	viewID, generation uint64,
	req pagination.PageRequest,
) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = pageLoadedMsg[T]{
					viewID:     viewID,
					generation: generation,
					request:    req,
					err:        fmt.Errorf("loader panicked: %v", r),
				}
			}
		}()
		if loader == nil {
			return pageLoadedMsg[T]{
				viewID: viewID, generation: generation, request: req,
				err: errNoLoader,
			}
		}
		page, err := loader(ctx, req)
		return pageLoadedMsg[T]{viewID: viewID, generation: generation, request: req, page: page, err: err}
	}
}

// Render replaces the view's content with page.
func (m *PaginatedListView[T]) Render(page pagination.Page[T]) {
	if err := page.Validate(); err != nil {
		log := m.logger()
		log.Debug().Err(err).Msg("rendering page with inconsistent metadata")
	}
	m.page = page
	m.hasPage = true
	m.state = ViewStateRendered
	m.err = nil
	m.table = m.buildTable()
}

// buildTable creates a fresh table for the current page.
func (m *PaginatedListView[T]) buildTable() table.Model {
	rows := m.layout.rows(m.page)
	t := table.New(
		table.WithColumns(m.layout.Columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight(len(rows))),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}

func (m *PaginatedListView[T]) tableHeight(rows int) int {
	avail := m.height - chromeHeight
	if avail < minTableRows {
		avail = minTableRows
	}
	if rows < avail {
		return max(rows, 1)
	}
	return avail
}

// Update handles loader results, keys, resizes and spinner ticks.
func (m *PaginatedListView[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg[T]:
		m.handlePageLoaded(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.hasPage {
			m.table = m.buildTable()
		}
		return m, nil
	case spinner.TickMsg:
		if m.state != ViewStateLoading {
			m.spinning = false
			return m, nil
		}
		return m, m.loading.Update(msg)
	case tea.KeyMsg:
		model, cmd := m.handleKey(msg)
		return model, m.withSpinner(cmd)
	}
	return m, nil
}

// withSpinner restarts the spinner alongside cmd when a load began and no tick is running.
func (m *PaginatedListView[T]) withSpinner(cmd tea.Cmd) tea.Cmd {
	if cmd == nil || m.state != ViewStateLoading || m.spinning {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.loading.Init())
}

func (m *PaginatedListView[T]) handlePageLoaded(msg pageLoadedMsg[T]) {
	log := m.logger()
	if msg.viewID != m.id || msg.generation != m.generation {
		log.Debug().
			Uint64("generation", msg.generation).
			Uint64("latest", m.generation).
			Int("page", msg.request.Page).
			Msg("dropping stale page response")
		return
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.err != nil {
		log.Warn().Err(msg.err).Int("page", msg.request.Page).Msg("page load failed")
		m.state = ViewStateError
		m.err = msg.err
		return
	}

	log.Debug().
		Int("page", msg.page.CurrentPage).
		Int("items", len(msg.page.Items)).
		Msg("page loaded")
	m.Render(msg.page)
}

func (m *PaginatedListView[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case keyLeft, keyH, keyBracketL:
		if prev := m.page.PreviousPage(); m.hasPage && prev > 0 {
			return m, m.SelectPage(prev)
		}
	case keyRight, keyL, keyBracketR:
		if next := m.page.NextPage(); m.hasPage && next > 0 {
			return m, m.SelectPage(next)
		}
	case keyHome, keyG:
		if m.hasPage && m.page.CurrentPage != pagination.MinPage {
			return m, m.SelectPage(pagination.MinPage)
		}
	case keyEnd, keyShiftG:
		if m.hasPage && m.page.CurrentPage != m.page.TotalPages {
			return m, m.SelectPage(m.page.TotalPages)
		}
	case keyReload:
		return m, m.SelectPage(m.reloadPage())
	case keyColon:
		return m, m.openPrompt(promptGoto, "Go to page: ")
	case keySlash:
		return m, m.openPrompt(promptFilter, m.filterPromptLabel())
	default:
		if m.state == ViewStateRendered {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *PaginatedListView[T]) reloadPage() int {
	switch {
	case m.hasPage:
		return m.page.CurrentPage
	case m.pending.Page >= pagination.MinPage:
		return m.pending.Page
	default:
		return pagination.DefaultPage
	}
}

func (m *PaginatedListView[T]) filterPromptLabel() string {
	if m.layout.FilterLabel == "" {
		return "Filter: "
	}
	return m.layout.FilterLabel + ": "
}

func (m *PaginatedListView[T]) openPrompt(kind promptKind, label string) tea.Cmd {
	m.prompt = kind
	m.notice = ""
	m.input.Reset()
	m.input.Prompt = label
	m.input.Placeholder = ""
	if kind == promptFilter {
		m.input.Placeholder = m.filter
	}
	return m.input.Focus()
}

func (m *PaginatedListView[T]) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
}

func (m *PaginatedListView[T]) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.closePrompt()
		return m, nil
	case keyCtrlC:
		m.closePrompt()
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		kind := m.prompt
		value := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		return m, m.submitPrompt(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PaginatedListView[T]) submitPrompt(kind promptKind, value string) tea.Cmd {
	switch kind {
	case promptGoto:
		n, err := strconv.Atoi(value)
		if err != nil {
			m.notice = fmt.Sprintf("invalid page number %q", value)
			return nil
		}
		return m.SelectPage(n)
	case promptFilter:
		filter := value
		if m.validateFilter != nil {
			normalized, err := m.validateFilter(value)
			if err != nil {
				m.notice = err.Error()
				return nil
			}
			filter = normalized
		}
		return m.SetFilter(filter)
	case promptNone:
	}
	return nil
}

// View renders the current state.
func (m *PaginatedListView[T]) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	sections := make([]string, 0, 6) //nolint:mnd // title, body, controls, prompt, notice, help.
	if m.layout.Title != "" {
		sections = append(sections, HeaderStyle.Render(m.layout.Title))
	}

	switch m.state {
	case ViewStateIdle:
		sections = append(sections, InfoStyle.Render("Press r to load."))
	case ViewStateLoading:
		sections = append(sections, RenderLoading(m.loading))
	case ViewStateError:
		sections = append(sections, RenderError(m.err), SubtleStyle.Render("Press r to retry."))
	case ViewStateRendered:
		sections = append(sections, RenderSummary(m.layout, m.page), "")
		if m.page.IsEmpty() {
			sections = append(sections, InfoStyle.Render(m.layout.emptyMessage()))
		} else {
			sections = append(sections, m.table.View())
		}
		sections = append(sections, "",
			RenderControls(m.page.CurrentPage, m.page.TotalPages, m.layout.WindowSize))
	case ViewStateQuitting:
	}

	if m.prompt != promptNone {
		sections = append(sections, m.input.View())
	}
	if m.notice != "" {
		sections = append(sections, WarningStyle.Render(m.notice))
	}
	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *PaginatedListView[T]) renderHelp() string {
	if m.prompt != promptNone {
		return SubtleStyle.Render("enter: apply | esc: cancel")
	}
	help := []string{
		"←/→: page",
		"g/G: first/last",
		":: go to page",
		"/: " + strings.ToLower(strings.TrimSuffix(m.filterPromptLabel(), ": ")),
		"r: reload",
		"↑/↓: navigate",
		"q: quit",
	}
	return SubtleStyle.Render(strings.Join(help, " | "))
}
