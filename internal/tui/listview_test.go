package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/pagination"
)

// fakeLoader records every request and answers from a fixed dataset.
type fakeLoader struct {
	mu       sync.Mutex
	requests []pagination.PageRequest
	total    int
	err      error
}

func (f *fakeLoader) load(_ context.Context, req pagination.PageRequest) (pagination.Page[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return pagination.Page[string]{}, f.err
	}
	items := []string{
		fmt.Sprintf("%s-%d-a", req.Filter, req.Page),
		fmt.Sprintf("%s-%d-b", req.Filter, req.Page),
	}
	return pagination.NewPage(items, req.Page, f.total).WithFilter(req.Filter), nil
}

func (f *fakeLoader) calls() []pagination.PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pagination.PageRequest(nil), f.requests...)
}

func stringLayout() Layout[string] {
	return Layout[string]{
		Title:        "ITEMS",
		FilterLabel:  "Diet Type",
		ItemNoun:     "Items",
		Columns:      []table.Column{{Title: "Name", Width: 20}},
		Row:          func(s string) table.Row { return table.Row{s} },
		EmptyMessage: "Nothing here.",
	}
}

func newTestView(loader Loader[string]) *PaginatedListView[string] {
	return NewPaginatedListView(context.Background(), ListOptions[string]{
		Layout:         stringLayout(),
		Loader:         loader,
		Filter:         "all",
		PageSize:       2,
		ValidateFilter: api.NormalizeDiet,
	})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and feeds its message back into the view. Spinner ticks
// batched with a load are dropped.
func deliver(t *testing.T, v *PaginatedListView[string], cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if sub := c(); !isTick(sub) {
				_, next := v.Update(sub)
				assert.Nil(t, next)
			}
		}
		return
	}
	_, next := v.Update(msg)
	assert.Nil(t, next)
}

func isTick(msg tea.Msg) bool {
	_, ok := msg.(spinner.TickMsg)
	return ok
}

func TestPaginatedListView_StartsIdle(t *testing.T) {
	v := newTestView((&fakeLoader{total: 1}).load)

	assert.Equal(t, ViewStateIdle, v.State())
	assert.Equal(t, uint64(0), v.Generation())
	_, ok := v.Page()
	assert.False(t, ok)
	assert.Contains(t, v.View(), "Press r to load.")
}

func TestPaginatedListView_SelectPageCallsLoaderOnce(t *testing.T) {
	fl := &fakeLoader{total: 3}
	v := newTestView(fl.load)

	cmd := v.SelectPage(2)
	assert.Equal(t, ViewStateLoading, v.State())
	assert.Empty(t, fl.calls(), "loader runs inside the command")

	deliver(t, v, cmd)

	calls := fl.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, pagination.PageRequest{Filter: "all", Page: 2, PageSize: 2}, calls[0])

	assert.Equal(t, ViewStateRendered, v.State())
	page, ok := v.Page()
	require.True(t, ok)
	assert.Equal(t, 2, page.CurrentPage)
	assert.True(t, page.HasPrevious)
	assert.True(t, page.HasNext)
	assert.Contains(t, v.View(), "all-2-a")
	assert.Contains(t, v.View(), "Page 2 of 3")
}

func TestPaginatedListView_LoaderErrorRendersInline(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"network", fmt.Errorf("%w: connection refused", api.ErrNetwork), "Error (network)"},
		{"decode", fmt.Errorf("%w: unexpected token", api.ErrDecode), "Error (decode)"},
		{"api", &api.APIError{Status: 500, Message: "boom"}, "Error (api)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView((&fakeLoader{err: tt.err}).load)
			deliver(t, v, v.SelectPage(1))

			assert.Equal(t, ViewStateError, v.State())
			require.ErrorIs(t, v.Err(), tt.err)
			view := v.View()
			assert.Contains(t, view, tt.want)
			assert.Contains(t, view, "Press r to retry.")
		})
	}
}

func TestPaginatedListView_LoaderPanicBecomesError(t *testing.T) {
	v := newTestView(func(context.Context, pagination.PageRequest) (pagination.Page[string], error) {
		panic("kaboom")
	})
	deliver(t, v, v.SelectPage(1))

	assert.Equal(t, ViewStateError, v.State())
	assert.ErrorContains(t, v.Err(), "kaboom")
}

func TestPaginatedListView_StaleResponseDropped(t *testing.T) {
	t.Run("older response arrives last", func(t *testing.T) {
		v := newTestView((&fakeLoader{total: 5}).load)
		first := v.SelectPage(2)
		second := v.SelectPage(3)

		older := first()
		newer := second()

		v.Update(newer)
		v.Update(older)

		page, ok := v.Page()
		require.True(t, ok)
		assert.Equal(t, 3, page.CurrentPage)
		assert.Equal(t, ViewStateRendered, v.State())
	})

	t.Run("older response arrives first", func(t *testing.T) {
		v := newTestView((&fakeLoader{total: 5}).load)
		first := v.SelectPage(2)
		second := v.SelectPage(3)

		v.Update(first())
		assert.Equal(t, ViewStateLoading, v.State(), "stale page must not render")
		_, ok := v.Page()
		assert.False(t, ok)

		v.Update(second())
		page, _ := v.Page()
		assert.Equal(t, 3, page.CurrentPage)
	})

	t.Run("stale error is ignored", func(t *testing.T) {
		calls := 0
		v := newTestView(func(_ context.Context, req pagination.PageRequest) (pagination.Page[string], error) {
			calls++
			if calls == 1 {
				return pagination.Page[string]{}, api.ErrNetwork
			}
			return pagination.NewPage([]string{"ok"}, req.Page, 2), nil
		})
		first := v.SelectPage(1)
		second := v.SelectPage(2)
		staleMsg := first()
		v.Update(second())
		v.Update(staleMsg)

		assert.Equal(t, ViewStateRendered, v.State())
		assert.NoError(t, v.Err())
	})
}

func TestPaginatedListView_ResponseForOtherViewIgnored(t *testing.T) {
	fl := &fakeLoader{total: 2}
	a := newTestView(fl.load)
	b := newTestView(fl.load)

	cmdA := a.SelectPage(1)
	b.SelectPage(1)

	b.Update(cmdA())
	assert.Equal(t, ViewStateLoading, b.State())
}

func TestPaginatedListView_EmptyPageShowsNoTable(t *testing.T) {
	v := newTestView(func(_ context.Context, req pagination.PageRequest) (pagination.Page[string], error) {
		return pagination.NewPage[string](nil, req.Page, 0), nil
	})
	deliver(t, v, v.SelectPage(1))

	view := v.View()
	assert.Equal(t, ViewStateRendered, v.State())
	assert.Contains(t, view, "Nothing here.")
	assert.NotContains(t, view, "Name")
	assert.Contains(t, view, "Page 1 of 1")
}

func TestPaginatedListView_RenderRecreatesTable(t *testing.T) {
	v := newTestView(nil)

	v.Render(pagination.NewPage([]string{"a", "b", "c"}, 1, 2))
	assert.Len(t, v.table.Rows(), 3)

	v.Render(pagination.NewPage([]string{"z"}, 2, 2))
	assert.Len(t, v.table.Rows(), 1)
	assert.Contains(t, v.View(), "z")
}

func TestPaginatedListView_NavigationKeys(t *testing.T) {
	fl := &fakeLoader{total: 3}
	v := newTestView(fl.load)
	deliver(t, v, v.SelectPage(1))

	// Previous is disabled on the first page.
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRight})
	deliver(t, v, cmd)
	page, _ := v.Page()
	assert.Equal(t, 2, page.CurrentPage)

	_, cmd = v.Update(runes("G"))
	deliver(t, v, cmd)
	page, _ = v.Page()
	assert.Equal(t, 3, page.CurrentPage)

	// Next is disabled on the last page.
	_, cmd = v.Update(runes("l"))
	assert.Nil(t, cmd)

	_, cmd = v.Update(runes("["))
	deliver(t, v, cmd)
	page, _ = v.Page()
	assert.Equal(t, 2, page.CurrentPage)

	_, cmd = v.Update(runes("g"))
	deliver(t, v, cmd)
	page, _ = v.Page()
	assert.Equal(t, 1, page.CurrentPage)

	_, cmd = v.Update(runes("r"))
	deliver(t, v, cmd)

	pages := make([]int, 0, len(fl.calls()))
	for _, r := range fl.calls() {
		pages = append(pages, r.Page)
	}
	assert.Equal(t, []int{1, 2, 3, 2, 1, 1}, pages)
}

func TestPaginatedListView_RowCursor(t *testing.T) {
	v := newTestView((&fakeLoader{total: 1}).load)
	deliver(t, v, v.SelectPage(1))

	item, ok := v.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "all-1-a", item)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	item, _ = v.SelectedItem()
	assert.Equal(t, "all-1-b", item)
}

func TestPaginatedListView_GotoPrompt(t *testing.T) {
	fl := &fakeLoader{total: 4}
	v := newTestView(fl.load)
	deliver(t, v, v.SelectPage(1))

	v.Update(runes(":"))
	assert.Equal(t, promptGoto, v.prompt)
	assert.Contains(t, v.View(), "Go to page:")

	v.Update(runes("4"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	deliver(t, v, cmd)

	page, _ := v.Page()
	assert.Equal(t, 4, page.CurrentPage)
	assert.Equal(t, promptNone, v.prompt)

	t.Run("out of range", func(t *testing.T) {
		v.Update(runes(":"))
		v.Update(runes("9"))
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
		assert.Contains(t, v.Notice(), "out of range (1-4)")
		assert.Equal(t, ViewStateRendered, v.State())
	})

	t.Run("not a number", func(t *testing.T) {
		v.Update(runes(":"))
		v.Update(runes("x"))
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
		assert.Contains(t, v.Notice(), "invalid page number")
	})

	t.Run("zero", func(t *testing.T) {
		cmd := v.SelectPage(0)
		assert.Nil(t, cmd)
		assert.Contains(t, v.Notice(), "page must be >= 1")
	})

	t.Run("esc cancels", func(t *testing.T) {
		before := v.Generation()
		v.Update(runes(":"))
		v.Update(runes("2"))
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEscape})
		assert.Nil(t, cmd)
		assert.Equal(t, before, v.Generation())
	})
}

func TestPaginatedListView_FilterPrompt(t *testing.T) {
	fl := &fakeLoader{total: 3}
	v := newTestView(fl.load)
	deliver(t, v, v.SelectPage(2))

	v.Update(runes("/"))
	assert.Equal(t, promptFilter, v.prompt)
	v.Update(runes("Keto"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	deliver(t, v, cmd)

	assert.Equal(t, "keto", v.Filter())
	last := fl.calls()[len(fl.calls())-1]
	assert.Equal(t, "keto", last.Filter)
	assert.Equal(t, 1, last.Page, "a new filter starts on page 1")

	t.Run("invalid diet keeps filter", func(t *testing.T) {
		v.Update(runes("/"))
		v.Update(runes("carnivore"))
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
		assert.Equal(t, "keto", v.Filter())
		assert.Contains(t, v.Notice(), "invalid diet type")
	})
}

func TestPaginatedListView_SetFilter(t *testing.T) {
	fl := &fakeLoader{total: 2}
	v := newTestView(fl.load)

	deliver(t, v, v.SetFilter("vegan"))

	assert.Equal(t, "vegan", v.Filter())
	page, _ := v.Page()
	assert.Equal(t, "vegan", page.Filter)
	assert.Contains(t, v.View(), "vegan-1-a")
}

func TestPaginatedListView_Quit(t *testing.T) {
	v := newTestView((&fakeLoader{total: 1}).load)
	deliver(t, v, v.SelectPage(1))

	_, cmd := v.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ViewStateQuitting, v.State())
	assert.Empty(t, v.View())
}

func TestPaginatedListView_InitRequestsFirstPage(t *testing.T) {
	fl := &fakeLoader{total: 1}
	v := newTestView(fl.load)

	cmd := v.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateLoading, v.State())
	assert.Equal(t, uint64(1), v.Generation())
	assert.Contains(t, v.View(), "Loading page 1...")
}

func TestPaginatedListView_SpinnerStopsOnceRendered(t *testing.T) {
	v := newTestView((&fakeLoader{total: 3}).load)
	require.NotNil(t, v.Init())
	assert.True(t, v.spinning)

	_, cmd := v.Update(spinner.TickMsg{})
	assert.NotNil(t, cmd, "ticks continue while loading")

	deliver(t, v, v.SelectPage(1))
	require.Equal(t, ViewStateRendered, v.State())

	_, cmd = v.Update(spinner.TickMsg{})
	assert.Nil(t, cmd, "no tick after the page rendered")
	assert.False(t, v.spinning)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "a new load restarts the spinner")
	assert.Len(t, batch, 2)
	assert.True(t, v.spinning)
}

func TestPaginatedListView_WindowResize(t *testing.T) {
	v := newTestView((&fakeLoader{total: 1}).load)
	deliver(t, v, v.SelectPage(1))

	v.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	assert.Equal(t, 80, v.width)
	assert.Len(t, v.table.Rows(), 2)
}

func TestPaginatedListView_HelpLine(t *testing.T) {
	v := newTestView((&fakeLoader{total: 1}).load)
	deliver(t, v, v.SelectPage(1))

	help := v.View()
	for _, want := range []string{"←/→: page", ":: go to page", "/: diet type", "q: quit"} {
		assert.True(t, strings.Contains(help, want), "help should mention %q", want)
	}
}
