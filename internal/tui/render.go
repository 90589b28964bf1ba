package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/pagination"
)

// RowRenderer turns one item into the cells of a table row.
type RowRenderer[T any] func(item T) table.Row

// Layout describes how a page of T is presented.
type Layout[T any] struct {
	// Title is shown above the summary line.
	Title string

	// FilterLabel names the filter in the summary line, e.g. "Diet Type".
	FilterLabel string

	// FilterText formats the filter value for display. Nil shows it as-is.
	FilterText func(filter string) string

	// ItemNoun names the items in the summary line, e.g. "Recipes".
	ItemNoun string

	// Columns are the table headers and widths.
	Columns []table.Column

	// Row renders one item. Its cell count must match Columns.
	Row RowRenderer[T]

	// WindowSize is the number of page buttons in the control strip.
	WindowSize int

	// EmptyMessage replaces the table when a page has no items.
	EmptyMessage string
}

const defaultEmptyMessage = "No results to display."

func (l Layout[T]) emptyMessage() string {
	if l.EmptyMessage == "" {
		return defaultEmptyMessage
	}
	return l.EmptyMessage
}

func (l Layout[T]) filterText(filter string) string {
	if l.FilterText == nil {
		return filter
	}
	return l.FilterText(filter)
}

// rows renders every item of page.
func (l Layout[T]) rows(page pagination.Page[T]) []table.Row {
	rows := make([]table.Row, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, l.Row(item))
	}
	return rows
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatGrams renders a gram value with one decimal and thousands separators.
func FormatGrams(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.1fg", v)
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.1f%%", v)
}

// RenderSummary renders the metadata line above a page's table.
func RenderSummary[T any](layout Layout[T], page pagination.Page[T]) string {
	var parts []string
	if layout.FilterLabel != "" {
		parts = append(parts,
			LabelStyle.Render(layout.FilterLabel+": ")+ValueStyle.Render(layout.filterText(page.Filter)))
	}
	noun := layout.ItemNoun
	if noun == "" {
		noun = "Items"
	}
	parts = append(parts,
		LabelStyle.Render("Total "+noun+": ")+ValueStyle.Render(FormatCount(page.TotalItems)),
		ValueStyle.Render(page.Summary()),
	)
	return strings.Join(parts, SubtleStyle.Render(" | "))
}

// RenderControls renders the page-selector strip for the given position.
func RenderControls(current, total, windowSize int) string {
	controls := pagination.Controls(current, total, windowSize)
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		switch {
		case c.Current:
			parts = append(parts, CurrentControlStyle.Render(c.Label()))
		case c.Disabled, c.Kind == pagination.ControlEllipsis:
			parts = append(parts, DisabledControlStyle.Render(c.Label()))
		default:
			parts = append(parts, ControlStyle.Render(c.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// RenderError renders err as an inline error box naming its class.
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	title := CriticalStyle.Render(fmt.Sprintf("Error (%s)", api.Kind(err)))
	return ErrorBoxStyle.Render(title + "\n" + err.Error())
}

// RenderPage renders a page as static text: summary, table or empty
// state, and the page-control strip.
func RenderPage[T any](layout Layout[T], page pagination.Page[T]) string {
	var b strings.Builder
	if layout.Title != "" {
		b.WriteString(HeaderStyle.Render(layout.Title))
		b.WriteString("\n")
	}
	b.WriteString(RenderSummary(layout, page))
	b.WriteString("\n\n")

	if page.IsEmpty() {
		b.WriteString(InfoStyle.Render(layout.emptyMessage()))
	} else {
		b.WriteString(renderStaticTable(layout, page))
	}
	b.WriteString("\n\n")
	b.WriteString(RenderControls(page.CurrentPage, page.TotalPages, layout.WindowSize))
	b.WriteString("\n")
	return b.String()
}

func renderStaticTable[T any](layout Layout[T], page pagination.Page[T]) string {
	headers := make([]string, 0, len(layout.Columns))
	for _, c := range layout.Columns {
		headers = append(headers, c.Title)
	}
	rows := layout.rows(page)
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, r)
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.String()
}
