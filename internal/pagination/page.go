package pagination

import (
	"errors"
	"fmt"
)

// ErrPageInvariant is returned when a page's navigation flags disagree with its numbers.
var ErrPageInvariant = errors.New("page metadata is inconsistent")

// Page is one fetched batch of results plus navigation metadata.
type Page[T any] struct {
	Items       []T    `json:"items"        yaml:"items"`
	CurrentPage int    `json:"current_page" yaml:"current_page"`
	TotalPages  int    `json:"total_pages"  yaml:"total_pages"`
	HasPrevious bool   `json:"has_previous" yaml:"has_previous"`
	HasNext     bool   `json:"has_next"     yaml:"has_next"`
	TotalItems  int    `json:"total_items"  yaml:"total_items"`
	PageSize    int    `json:"page_size"    yaml:"page_size"`
	Filter      string `json:"filter"       yaml:"filter"`
}

// NewPage builds a page and derives HasPrevious/HasNext from the page numbers.
//
// The backend reports total_pages=0 for an empty result; that is normalized to
// a single empty page so that CurrentPage and TotalPages stay positive. The
// current page is clamped into [1, TotalPages].
func NewPage[T any](items []T, currentPage, totalPages int) Page[T] {
	if totalPages < MinPage {
		totalPages = MinPage
	}
	if currentPage < MinPage {
		currentPage = MinPage
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}
	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Items:       items,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
		TotalItems:  len(items),
		PageSize:    len(items),
	}
}

// WithTotals returns a copy of p carrying the backend-reported totals.
func (p Page[T]) WithTotals(totalItems, pageSize int) Page[T] {
	p.TotalItems = totalItems
	p.PageSize = pageSize
	return p
}

// WithFilter returns a copy of p tagged with the filter that produced it.
func (p Page[T]) WithFilter(filter string) Page[T] {
	p.Filter = filter
	return p
}

// IsEmpty reports whether the page has no items.
func (p Page[T]) IsEmpty() bool {
	return len(p.Items) == 0
}

// Validate checks the navigation invariants:
// HasPrevious iff CurrentPage > 1, HasNext iff CurrentPage < TotalPages.
func (p Page[T]) Validate() error {
	if p.CurrentPage < MinPage || p.TotalPages < MinPage {
		return fmt.Errorf("%w: page %d of %d", ErrPageInvariant, p.CurrentPage, p.TotalPages)
	}
	if p.CurrentPage > p.TotalPages {
		return fmt.Errorf("%w: page %d beyond total %d", ErrPageInvariant, p.CurrentPage, p.TotalPages)
	}
	if p.HasPrevious != (p.CurrentPage > 1) {
		return fmt.Errorf("%w: has_previous=%t on page %d", ErrPageInvariant, p.HasPrevious, p.CurrentPage)
	}
	if p.HasNext != (p.CurrentPage < p.TotalPages) {
		return fmt.Errorf("%w: has_next=%t on page %d of %d",
			ErrPageInvariant, p.HasNext, p.CurrentPage, p.TotalPages)
	}
	return nil
}

// PreviousPage returns the page number before the current one, or 0 when none.
func (p Page[T]) PreviousPage() int {
	if !p.HasPrevious {
		return 0
	}
	return p.CurrentPage - 1
}

// NextPage returns the page number after the current one, or 0 when none.
func (p Page[T]) NextPage() int {
	if !p.HasNext {
		return 0
	}
	return p.CurrentPage + 1
}

// Summary returns the "Page X of Y" line shown above a table.
func (p Page[T]) Summary() string {
	return fmt.Sprintf("Page %d of %d", p.CurrentPage, p.TotalPages)
}
