package pagination

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Pagination defaults and validation limits. The page-size bounds match what the
// recipes endpoint accepts; larger values are silently reset to 20 server-side.
const (
	DefaultPage       = 1
	MinPage           = 1
	DefaultPageSize   = 20
	MinPageSize       = 1
	MaxPageSize       = 100
	DefaultWindowSize = 5
	DefaultSortField  = ""
	DefaultSortOrder  = "asc"
	SortOrderAsc      = "asc"
	SortOrderDesc     = "desc"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'protein:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

//nolint:gochecknoglobals // validator caches struct metadata; one instance per process.
var validate = validator.New(validator.WithRequiredStructEnabled())

// PageRequest is what a list view asks its loader for.
type PageRequest struct {
	// Filter is the caller-owned filter value (the diet type for recipes and clusters).
	Filter string `json:"filter"`

	// Page is the 1-based page number.
	Page int `json:"page" validate:"gte=1"`

	// PageSize is the number of items per page.
	PageSize int `json:"page_size" validate:"gte=1,lte=100"`
}

// DefaultRequest returns the first page for filter at the default page size.
func DefaultRequest(filter string) PageRequest {
	return PageRequest{Filter: filter, Page: DefaultPage, PageSize: DefaultPageSize}
}

// WithPage returns a copy of r pointing at page.
func (r PageRequest) WithPage(page int) PageRequest {
	r.Page = page
	return r
}

// WithFilter returns a copy of r with a new filter, reset to the first page.
func (r PageRequest) WithFilter(filter string) PageRequest {
	r.Filter = filter
	r.Page = DefaultPage
	return r
}

// Validate checks the request bounds.
func (r PageRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Page":
				return fmt.Errorf("%w: got %d", ErrInvalidPage, r.Page)
			case "PageSize":
				return fmt.Errorf("%w: got %d", ErrInvalidPageSize, r.PageSize)
			}
		}
		return fmt.Errorf("invalid page request: %w", err)
	}
	return nil
}

// QueryValues returns the page/page_size query parameters for the request.
func (r PageRequest) QueryValues() map[string]string {
	return map[string]string{
		"page":      strconv.Itoa(r.Page),
		"page_size": strconv.Itoa(r.PageSize),
	}
}

// CalculateTotalPages returns how many pages totalItems spans at pageSize.
// Returns 0 for an empty result or a non-positive page size.
func CalculateTotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	pages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		pages++
	}
	return pages
}
