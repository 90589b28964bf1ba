package pagination

import (
	"fmt"
	"sort"
	"strings"
)

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// LessFunc reports whether a sorts before b for one field.
type LessFunc[T any] func(a, b T) bool

// Sorter sorts the items of a single page by a named field.
// Sorting never crosses page boundaries; the backend owns the global order.
type Sorter[T any] struct {
	fields map[string]LessFunc[T]
}

// NewSorter creates a Sorter over the given named comparators.
func NewSorter[T any](fields map[string]LessFunc[T]) *Sorter[T] {
	return &Sorter[T]{fields: fields}
}

// IsValidField checks if the field is valid for sorting.
func (s *Sorter[T]) IsValidField(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// GetValidFields returns all valid sort fields in a stable order.
func (s *Sorter[T]) GetValidFields() []string {
	fields := make([]string, 0, len(s.fields))
	for field := range s.fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a sorted copy of items; the input slice is left untouched.
// An unknown field returns items unchanged.
func (s *Sorter[T]) Sort(items []T, field, order string) []T {
	less, ok := s.fields[field]
	if !ok {
		return items
	}

	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortOrderDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// SortPage returns a copy of page with its items sorted.
func SortPage[T any](s *Sorter[T], page Page[T], field, order string) Page[T] {
	page.Items = s.Sort(page.Items, field, order)
	return page
}

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "protein", "fat:desc", "name:asc".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}

// ValidateSortField returns ErrInvalidSortField when field is not sortable by s.
func ValidateSortField[T any](s *Sorter[T], field string) error {
	if field == "" || s.IsValidField(field) {
		return nil
	}
	return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.GetValidFields(), ", "))
}
