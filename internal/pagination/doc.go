// Package pagination provides the page model shared by the API client and the
// terminal views.
//
// This package contains:
//   - Page: one fetched batch of results plus navigation metadata
//   - PageRequest: the filter/page/page-size triple sent to list endpoints
//   - VisibleWindow and Controls: the page-selector strip shown under a table
//   - Sorter: in-page sorting with field validation
//
// A Page is produced fresh for every fetch and is never mutated after it is
// built; views render it and drop it on the next fetch.
package pagination
