// Package listview provides a scrolling check list for Bubble Tea views.
//
// CheckList renders only the rows around the viewport and tracks which rows
// the user has ticked. Keys:
//   - up/down, j/k, pgup/pgdn, home/end move the cursor
//   - space or x toggles the row under the cursor
//   - a ticks every row, or clears all ticks when everything is ticked
package listview
