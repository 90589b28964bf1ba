package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriboard/internal/logging"
	"github.com/rshade/nutriboard/internal/pagination"
	"github.com/rshade/nutriboard/internal/tui"
)

// listRun describes a paginated listing for runList.
type listRun[T any] struct {
	noun    string
	layout  tui.Layout[T]
	loader  tui.Loader[T]
	request pagination.PageRequest

	// validateFilter checks diet types typed into the interactive filter prompt.
	validateFilter tui.FilterValidator
}

// runList renders one listing as an interactive PaginatedListView on a
// terminal, or prints the requested page as a static table otherwise.
func runList[T any](cmd *cobra.Command, a *app, run listRun[T]) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	mode := a.outputMode()
	log.Debug().
		Ctx(ctx).
		Str("list", run.noun).
		Str("mode", mode.String()).
		Str("filter", run.request.Filter).
		Int("page", run.request.Page).
		Int("page_size", run.request.PageSize).
		Msg("rendering list")

	if mode == tui.OutputModeInteractive {
		view := tui.NewPaginatedListView(ctx, tui.ListOptions[T]{
			Layout:         run.layout,
			Loader:         run.loader,
			Filter:         run.request.Filter,
			PageSize:       run.request.PageSize,
			StartPage:      run.request.Page,
			ValidateFilter: run.validateFilter,
		})
		_, err := runProgram(ctx, view)
		return err
	}

	page, err := run.loader(ctx, run.request)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", run.noun, err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderPage(run.layout, page))
	return nil
}
