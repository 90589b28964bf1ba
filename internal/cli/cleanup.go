package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/tui"
)

// ExitCodePartial is the exit status when only some resources were deleted.
const ExitCodePartial = 2

// PartialFailureError reports a command that ran but did not fully succeed.
// main exits with ExitCode instead of 1.
type PartialFailureError struct {
	ExitCode int
	Reason   string
}

func (e *PartialFailureError) Error() string {
	return e.Reason
}

// errCleanupNeedsTerminal is returned when the interactive dialog cannot run.
var errCleanupNeedsTerminal = errors.New(
	"interactive cleanup requires a terminal; use 'nutriboard cleanup list' and 'nutriboard cleanup delete --id <id> --yes'")

// newCleanupCmd creates the cleanup command and its subcommands.
func newCleanupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Select and delete cloud resources in the dashboard's resource group",
		Long: `Opens an interactive dialog listing the resource group's resources.
Tick resources with space (a toggles all), press enter, then confirm with y.
Nothing is deleted without that confirmation.

Use the list and delete subcommands from scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.structured() || a.outputMode() != tui.OutputModeInteractive || !isTerminal(os.Stdin) {
				return errCleanupNeedsTerminal
			}

			model := tui.NewCleanupModel(cmd.Context(), tui.CleanupActions{
				List: a.client.ListResources,
				Delete: func(ctx context.Context, ids []string) (*api.DeleteResult, error) {
					return a.client.DeleteResources(ctx, ids, true)
				},
			})
			_, err := runProgram(cmd.Context(), model)
			if err != nil {
				return err
			}
			if res := model.Result(); res != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderDeleteResult(res))
			}
			return model.Err()
		},
	}

	cmd.AddCommand(newCleanupListCmd(a), newCleanupDeleteCmd(a))

	return cmd
}

func newCleanupListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List resources eligible for cleanup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.ListResources(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing resources: %w", err)
			}

			if a.structured() {
				return writeStructured(cmd.OutOrStdout(), a.flags.output, list, list.Resources)
			}
			a.outputMode()
			_, _ = fmt.Fprint(cmd.OutOrStdout(), tui.RenderResourceList(list))
			return nil
		},
	}
}

func newCleanupDeleteCmd(a *app) *cobra.Command {
	var (
		ids []string
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete resources by ID",
		Long: `Deletes the given resources. Deletion is refused unless --yes is passed.
A partial failure is reported per resource and exits non-zero.`,
		Example: `  nutriboard cleanup delete --id /subscriptions/.../sites/func-app --yes`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(ids) == 0 {
				return api.ErrNoResourcesSelected
			}
			if !yes {
				return fmt.Errorf("%w: pass --yes to delete %d resource(s)", api.ErrConfirmationRequired, len(ids))
			}

			res, err := a.client.DeleteResources(cmd.Context(), ids, yes)
			if err != nil {
				return fmt.Errorf("deleting resources: %w", err)
			}
			a.logger.Info().
				Ctx(cmd.Context()).
				Int("deleted", res.DeletedCount).
				Int("failed", res.FailedCount).
				Msg("cleanup finished")

			if a.structured() {
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				a.outputMode()
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderDeleteResult(res))
			}

			if res.Partial() {
				return &PartialFailureError{
					ExitCode: ExitCodePartial,
					Reason:   fmt.Sprintf("%d of %d resource(s) could not be deleted", res.FailedCount, len(ids)),
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ids, "id", nil, "resource ID to delete (repeatable)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")

	return cmd
}
