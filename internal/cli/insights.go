package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/tui"
)

// newInsightsCmd creates the insights command.
func newInsightsCmd(a *app) *cobra.Command {
	var diet string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show macronutrient statistics for a diet",
		Example: `  # Averages across every recipe
  nutriboard insights

  # Keto statistics as JSON
  nutriboard insights --diet keto --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dietOrDefault(diet)
			if err != nil {
				return err
			}

			ins, err := a.client.FetchInsights(cmd.Context(), d)
			if err != nil {
				return fmt.Errorf("fetching insights: %w", err)
			}

			if a.structured() {
				return writeStructured(cmd.OutOrStdout(), a.flags.output, ins, []*api.Insights{ins})
			}
			a.outputMode()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderInsights(ins, tui.TerminalWidth()))
			return nil
		},
	}

	cmd.Flags().StringVar(&diet, "diet", "", "diet type (default from config)")

	return cmd
}

// newSecurityCmd creates the security command.
func newSecurityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "security",
		Short: "Show the backend's security and compliance status",
		Long: `Shows encryption, access control and compliance as reported by the backend.
A failed backend check is shown as part of the status rather than as an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := a.client.FetchSecurityStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching security status: %w", err)
			}

			if a.structured() {
				return writeStructured(cmd.OutOrStdout(), a.flags.output, status, []*api.SecurityStatus{status})
			}
			a.outputMode()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSecurityStatus(status, tui.TerminalWidth()))
			return nil
		},
	}
}
