package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/logging"
	"github.com/rshade/nutriboard/internal/tui"
)

// dashboardPanels is the number of backend calls the dashboard fans out.
const dashboardPanels = 3

// errDashboardUnavailable is returned when every dashboard panel failed.
var errDashboardUnavailable = errors.New("dashboard unavailable: every panel failed")

// dashboardDocument is the JSON form of the dashboard.
type dashboardDocument struct {
	Greeting *api.Greeting       `json:"greeting,omitempty"`
	Insights *api.Insights       `json:"insights,omitempty"`
	Security *api.SecurityStatus `json:"security,omitempty"`
	Errors   map[string]string   `json:"errors,omitempty"`
}

// newDashboardCmd creates the dashboard command.
func newDashboardCmd(a *app) *cobra.Command {
	var (
		diet string
		name string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the greeting, nutrition insights and security status together",
		Long: `Loads the dashboard panels concurrently. Each panel fails on its own: a
backend error in one panel is shown in its place while the others render.
The command fails only when every panel failed.`,
		Example: `  # Overview for all recipes
  nutriboard dashboard

  # Paleo overview, greeting Ada
  nutriboard dashboard --diet paleo --name Ada`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDashboard(cmd, diet, name)
		},
	}

	cmd.Flags().StringVar(&diet, "diet", "", "diet type for the insights panel (default from config)")
	cmd.Flags().StringVar(&name, "name", "", "name to greet")

	return cmd
}

func (a *app) runDashboard(cmd *cobra.Command, diet, name string) error {
	d, err := a.dietOrDefault(diet)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	var panels tui.DashboardPanels
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardPanels)

	g.Go(func() error {
		panels.Greeting, panels.GreetingErr = a.client.Greeting(gCtx, name)
		return nil
	})
	g.Go(func() error {
		panels.Insights, panels.InsightsErr = a.client.FetchInsights(gCtx, d)
		return nil
	})
	g.Go(func() error {
		panels.Security, panels.SecurityErr = a.client.FetchSecurityStatus(gCtx)
		return nil
	})
	_ = g.Wait()

	failures := map[string]error{
		"greeting": panels.GreetingErr,
		"insights": panels.InsightsErr,
		"security": panels.SecurityErr,
	}
	doc := dashboardDocument{
		Greeting: panels.Greeting,
		Insights: panels.Insights,
		Security: panels.Security,
	}
	var errs []error
	for panel, panelErr := range failures {
		if panelErr == nil {
			continue
		}
		log.Warn().Ctx(ctx).Err(panelErr).Str("panel", panel).Str("kind", api.Kind(panelErr)).Msg("dashboard panel failed")
		if doc.Errors == nil {
			doc.Errors = make(map[string]string)
		}
		doc.Errors[panel] = panelErr.Error()
		errs = append(errs, fmt.Errorf("%s: %w", panel, panelErr))
	}

	if len(errs) == dashboardPanels {
		return fmt.Errorf("%w: %w", errDashboardUnavailable, errors.Join(errs...))
	}

	if a.structured() {
		var items []any
		if doc.Greeting != nil {
			items = append(items, doc.Greeting)
		}
		if doc.Insights != nil {
			items = append(items, doc.Insights)
		}
		if doc.Security != nil {
			items = append(items, doc.Security)
		}
		return writeStructured(cmd.OutOrStdout(), a.flags.output, doc, items)
	}

	a.outputMode()
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderDashboard(panels, tui.TerminalWidth()))
	return nil
}
