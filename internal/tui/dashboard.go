package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/nutriboard/internal/api"
)

// DashboardPanels holds the independently loaded parts of the dashboard.
// A panel whose load failed carries its error instead of its data.
type DashboardPanels struct {
	Greeting    *api.Greeting
	GreetingErr error

	Insights    *api.Insights
	InsightsErr error

	Security    *api.SecurityStatus
	SecurityErr error
}

// RenderDashboard renders the greeting header followed by the insights and
// security panels. Failed panels render as inline errors.
func RenderDashboard(p DashboardPanels, width int) string {
	sections := make([]string, 0, 3) //nolint:mnd // greeting, insights, security.

	switch {
	case p.GreetingErr != nil:
		sections = append(sections, RenderError(p.GreetingErr))
	case p.Greeting != nil:
		header := HeaderStyle.Render(p.Greeting.Message)
		if p.Greeting.Timestamp != "" {
			header += "\n" + SubtleStyle.Render(api.FormatTimestamp(p.Greeting.Timestamp))
		}
		sections = append(sections, header)
	}

	switch {
	case p.InsightsErr != nil:
		sections = append(sections, RenderError(p.InsightsErr))
	case p.Insights != nil:
		sections = append(sections, RenderInsights(p.Insights, width))
	}

	switch {
	case p.SecurityErr != nil:
		sections = append(sections, RenderError(p.SecurityErr))
	case p.Security != nil:
		sections = append(sections, RenderSecurityStatus(p.Security, width))
	}

	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n") + "\n"
}
