package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/nutriboard/internal/api"
)

const (
	macroLabelWidth = 9
	minBarWidth     = 10
	maxBarWidth     = 40
	barChar         = "█"
	// barReserve is the space taken by the label and the min/avg/max text.
	barReserve = 48
)

// RenderInsights renders the macro averages as horizontal bars with their
// min/max spread, plus the cuisines present in the diet.
func RenderInsights(ins *api.Insights, width int) string {
	var content strings.Builder
	content.WriteString(HeaderStyle.Render("NUTRITIONAL INSIGHTS"))
	content.WriteString("\n\n")

	if ins.IsEmpty() {
		content.WriteString(InfoStyle.Render("No recipes found for this diet type."))
		return BoxStyle.Width(boxWidth(width)).Render(content.String())
	}

	content.WriteString(LabelStyle.Render("Diet Type: "))
	content.WriteString(ValueStyle.Render(api.DietLabel(ins.DietType)))
	content.WriteString(LabelStyle.Render("    Recipes: "))
	content.WriteString(ValueStyle.Render(FormatCount(ins.RecipeCount)))
	content.WriteString("\n\n")

	macros := ins.Macros()
	peak := 0.0
	for _, m := range macros {
		peak = max(peak, m.Stats.Average)
	}
	barWidth := min(maxBarWidth, max(minBarWidth, width-barReserve))

	for _, m := range macros {
		content.WriteString(renderMacroBar(m, peak, barWidth))
		content.WriteString("\n")
	}

	if split := ins.Split(); len(split) > 0 {
		content.WriteString("\n")
		content.WriteString(renderMacroSplit(split, barWidth))
		content.WriteString("\n")
	}

	if len(ins.CuisineTypes) > 0 {
		content.WriteString("\n")
		content.WriteString(LabelStyle.Render("Cuisines: "))
		names := make([]string, 0, len(ins.CuisineTypes))
		for _, c := range ins.CuisineTypes {
			names = append(names, titleCase(c))
		}
		content.WriteString(SubtleStyle.Render(strings.Join(names, ", ")))
	}

	return BoxStyle.Width(boxWidth(width)).Render(content.String())
}

func renderMacroBar(m api.NamedMacro, peak float64, barWidth int) string {
	filled := 0
	if peak > 0 {
		filled = int(m.Stats.Average / peak * float64(barWidth))
	}
	if filled == 0 && m.Stats.Average > 0 {
		filled = 1
	}

	bar := lipgloss.NewStyle().Foreground(macroColor(m.Name)).Render(strings.Repeat(barChar, filled))
	pad := strings.Repeat(" ", barWidth-filled)
	label := LabelStyle.Width(macroLabelWidth).Render(m.Name)
	stats := fmt.Sprintf("avg %s  (min %s, max %s)",
		FormatGrams(m.Stats.Average), FormatGrams(m.Stats.Min), FormatGrams(m.Stats.Max))

	return label + bar + pad + " " + ValueStyle.Render(stats)
}

// renderMacroSplit draws the macro shares as one stacked bar with a percentage legend.
func renderMacroSplit(split []api.MacroShare, barWidth int) string {
	segments := make([]string, 0, len(split))
	legend := make([]string, 0, len(split))
	used := 0
	for i, share := range split {
		n := int(math.Round(share.Percent / 100 * float64(barWidth)))
		if i == len(split)-1 {
			n = barWidth - used
		}
		n = max(0, min(n, barWidth-used))
		used += n

		color := lipgloss.NewStyle().Foreground(macroColor(share.Name))
		segments = append(segments, color.Render(strings.Repeat(barChar, n)))
		legend = append(legend, fmt.Sprintf("%s %s", share.Name, FormatPercent(share.Percent)))
	}

	label := LabelStyle.Width(macroLabelWidth).Render("Split")
	return label + strings.Join(segments, "") + " " + ValueStyle.Render(strings.Join(legend, " · "))
}

func boxWidth(width int) int {
	if width <= borderPadding {
		width = defaultWidth
	}
	return width - borderPadding
}
