package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshade/nutriboard/internal/api"
)

// Recipe table column widths.
const (
	recipeNameWidth    = 36
	recipeCuisineWidth = 14
	recipeDietWidth    = 14
	recipeMacroWidth   = 10
)

// RecipeColumns are the headers of the recipes table.
func RecipeColumns() []table.Column {
	return []table.Column{
		{Title: "Recipe", Width: recipeNameWidth},
		{Title: "Cuisine", Width: recipeCuisineWidth},
		{Title: "Diet", Width: recipeDietWidth},
		{Title: "Protein", Width: recipeMacroWidth},
		{Title: "Carbs", Width: recipeMacroWidth},
		{Title: "Fat", Width: recipeMacroWidth},
	}
}

// RecipeRow renders one recipe.
func RecipeRow(r api.Recipe) table.Row {
	return table.Row{
		r.Name,
		titleCase(r.CuisineType),
		api.DietLabel(r.DietType),
		FormatGrams(r.ProteinG),
		FormatGrams(r.CarbsG),
		FormatGrams(r.FatG),
	}
}

// RecipeLayout is the presentation of a recipes page.
func RecipeLayout(windowSize int) Layout[api.Recipe] {
	return Layout[api.Recipe]{
		Title:        "RECIPES",
		FilterLabel:  "Diet Type",
		FilterText:   api.DietLabel,
		ItemNoun:     "Recipes",
		Columns:      RecipeColumns(),
		Row:          RecipeRow,
		WindowSize:   windowSize,
		EmptyMessage: "No recipes found for this diet type.",
	}
}

// Cluster table column widths.
const (
	clusterIDWidth      = 4
	clusterLabelWidth   = 22
	clusterCountWidth   = 8
	clusterMacroWidth   = 12
	clusterSamplesWidth = 40
)

// ClusterColumns are the headers of the clusters table.
func ClusterColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: clusterIDWidth},
		{Title: "Cluster", Width: clusterLabelWidth},
		{Title: "Recipes", Width: clusterCountWidth},
		{Title: "Avg Protein", Width: clusterMacroWidth},
		{Title: "Avg Carbs", Width: clusterMacroWidth},
		{Title: "Avg Fat", Width: clusterMacroWidth},
		{Title: "Sample Recipes", Width: clusterSamplesWidth},
	}
}

// ClusterRow renders one cluster with its first sample recipes.
func ClusterRow(c api.Cluster) table.Row {
	return table.Row{
		FormatCount(c.ID),
		c.Label,
		FormatCount(c.RecipeCount),
		FormatGrams(c.AvgProtein),
		FormatGrams(c.AvgCarbs),
		FormatGrams(c.AvgFat),
		strings.Join(c.ShownSamples(), ", "),
	}
}

// ClusterLayout is the presentation of a clusters page.
func ClusterLayout(windowSize int) Layout[api.Cluster] {
	return Layout[api.Cluster]{
		Title:        "RECIPE CLUSTERS",
		FilterLabel:  "Diet Type",
		FilterText:   api.DietLabel,
		ItemNoun:     "Clusters",
		Columns:      ClusterColumns(),
		Row:          ClusterRow,
		WindowSize:   windowSize,
		EmptyMessage: "No recipes found to cluster for this diet type.",
	}
}

// titleCase capitalizes each word of a lower-case dataset value.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
