package api

import (
	"context"
	"net/http"
	"net/url"
)

const insightsPath = "/api/nutritional-insights"

// MacroStats is the spread of one macronutrient across a diet, in grams.
type MacroStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Insights aggregates nutrition statistics for a diet.
type Insights struct {
	DietType     string     `json:"diet_type"`
	RecipeCount  int        `json:"recipe_count"`
	Protein      MacroStats `json:"protein"`
	Carbs        MacroStats `json:"carbs"`
	Fat          MacroStats `json:"fat"`
	CuisineTypes []string   `json:"cuisine_types"`

	// MacroSplit is derived from the averages after decoding.
	MacroSplit []MacroShare `json:"macro_split,omitempty"`
}

// MacroShare is one macro's percentage of the summed macro averages.
type MacroShare struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// IsEmpty reports whether no recipes matched the diet.
func (i *Insights) IsEmpty() bool {
	return i == nil || i.RecipeCount == 0
}

// Macros returns the three macros in display order.
func (i *Insights) Macros() []NamedMacro {
	return []NamedMacro{
		{Name: "Protein", Stats: i.Protein},
		{Name: "Carbs", Stats: i.Carbs},
		{Name: "Fat", Stats: i.Fat},
	}
}

// Split returns each macro's share of the summed averages, in display order.
// It returns nil when the averages sum to zero.
func (i *Insights) Split() []MacroShare {
	if i.IsEmpty() {
		return nil
	}
	macros := i.Macros()
	total := 0.0
	for _, m := range macros {
		total += m.Stats.Average
	}
	if total <= 0 {
		return nil
	}
	shares := make([]MacroShare, 0, len(macros))
	for _, m := range macros {
		shares = append(shares, MacroShare{Name: m.Name, Percent: m.Stats.Average / total * 100})
	}
	return shares
}

// NamedMacro pairs a macro label with its statistics.
type NamedMacro struct {
	Name  string
	Stats MacroStats
}

// FetchInsights loads aggregated statistics for diet. A diet with no
// recipes yields empty Insights rather than an error.
func (c *Client) FetchInsights(ctx context.Context, diet string) (*Insights, error) {
	d, err := NormalizeDiet(diet)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("diet_type", d)

	body, err := c.doLenient(ctx, request{
		method:    http.MethodGet,
		path:      insightsPath,
		query:     query,
		cacheable: true,
	}, noRecipes("recipe_count"))
	if err != nil {
		return nil, err
	}

	var insights Insights
	if decodeErr := decode(body, &insights); decodeErr != nil {
		return nil, decodeErr
	}
	if insights.DietType == "" {
		insights.DietType = d
	}
	insights.MacroSplit = insights.Split()
	return &insights, nil
}
