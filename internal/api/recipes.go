package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rshade/nutriboard/internal/logging"
	"github.com/rshade/nutriboard/internal/pagination"
)

const recipesPath = "/api/recipes"

// Recipe is one row of the recipes dataset.
type Recipe struct {
	Name           string  `json:"recipe_name"`
	DietType       string  `json:"diet_type"`
	CuisineType    string  `json:"cuisine_type"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
	ExtractionDay  string  `json:"extraction_day,omitempty"`
	ExtractionTime string  `json:"extraction_time,omitempty"`
}

type recipesResponse struct {
	DietType    string   `json:"diet_type"`
	Recipes     []Recipe `json:"recipes"`
	TotalCount  int      `json:"total_count"`
	Page        int      `json:"page"`
	PageSize    int      `json:"page_size"`
	TotalPages  int      `json:"total_pages"`
	HasNext     bool     `json:"has_next"`
	HasPrevious bool     `json:"has_previous"`
}

// FetchRecipes loads one page of recipes. The request filter is the diet type.
func (c *Client) FetchRecipes(ctx context.Context, req pagination.PageRequest) (pagination.Page[Recipe], error) {
	diet, err := NormalizeDiet(req.Filter)
	if err != nil {
		return pagination.Page[Recipe]{}, err
	}
	req.Filter = diet
	if validateErr := req.Validate(); validateErr != nil {
		return pagination.Page[Recipe]{}, validateErr
	}

	query := url.Values{}
	query.Set("diet_type", diet)
	for k, v := range req.QueryValues() {
		query.Set(k, v)
	}

	body, err := c.do(ctx, request{
		method:    http.MethodGet,
		path:      recipesPath,
		query:     query,
		cacheable: true,
	})
	if err != nil {
		return pagination.Page[Recipe]{}, err
	}

	var resp recipesResponse
	if decodeErr := decode(body, &resp); decodeErr != nil {
		return pagination.Page[Recipe]{}, decodeErr
	}

	totalPages := resp.TotalPages
	if totalPages == 0 {
		totalPages = pagination.CalculateTotalPages(resp.TotalCount, resp.PageSize)
	}
	page := pagination.NewPage(resp.Recipes, resp.Page, totalPages).
		WithTotals(resp.TotalCount, resp.PageSize).
		WithFilter(diet)

	if page.HasNext != resp.HasNext || page.HasPrevious != resp.HasPrevious {
		logging.FromContext(ctx).Debug().
			Int("page", resp.Page).
			Int("total_pages", resp.TotalPages).
			Bool("wire_has_next", resp.HasNext).
			Bool("wire_has_previous", resp.HasPrevious).
			Msg("backend navigation flags disagree with page numbers; using page numbers")
	}

	return page, nil
}

// RecipeSorter sorts recipes within a page by name, cuisine or a macro.
func RecipeSorter() *pagination.Sorter[Recipe] {
	return pagination.NewSorter(map[string]pagination.LessFunc[Recipe]{
		"name": func(a, b Recipe) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		},
		"cuisine": func(a, b Recipe) bool {
			return strings.ToLower(a.CuisineType) < strings.ToLower(b.CuisineType)
		},
		"protein": func(a, b Recipe) bool { return a.ProteinG < b.ProteinG },
		"carbs":   func(a, b Recipe) bool { return a.CarbsG < b.CarbsG },
		"fat":     func(a, b Recipe) bool { return a.FatG < b.FatG },
	})
}
