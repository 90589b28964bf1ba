package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/pagination"
	"github.com/rshade/nutriboard/internal/tui"
)

type recipesOptions struct {
	diet     string
	page     int
	pageSize int
	sortBy   string
}

// newRecipesCmd creates the recipes command, the paginated recipe browser.
func newRecipesCmd(a *app) *cobra.Command {
	var opts recipesOptions

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse recipes page by page",
		Long: `Lists recipes for a diet type one page at a time.

On a terminal the list is interactive: use ←/→ to change pages, : to jump to
a page and / to switch diet types. With --plain, a pipe, or --output json the
requested page is printed once.

Sorting with --sort orders the items within each page; the backend decides
which recipes land on which page.`,
		Example: `  # Browse all recipes
  nutriboard recipes

  # Start on page 4 of vegan recipes, 50 per page
  nutriboard recipes --diet vegan --page 4 --page-size 50

  # Highest-protein keto recipes on the first page, as JSON
  nutriboard recipes --diet keto --sort protein:desc --output json

  # One recipe per line for jq
  nutriboard recipes --output ndjson | jq .recipe_name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRecipes(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.diet, "diet", "", "diet type: all, vegan, keto, mediterranean, paleo, dash (default from config)")
	cmd.Flags().IntVar(&opts.page, "page", pagination.DefaultPage, "page number to show first (1-based)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "recipes per page, 1-100 (default from config)")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "", "sort within a page: name, cuisine, protein, carbs, fat; append :asc or :desc")

	return cmd
}

// dietOrDefault normalizes a --diet flag, falling back to the configured default.
func (a *app) dietOrDefault(diet string) (string, error) {
	if diet == "" {
		diet = a.cfg.View.DefaultDiet
	}
	return api.NormalizeDiet(diet)
}

// pageSizeOrDefault falls back to the configured page size.
func (a *app) pageSizeOrDefault(size int) int {
	if size == 0 {
		return a.cfg.View.PageSize
	}
	return size
}

func (a *app) runRecipes(cmd *cobra.Command, opts recipesOptions) error {
	diet, err := a.dietOrDefault(opts.diet)
	if err != nil {
		return err
	}

	sorter := api.RecipeSorter()
	field, order, err := pagination.ParseSort(opts.sortBy)
	if err != nil {
		return err
	}
	if fieldErr := pagination.ValidateSortField(sorter, field); fieldErr != nil {
		return fieldErr
	}

	req := pagination.PageRequest{
		Filter:   diet,
		Page:     opts.page,
		PageSize: a.pageSizeOrDefault(opts.pageSize),
	}
	if validateErr := req.Validate(); validateErr != nil {
		return validateErr
	}

	loader := func(ctx context.Context, r pagination.PageRequest) (pagination.Page[api.Recipe], error) {
		page, fetchErr := a.client.FetchRecipes(ctx, r)
		if fetchErr != nil {
			return page, fetchErr
		}
		return pagination.SortPage(sorter, page, field, order), nil
	}

	if a.structured() {
		page, fetchErr := loader(cmd.Context(), req)
		if fetchErr != nil {
			return fmt.Errorf("fetching recipes: %w", fetchErr)
		}
		return writeStructured(cmd.OutOrStdout(), a.flags.output, page, page.Items)
	}

	return runList(cmd, a, listRun[api.Recipe]{
		noun:           "recipes",
		layout:         tui.RecipeLayout(a.cfg.View.WindowSize),
		loader:         loader,
		request:        req,
		validateFilter: api.NormalizeDiet,
	})
}
