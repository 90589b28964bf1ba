package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/pagination"
	"github.com/rshade/nutriboard/internal/tui"
)

// newClustersCmd creates the clusters command.
func newClustersCmd(a *app) *cobra.Command {
	var (
		diet        string
		numClusters int
	)

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Group recipes into clusters with similar macros",
		Long: `Asks the backend to group a diet's recipes by protein, carbs and fat and
lists the resulting clusters with their average macros and sample recipes.`,
		Example: `  # Three clusters across all recipes
  nutriboard clusters

  # Five clusters of mediterranean recipes as JSON
  nutriboard clusters --diet mediterranean --clusters 5 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runClusters(cmd, diet, numClusters)
		},
	}

	cmd.Flags().StringVar(&diet, "diet", "", "diet type to cluster (default from config)")
	cmd.Flags().IntVarP(&numClusters, "clusters", "k", api.DefaultClusters,
		fmt.Sprintf("number of clusters, %d-%d", api.MinClusters, api.MaxClusters))

	return cmd
}

func (a *app) runClusters(cmd *cobra.Command, diet string, numClusters int) error {
	d, err := a.dietOrDefault(diet)
	if err != nil {
		return err
	}
	if countErr := api.ValidateClusterCount(numClusters); countErr != nil {
		return countErr
	}

	if a.structured() {
		set, fetchErr := a.client.FetchClusters(cmd.Context(), d, numClusters)
		if fetchErr != nil {
			return fmt.Errorf("fetching clusters: %w", fetchErr)
		}
		return writeStructured(cmd.OutOrStdout(), a.flags.output, set, set.Page.Items)
	}

	loader := func(ctx context.Context, r pagination.PageRequest) (pagination.Page[api.Cluster], error) {
		set, fetchErr := a.client.FetchClusters(ctx, r.Filter, numClusters)
		if fetchErr != nil {
			return pagination.Page[api.Cluster]{}, fetchErr
		}
		return set.Page, nil
	}

	return runList(cmd, a, listRun[api.Cluster]{
		noun:           "clusters",
		layout:         tui.ClusterLayout(a.cfg.View.WindowSize),
		loader:         loader,
		request:        pagination.DefaultRequest(d),
		validateFilter: api.NormalizeDiet,
	})
}
