package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rshade/nutriboard/internal/pagination"
)

const clustersPath = "/api/clusters"

// Cluster size bounds.
const (
	MinClusters     = 1
	MaxClusters     = 10
	DefaultClusters = 3

	// sampleRecipesShown is how many sample recipe names a row displays.
	sampleRecipesShown = 2
)

// Cluster summarizes a group of recipes with similar macros.
type Cluster struct {
	ID            int      `json:"cluster_id"`
	Label         string   `json:"label"`
	RecipeCount   int      `json:"recipe_count"`
	AvgProtein    float64  `json:"avg_protein"`
	AvgCarbs      float64  `json:"avg_carbs"`
	AvgFat        float64  `json:"avg_fat"`
	SampleRecipes []string `json:"sample_recipes"`
}

// ShownSamples returns the sample recipe names a table row displays.
func (c Cluster) ShownSamples() []string {
	if len(c.SampleRecipes) <= sampleRecipesShown {
		return c.SampleRecipes
	}
	return c.SampleRecipes[:sampleRecipesShown]
}

// ClusterSet is a clusters response: a page of clusters plus dataset totals.
type ClusterSet struct {
	Page         pagination.Page[Cluster] `json:"page"`
	TotalRecipes int                      `json:"total_recipes"`
	NumClusters  int                      `json:"num_clusters"`
}

type clustersResponse struct {
	DietType     string    `json:"diet_type"`
	Clusters     []Cluster `json:"clusters"`
	TotalRecipes int       `json:"total_recipes"`
	NumClusters  int       `json:"num_clusters"`

	// Pagination metadata, present only on paginating backends.
	Page       *int `json:"page"`
	PageSize   *int `json:"page_size"`
	TotalPages *int `json:"total_pages"`
}

// ValidateClusterCount checks n against [MinClusters, MaxClusters].
func ValidateClusterCount(n int) error {
	if n < MinClusters || n > MaxClusters {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidClusterCount, n, MinClusters, MaxClusters)
	}
	return nil
}

// FetchClusters loads recipe clusters for a diet. Without pagination metadata
// the response is a single page. A diet with no recipes yields an empty page.
func (c *Client) FetchClusters(ctx context.Context, diet string, numClusters int) (*ClusterSet, error) {
	d, err := NormalizeDiet(diet)
	if err != nil {
		return nil, err
	}
	if numClusters == 0 {
		numClusters = DefaultClusters
	}
	if countErr := ValidateClusterCount(numClusters); countErr != nil {
		return nil, countErr
	}

	query := url.Values{}
	query.Set("diet_type", d)
	query.Set("num_clusters", strconv.Itoa(numClusters))

	body, err := c.doLenient(ctx, request{
		method:    http.MethodGet,
		path:      clustersPath,
		query:     query,
		cacheable: true,
	}, noRecipes("total_recipes"))
	if err != nil {
		return nil, err
	}

	var resp clustersResponse
	if decodeErr := decode(body, &resp); decodeErr != nil {
		return nil, decodeErr
	}

	current, total := 1, 1
	if resp.Page != nil && resp.TotalPages != nil {
		current, total = *resp.Page, *resp.TotalPages
	}
	page := pagination.NewPage(resp.Clusters, current, total).WithFilter(d)
	if resp.PageSize != nil {
		page = page.WithTotals(len(resp.Clusters), *resp.PageSize)
	}

	if resp.NumClusters == 0 {
		resp.NumClusters = numClusters
	}

	return &ClusterSet{
		Page:         page,
		TotalRecipes: resp.TotalRecipes,
		NumClusters:  resp.NumClusters,
	}, nil
}

// emptyDietPrefix starts the error the backend returns for a diet slice with no rows.
const emptyDietPrefix = "No data found for diet type"

// noRecipes accepts an error payload that only says the dataset slice is empty.
// Other errors reported with a zero count are backend failures and stay errors.
func noRecipes(countField string) func([]byte) bool {
	return func(body []byte) bool {
		var fields map[string]json.RawMessage
		if json.Unmarshal(body, &fields) != nil {
			return false
		}
		var msg string
		if json.Unmarshal(fields["error"], &msg) != nil || !strings.HasPrefix(msg, emptyDietPrefix) {
			return false
		}
		raw, ok := fields[countField]
		if !ok {
			return false
		}
		var n int
		if json.Unmarshal(raw, &n) != nil {
			return false
		}
		return n == 0
	}
}
