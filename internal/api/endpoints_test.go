package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/nutriboard/internal/api"
)

func TestFetchClusters(t *testing.T) {
	t.Run("single page without metadata", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/clusters", r.URL.Path)
			assert.Equal(t, "vegan", r.URL.Query().Get("diet_type"))
			assert.Equal(t, "4", r.URL.Query().Get("num_clusters"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"diet_type": "vegan",
				"clusters": []map[string]any{
					{"cluster_id": 0, "label": "High Carb, Low Protein", "recipe_count": 10,
						"avg_protein": 5.5, "avg_carbs": 40.1, "avg_fat": 3.2,
						"sample_recipes": []string{"Oats", "Rice", "Bread"}},
				},
				"total_recipes": 10,
				"num_clusters":  4,
			})
		})

		set, err := client.FetchClusters(context.Background(), "Vegan", 4)
		require.NoError(t, err)
		assert.Equal(t, 1, set.Page.CurrentPage)
		assert.Equal(t, 1, set.Page.TotalPages)
		assert.False(t, set.Page.HasNext)
		assert.Equal(t, 10, set.TotalRecipes)
		assert.Equal(t, 4, set.NumClusters)
		require.Len(t, set.Page.Items, 1)
		assert.Equal(t, []string{"Oats", "Rice"}, set.Page.Items[0].ShownSamples())
	})

	t.Run("pagination metadata honored", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"clusters":    []map[string]any{{"cluster_id": 3}},
				"page":        2,
				"page_size":   1,
				"total_pages": 3,
			})
		})

		set, err := client.FetchClusters(context.Background(), "all", 3)
		require.NoError(t, err)
		assert.Equal(t, 2, set.Page.CurrentPage)
		assert.Equal(t, 3, set.Page.TotalPages)
		assert.True(t, set.Page.HasPrevious)
		assert.True(t, set.Page.HasNext)
	})

	t.Run("no data is empty not error", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"error": "No data found for diet type: paleo", "diet_type": "paleo",
				"clusters": []any{}, "total_recipes": 0,
			})
		})

		set, err := client.FetchClusters(context.Background(), "paleo", 0)
		require.NoError(t, err)
		assert.True(t, set.Page.IsEmpty())
		assert.Equal(t, api.DefaultClusters, set.NumClusters)
	})

	t.Run("backend exception stays an error", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"error": "BlobNotFound: All_Diets.csv", "diet_type": "all",
				"clusters": []any{}, "total_recipes": 0,
			})
		})

		set, err := client.FetchClusters(context.Background(), "all", 3)
		require.Error(t, err)
		assert.Nil(t, set)
		apiErr, ok := api.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "BlobNotFound: All_Diets.csv", apiErr.Message)
	})

	t.Run("count out of range", func(t *testing.T) {
		_, client := newServer(t, func(http.ResponseWriter, *http.Request) {
			t.Fatal("request must not be sent")
		})
		_, err := client.FetchClusters(context.Background(), "all", 11)
		require.ErrorIs(t, err, api.ErrInvalidClusterCount)
	})
}

func TestFetchInsights(t *testing.T) {
	t.Run("stats", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/nutritional-insights", r.URL.Path)
			writeJSON(t, w, http.StatusOK, map[string]any{
				"diet_type":     "keto",
				"recipe_count":  120,
				"protein":       map[string]float64{"average": 25.5, "min": 1, "max": 80},
				"carbs":         map[string]float64{"average": 8, "min": 0, "max": 20},
				"fat":           map[string]float64{"average": 40, "min": 5, "max": 90},
				"cuisine_types": []string{"american", "italian"},
			})
		})

		ins, err := client.FetchInsights(context.Background(), "keto")
		require.NoError(t, err)
		assert.False(t, ins.IsEmpty())
		assert.Equal(t, 120, ins.RecipeCount)
		assert.InDelta(t, 25.5, ins.Protein.Average, 0.001)
		macros := ins.Macros()
		require.Len(t, macros, 3)
		assert.Equal(t, "Fat", macros[2].Name)
		assert.InDelta(t, 90.0, macros[2].Stats.Max, 0.001)

		require.Len(t, ins.MacroSplit, 3)
		assert.InDelta(t, 25.5/73.5*100, ins.MacroSplit[0].Percent, 0.001)
		assert.InDelta(t, 100.0, ins.MacroSplit[0].Percent+ins.MacroSplit[1].Percent+ins.MacroSplit[2].Percent, 0.001)
	})

	t.Run("no data", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"error": "No data found for diet type: dash", "diet_type": "dash", "recipe_count": 0,
			})
		})
		ins, err := client.FetchInsights(context.Background(), "dash")
		require.NoError(t, err)
		assert.True(t, ins.IsEmpty())
	})

	t.Run("zero count with other error", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"error": "KeyError: 'Protein(g)'", "diet_type": "all", "recipe_count": 0,
			})
		})
		ins, err := client.FetchInsights(context.Background(), "all")
		require.Error(t, err)
		assert.Nil(t, ins)
		assert.Contains(t, err.Error(), "Protein(g)")
	})

	t.Run("real error", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{"error": "csv missing"})
		})
		_, err := client.FetchInsights(context.Background(), "all")
		apiErr, ok := api.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	})
}

func TestFetchSecurityStatus(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"encryption": "Enabled", "access_control": "Secure", "compliance": "Compliant",
				"timestamp": "2025-03-04T05:06:07.891011",
				"details":   map[string]any{"keyvault_configured": true, "keyvault_accessible": true, "storage_configured": true},
			})
		})
		s, err := client.FetchSecurityStatus(context.Background())
		require.NoError(t, err)
		assert.True(t, s.Healthy())
		assert.True(t, s.Details.KeyVaultAccessible)
		assert.Equal(t, "2025-03-04 05:06:07 UTC", api.FormatTimestamp(s.Timestamp))
	})

	t.Run("failed check still renders", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"encryption": "Unknown", "access_control": "Unknown", "compliance": "Non-Compliant",
				"error": "vault timeout", "details": map[string]any{"security_check": "Failed"},
			})
		})
		s, err := client.FetchSecurityStatus(context.Background())
		require.NoError(t, err)
		assert.False(t, s.Healthy())
		assert.Equal(t, "vault timeout", s.Error)
		assert.Equal(t, "Failed", s.Details.SecurityCheck)
	})
}

func TestFormatTimestamp(t *testing.T) {
	tests := map[string]string{
		"2025-03-04T05:06:07.891011": "2025-03-04 05:06:07 UTC",
		"2025-03-04T05:06:07":        "2025-03-04 05:06:07 UTC",
		"2025-03-04T07:06:07+02:00":  "2025-03-04 05:06:07 UTC",
		"2025-03-04 05:06:07.5":      "2025-03-04 05:06:07 UTC",
		"garbageTvalue.123":          "garbage value UTC",
		"":                           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, api.FormatTimestamp(in), in)
	}
}

func TestAuth(t *testing.T) {
	t.Run("oauth login", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "github", r.URL.Query().Get("provider"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status": "success", "provider": "github",
				"auth_url": "https://github.com/login/oauth/authorize?x=1", "state": "ni-abc",
			})
		})
		login, err := client.OAuthLogin(context.Background(), "GitHub")
		require.NoError(t, err)
		assert.Equal(t, "ni-abc", login.State)
		assert.Contains(t, login.AuthURL, "github.com")
	})

	t.Run("oauth misconfigured", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, map[string]any{
				"status": "error", "message": "Missing OAuth configuration for google.",
			})
		})
		_, err := client.OAuthLogin(context.Background(), "google")
		apiErr, ok := api.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Missing OAuth configuration for google.", apiErr.Message)
	})

	t.Run("oauth unknown provider", func(t *testing.T) {
		client := api.NewClient("http://127.0.0.1:1")
		_, err := client.OAuthLogin(context.Background(), "facebook")
		require.ErrorIs(t, err, api.ErrInvalidProvider)
	})

	t.Run("2fa setup", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "me@example.com", body["email"])
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status": "success", "email": "me@example.com", "secret": "JBSWY3DP",
				"qr_code": "data:image/png;base64,AAAA", "provisioning_uri": "otpauth://totp/x",
			})
		})
		setup, err := client.TwoFactorSetup(context.Background(), " me@example.com ")
		require.NoError(t, err)
		assert.Equal(t, "JBSWY3DP", setup.Secret)
		assert.Equal(t, "otpauth://totp/x", setup.ProvisioningURI)
	})

	t.Run("2fa verify", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["code"] != "123456" {
				writeJSON(t, w, http.StatusBadRequest, map[string]any{"status": "error", "message": "2FA code did not match."})
				return
			}
			writeJSON(t, w, http.StatusOK, map[string]any{"status": "success", "message": "2FA verified", "token": "a.b.c"})
		})

		v, err := client.TwoFactorVerify(context.Background(), "123456")
		require.NoError(t, err)
		assert.Equal(t, "a.b.c", v.Token)

		_, err = client.TwoFactorVerify(context.Background(), "000000")
		require.Error(t, err)
		assert.Equal(t, "api", api.Kind(err))

		_, err = client.TwoFactorVerify(context.Background(), "  ")
		require.ErrorIs(t, err, api.ErrEmptyCode)
	})
}

func TestCleanup(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status": "success", "resource_group": "school",
				"resources": []map[string]any{
					{"id": "/subscriptions/1/resourceGroups/school/providers/Microsoft.Web/sites/app1",
						"name": "app1", "type": "Microsoft.Web/sites", "kind": "functionapp"},
				},
				"count": 1,
			})
		})
		list, err := client.ListResources(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "school", list.ResourceGroup)
		require.Len(t, list.Resources, 1)
		assert.Equal(t, "sites", list.Resources[0].ShortType())
		assert.Equal(t, "app1", list.Resources[0].ShortID())
	})

	t.Run("list error", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{
				"status": "error", "message": "Failed to list resources: no subscription",
			})
		})
		_, err := client.ListResources(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no subscription")
	})

	t.Run("delete sends confirmation header", func(t *testing.T) {
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/cleanup/delete", r.URL.Path)
			assert.Equal(t, "confirmed", r.Header.Get(api.HeaderCleanupConfirm))
			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"id1", "id2"}, body["resource_ids"])
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status": "partial", "deleted_count": 1, "failed_count": 1,
				"deleted_resources": []string{"id1"},
				"failed_resources":  []map[string]string{{"resource_id": "id2", "error": "locked"}},
				"message":           "Deleted 1 of 2 resources",
			})
		})
		res, err := client.DeleteResources(context.Background(), []string{"id1", "id2"}, true)
		require.NoError(t, err)
		assert.True(t, res.Partial())
		require.Len(t, res.FailedResources, 1)
		assert.Equal(t, "locked", res.FailedResources[0].Error)
		assert.Equal(t, "id2", res.FailedResources[0].ShortID())
	})

	t.Run("delete guards", func(t *testing.T) {
		client := api.NewClient("http://127.0.0.1:1")
		_, err := client.DeleteResources(context.Background(), nil, true)
		require.ErrorIs(t, err, api.ErrNoResourcesSelected)
		_, err = client.DeleteResources(context.Background(), []string{"x"}, false)
		require.ErrorIs(t, err, api.ErrConfirmationRequired)
	})
}
