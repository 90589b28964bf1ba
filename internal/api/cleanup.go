package api

import (
	"context"
	"net/http"
	"strings"
)

const (
	cleanupListPath   = "/api/cleanup/list"
	cleanupDeletePath = "/api/cleanup/delete"

	// HeaderCleanupConfirm must be sent with ConfirmValue for deletions.
	HeaderCleanupConfirm = "X-Cleanup-Confirm"
	ConfirmValue         = "confirmed"
)

// Deletion outcomes.
const (
	DeleteStatusSuccess = "success"
	DeleteStatusPartial = "partial"
)

// Resource is a cloud resource in the dashboard's resource group.
type Resource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Kind     string `json:"kind"`
	Location string `json:"location,omitempty"`
}

// ShortType returns the last segment of the resource type.
func (r Resource) ShortType() string {
	return lastSegment(r.Type)
}

// ShortID returns the last segment of the resource ID.
func (r Resource) ShortID() string {
	return lastSegment(r.ID)
}

// ResourceList is the resource group inventory.
type ResourceList struct {
	ResourceGroup string     `json:"resource_group"`
	Resources     []Resource `json:"resources"`
	Count         int        `json:"count"`
	Timestamp     string     `json:"timestamp"`
}

// FailedDeletion is a resource the backend could not delete.
type FailedDeletion struct {
	ResourceID string `json:"resource_id"`
	Error      string `json:"error"`
}

// ShortID returns the last segment of the failed resource ID.
func (f FailedDeletion) ShortID() string {
	return lastSegment(f.ResourceID)
}

// DeleteResult reports the outcome of a deletion request.
type DeleteResult struct {
	Status           string           `json:"status"`
	DeletedCount     int              `json:"deleted_count"`
	FailedCount      int              `json:"failed_count"`
	DeletedResources []string         `json:"deleted_resources"`
	FailedResources  []FailedDeletion `json:"failed_resources"`
	Message          string           `json:"message"`
	Timestamp        string           `json:"timestamp"`
}

// Partial reports whether some deletions failed.
func (r *DeleteResult) Partial() bool {
	return r.FailedCount > 0 || r.Status == DeleteStatusPartial
}

// ListResources returns the resources eligible for cleanup.
func (c *Client) ListResources(ctx context.Context) (*ResourceList, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   cleanupListPath,
	})
	if err != nil {
		return nil, err
	}

	var list ResourceList
	if decodeErr := decode(body, &list); decodeErr != nil {
		return nil, decodeErr
	}
	if list.Resources == nil {
		list.Resources = []Resource{}
	}
	if list.Count == 0 {
		list.Count = len(list.Resources)
	}
	return &list, nil
}

// DeleteResources deletes ids. The caller must have obtained explicit
// confirmation; confirmed=false is refused locally.
func (c *Client) DeleteResources(ctx context.Context, ids []string, confirmed bool) (*DeleteResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoResourcesSelected
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	body, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    cleanupDeletePath,
		body:    map[string][]string{"resource_ids": ids},
		headers: map[string]string{HeaderCleanupConfirm: ConfirmValue},
	})
	if err != nil {
		return nil, err
	}

	var result DeleteResult
	if decodeErr := decode(body, &result); decodeErr != nil {
		return nil, decodeErr
	}
	return &result, nil
}

func lastSegment(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}
