package api

import (
	"context"
	"net/http"
	"net/url"
)

const greetingPath = "/api/greeting"

// Greeting is the backend's connectivity check response.
type Greeting struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Greeting asks the backend to greet name. An empty name greets the world.
func (c *Client) Greeting(ctx context.Context, name string) (*Greeting, error) {
	query := url.Values{}
	if name != "" {
		query.Set("name", name)
	}

	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   greetingPath,
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	var g Greeting
	if decodeErr := decode(body, &g); decodeErr != nil {
		return nil, decodeErr
	}
	return &g, nil
}
