// Package client is a small typed SDK for the Beeminder API. It owns the
// authenticated HTTP transport; callers construct one Client at process
// start, validate it once with Ping, and reuse it for every request.
package client

import (
	"context"
	"net/http"
	"time"

	"github.com/pjjh/beeminder-mcpb/client/internal/api"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL   string
	username  string
	http      *http.Client
	authToken string
}

// New constructs a Client for the given API base URL and auth token.
// Additional options can be provided via functional arguments.
func New(baseURL, authToken string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}
	if authToken == "" {
		panic("authToken cannot be empty")
	}

	c := &Client{
		baseURL:   baseURL,
		username:  "me",
		authToken: authToken,
		http:      &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	// Wrap the HTTP transport so every request carries the auth token.
	c.wrapTransportWithAuthToken()

	return c
}

// wrapTransportWithAuthToken wraps the HTTP client's transport to append
// the auth_token query parameter to all requests. Beeminder authenticates
// via query parameter rather than a header.
func (c *Client) wrapTransportWithAuthToken() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &authTokenTransport{
		base:  baseTransport,
		token: c.authToken,
	}
}

// authTokenTransport wraps an http.RoundTripper to add the auth_token
// query parameter.
type authTokenTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original.
	cloned := req.Clone(req.Context())
	q := cloned.URL.Query()
	q.Set("auth_token", t.token)
	cloned.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(cloned)
}

// Ping validates the configured credentials by fetching the user resource.
// Intended to be called once at startup.
func (c *Client) Ping(ctx context.Context) error {
	err := api.Ping(ctx, c.http, c.baseURL, c.username)
	observe("ping", err)
	return err
}

// --------------------------------------------------------------------
// Goal operations - delegated to internal/api
// --------------------------------------------------------------------

// FetchGoals retrieves the lightweight projection of all goals in one call.
func (c *Client) FetchGoals(ctx context.Context) ([]LightGoal, error) {
	goals, err := api.ListGoals(ctx, c.http, c.baseURL, c.username)
	observe("list_goals", err)
	return goals, err
}

// FetchGoal retrieves the authoritative full projection of a single goal.
func (c *Client) FetchGoal(ctx context.Context, slug string) (*FullGoal, error) {
	goal, err := api.GetGoal(ctx, c.http, c.baseURL, c.username, slug)
	observe("get_goal", err)
	return goal, err
}

// CreateDatapoint submits a new datapoint. The write is never retried.
func (c *Client) CreateDatapoint(ctx context.Context, slug string, req CreateDatapointRequest) (*Datapoint, error) {
	dp, err := api.CreateDatapoint(ctx, c.http, c.baseURL, c.username, slug, req)
	observe("create_datapoint", err)
	return dp, err
}
