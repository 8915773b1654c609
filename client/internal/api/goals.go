package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	errs "github.com/pjjh/beeminder-mcpb/client/internal/errors"
	"github.com/pjjh/beeminder-mcpb/client/internal/types"
)

// ListGoals retrieves the lightweight projection of every goal for the user
// in a single call.
func ListGoals(ctx context.Context, httpClient *http.Client, baseURL, username string) ([]types.LightGoal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reqURL := fmt.Sprintf("%s/users/%s/goals.json", baseURL, url.PathEscape(username))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("list goals", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, "list goals", ""); err != nil {
		return nil, err
	}
	var goals []types.LightGoal
	if err := json.NewDecoder(resp.Body).Decode(&goals); err != nil {
		return nil, fmt.Errorf("list goals: decode response: %w", err)
	}
	return goals, nil
}

// GetGoal retrieves the full single-goal projection, including queued and
// fineprint. Datapoints are excluded to keep the payload small.
func GetGoal(ctx context.Context, httpClient *http.Client, baseURL, username, slug string) (*types.FullGoal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateSlug(slug); err != nil {
		return nil, err
	}
	reqURL := fmt.Sprintf("%s/users/%s/goals/%s.json?datapoints=false",
		baseURL, url.PathEscape(username), url.PathEscape(slug))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("get goal", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, "get goal", slug); err != nil {
		return nil, err
	}
	var goal types.FullGoal
	if err := json.NewDecoder(resp.Body).Decode(&goal); err != nil {
		return nil, fmt.Errorf("get goal %s: decode response: %w", slug, err)
	}
	return &goal, nil
}

// Ping fetches the user resource to validate the configured auth token.
func Ping(ctx context.Context, httpClient *http.Client, baseURL, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	reqURL := fmt.Sprintf("%s/users/%s.json", baseURL, url.PathEscape(username))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errs.NewNetworkError("ping", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return checkStatus(resp, "ping", "")
}
