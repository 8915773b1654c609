package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	errs "github.com/pjjh/beeminder-mcpb/client/internal/errors"
	"github.com/pjjh/beeminder-mcpb/client/internal/types"
)

// CreateDatapoint submits a new datapoint against a goal. The write is not
// retried; any failure propagates to the caller.
func CreateDatapoint(ctx context.Context, httpClient *http.Client, baseURL, username, slug string, req types.CreateDatapointRequest) (*types.Datapoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateSlug(slug); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("value", strconv.FormatFloat(req.Value, 'f', -1, 64))
	if req.Comment != "" {
		form.Set("comment", req.Comment)
	}
	if req.Timestamp != nil {
		form.Set("timestamp", strconv.FormatInt(*req.Timestamp, 10))
	}

	reqURL := fmt.Sprintf("%s/users/%s/goals/%s/datapoints.json",
		baseURL, url.PathEscape(username), url.PathEscape(slug))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("create datapoint", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, "create datapoint", slug); err != nil {
		return nil, err
	}
	var dp types.Datapoint
	if err := json.NewDecoder(resp.Body).Decode(&dp); err != nil {
		return nil, fmt.Errorf("create datapoint for %s: decode response: %w", slug, err)
	}
	return &dp, nil
}
