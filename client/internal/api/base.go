package api

import (
	"fmt"
	"io"
	"net/http"

	errs "github.com/pjjh/beeminder-mcpb/client/internal/errors"
	"github.com/pjjh/beeminder-mcpb/client/internal/types"
)

// maxErrorBodyBytes caps how much of an error response body is kept for
// diagnostics.
const maxErrorBodyBytes = 4 << 10

// checkStatus maps a non-2xx response to the SDK error taxonomy. Not-found
// and authorization failures become sentinel errors callers can test with
// errors.Is; everything else is a classified remote error.
func checkStatus(resp *http.Response, operation, slug string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	switch resp.StatusCode {
	case http.StatusNotFound:
		if slug != "" {
			return fmt.Errorf("goal %q: %w", slug, types.ErrGoalNotFound)
		}
		return types.ErrGoalNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", operation, types.ErrUnauthorized)
	default:
		return errs.NewHTTPError(resp.StatusCode, string(body), operation)
	}
}
