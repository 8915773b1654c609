package client

import (
	"errors"

	errs "github.com/pjjh/beeminder-mcpb/client/internal/errors"
	"github.com/pjjh/beeminder-mcpb/client/internal/types"
)

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	// ErrGoalNotFound indicates the referenced goal does not exist for the
	// authenticated user.
	ErrGoalNotFound = types.ErrGoalNotFound

	// ErrUnauthorized indicates the auth token is invalid or expired.
	ErrUnauthorized = types.ErrUnauthorized
)

// IsIrrecoverable reports whether retrying err cannot help: a missing
// goal, a rejected token, or a remote failure classified as irrecoverable
// (4xx other than 408/429). Network errors and 5xx responses are
// recoverable and worth another attempt.
func IsIrrecoverable(err error) bool {
	if errors.Is(err, ErrGoalNotFound) || errors.Is(err, ErrUnauthorized) {
		return true
	}
	return errs.IsIrrecoverable(err)
}
