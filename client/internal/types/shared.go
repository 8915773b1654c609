package types

import "errors"

// ------------------------------
// Shared Errors
// ------------------------------

// ErrGoalNotFound is returned when the referenced goal does not exist for
// the authenticated user.
var ErrGoalNotFound = errors.New("goal not found")

// ErrUnauthorized is returned when the auth token is invalid or expired.
var ErrUnauthorized = errors.New("invalid or expired auth token")
