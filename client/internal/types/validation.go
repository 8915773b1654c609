package types

import (
	"fmt"
	"regexp"
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidateSlug checks a goal slug before it is interpolated into a URL path.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("goal slug must not be empty")
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("invalid goal slug %q", slug)
	}
	return nil
}
