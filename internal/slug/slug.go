// Package slug derives and validates workspace URL slugs.
package slug

import (
	"regexp"
	"strings"
)

const maxLength = 48

var (
	validPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	invalidRunes = regexp.MustCompile(`[^a-z0-9]+`)
)

// Generate derives a URL slug from a workspace name: lowercase, runs of
// non-alphanumerics collapsed to single dashes, trimmed to 48 characters.
func Generate(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	dashed := invalidRunes.ReplaceAllString(lowered, "-")
	dashed = strings.Trim(dashed, "-")
	if len(dashed) > maxLength {
		dashed = strings.Trim(dashed[:maxLength], "-")
	}
	return dashed
}

// Valid reports whether the slug matches the accepted character set.
func Valid(s string) bool {
	return s != "" && validPattern.MatchString(s)
}
