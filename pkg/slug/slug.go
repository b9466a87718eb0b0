// Package slug turns titles into URL path segments.
package slug

import (
	"regexp"
	"strings"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphenRun  = regexp.MustCompile(`-{2,}`)
)

// Generate lowercases s, drops everything outside [a-z0-9], whitespace and hyphens,
// and joins words with single hyphens: "Web Dev & Design!" becomes "web-dev-design".
func Generate(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = disallowed.ReplaceAllString(out, "")
	out = whitespace.ReplaceAllString(out, "-")
	out = hyphenRun.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
