// Package redirect implements the redirect table: authored rules are
// expanded, normalized under the site's trailing-slash policy, validated, and
// published as an immutable lookup table consumed by the resolver and the
// artifact emitters.
package redirect

import (
	"fmt"
	"strings"
)

// TrailingSlash is the site-wide canonical form for path endings.
type TrailingSlash int

const (
	// TrailingSlashStripped means canonical paths do not end in "/".
	TrailingSlashStripped TrailingSlash = iota
	// TrailingSlashEnforced means canonical paths end in "/".
	TrailingSlashEnforced
)

// String returns the string representation of the policy mode.
func (t TrailingSlash) String() string {
	switch t {
	case TrailingSlashStripped:
		return "stripped"
	case TrailingSlashEnforced:
		return "enforced"
	default:
		return "unknown"
	}
}

// ParseTrailingSlash parses a policy mode from its configuration spelling.
func ParseTrailingSlash(s string) (TrailingSlash, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stripped", "strip", "never":
		return TrailingSlashStripped, nil
	case "enforced", "enforce", "always":
		return TrailingSlashEnforced, nil
	default:
		return TrailingSlashStripped, fmt.Errorf("unknown trailing_slash mode %q (want stripped or enforced)", s)
	}
}

// Policy decides the single canonical form of every path the site serves.
// Normalize is pure and idempotent; the root path "/" never gains or loses a
// slash, and query strings and fragments pass through untouched.
type Policy struct {
	TrailingSlash TrailingSlash
}

// Normalize returns the canonical form of path under the policy.
func (p Policy) Normalize(path string) string {
	path, suffix := splitPathSuffix(path)

	if path == "" || path == "/" {
		return "/" + suffix
	}

	switch p.TrailingSlash {
	case TrailingSlashEnforced:
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
	default:
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}

	return path + suffix
}

// ToggleTrailingSlash returns the complementary slash variant of path: "/x"
// becomes "/x/" and vice versa. The root has no complementary variant and is
// returned unchanged.
func (p Policy) ToggleTrailingSlash(path string) string {
	path, suffix := splitPathSuffix(path)

	if path == "" || path == "/" {
		return "/" + suffix
	}

	if strings.HasSuffix(path, "/") {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	} else {
		path += "/"
	}

	return path + suffix
}

// splitPathSuffix separates the matchable path from its query/fragment
// suffix. The suffix is preserved verbatim and excluded from normalization.
func splitPathSuffix(path string) (string, string) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i], path[i:]
	}
	return path, ""
}

// ValidatePath checks that path is a root-relative URL path suitable for a
// redirect declaration: it must start with "/" and carry no query string.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must be root-relative (start with /): %s", path)
	}
	if strings.ContainsAny(path, "?#") {
		return fmt.Errorf("path must not contain a query string or fragment: %s", path)
	}
	if strings.ContainsAny(path, " \t\n\r") {
		return fmt.Errorf("path contains whitespace: %s", path)
	}
	return nil
}
