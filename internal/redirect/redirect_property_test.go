//go:build property
// +build property

package redirect

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genPath generates root-relative URL paths without query strings.
func genPath() gopter.Gen {
	return gen.SliceOfN(3, gen.RegexMatch(`^[a-z][a-z0-9-]{0,8}$`)).Map(func(segments []string) string {
		return "/" + strings.Join(segments, "/")
	})
}

func genPolicy() gopter.Gen {
	return gen.OneConstOf(TrailingSlashStripped, TrailingSlashEnforced).Map(func(mode TrailingSlash) Policy {
		return Policy{TrailingSlash: mode}
	})
}

// TestNormalizationProperties tests canonical path policy properties
func TestNormalizationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: normalization is idempotent
	properties.Property("normalize idempotent", prop.ForAll(
		func(policy Policy, path string) bool {
			once := policy.Normalize(path)
			return policy.Normalize(once) == once
		},
		genPolicy(),
		genPath(),
	))

	// Property: normalization never touches the query suffix
	properties.Property("query suffix preserved", prop.ForAll(
		func(policy Policy, path, query string) bool {
			normalized := policy.Normalize(path + "?" + query)
			return strings.HasSuffix(normalized, "?"+query)
		},
		genPolicy(),
		genPath(),
		gen.RegexMatch(`^[a-z]{1,5}=[a-z0-9]{1,5}$`),
	))

	// Property: the root never gains or loses a slash
	properties.Property("root special-cased", prop.ForAll(
		func(policy Policy) bool {
			return policy.Normalize("/") == "/"
		},
		genPolicy(),
	))

	// Property: toggling twice is the identity on normalized paths
	properties.Property("toggle involution", prop.ForAll(
		func(policy Policy, path string) bool {
			normalized := policy.Normalize(path)
			return policy.ToggleTrailingSlash(policy.ToggleTrailingSlash(normalized)) == normalized
		},
		genPolicy(),
		genPath(),
	))

	properties.TestingRun(t)
}

// TestResolutionProperties tests resolver properties over generated tables
func TestResolutionProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: resolution terminates and is deterministic for any path
	properties.Property("resolve total and deterministic", prop.ForAll(
		func(policy Policy, sources []string, dest string, probe string) bool {
			rules := make([]Rule, 0, len(sources))
			for _, source := range sources {
				if source == dest {
					continue
				}
				rules = append(rules, Rule{Sources: []string{source}, Destination: dest})
			}

			table, err := NewBuilder(policy).Add(rules...).Build()
			if err != nil {
				// Generated rules may legitimately conflict; nothing to
				// check against a rejected table.
				return true
			}

			resolver := NewResolver(table)
			res1, ok1 := resolver.Resolve(probe)
			res2, ok2 := resolver.Resolve(probe)
			return ok1 == ok2 && res1 == res2
		},
		genPolicy(),
		gen.SliceOfN(4, genPath()),
		genPath(),
		genPath(),
	))

	// Property: every built table is a function over sources
	properties.Property("functional mapping", prop.ForAll(
		func(policy Policy, sources []string, dest string) bool {
			rules := make([]Rule, 0, len(sources))
			for _, source := range sources {
				if source == dest {
					continue
				}
				rules = append(rules, Rule{Sources: []string{source}, Destination: dest})
			}

			table, err := NewBuilder(policy).Add(rules...).Build()
			if err != nil {
				return true
			}

			seen := make(map[string]string)
			for _, entry := range table.Entries() {
				if existing, ok := seen[entry.Source]; ok && existing != entry.Destination {
					return false
				}
				seen[entry.Source] = entry.Destination
			}
			return true
		},
		genPolicy(),
		gen.SliceOfN(4, genPath()),
		genPath(),
	))

	// Property: a destination never resolves as a redirect source when the
	// rules only map sources onto one destination outside the source set
	properties.Property("destination stays canonical", prop.ForAll(
		func(policy Policy, source string, dest string) bool {
			if source == dest {
				return true
			}
			table, err := NewBuilder(policy).
				Add(Rule{Sources: []string{source}, Destination: dest}).
				Build()
			if err != nil {
				return true
			}

			_, redirected := NewResolver(table).Resolve(dest)
			return !redirected
		},
		genPolicy(),
		genPath(),
		genPath(),
	))

	properties.TestingRun(t)
}
