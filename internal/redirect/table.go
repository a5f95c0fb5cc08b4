package redirect

import (
	"sort"

	"github.com/suites-dev/docroute/internal/errors"
)

// Entry is one row of the built table: a source path mapped to its
// destination. Every entry is a permanent redirect; these are structural URL
// reorganizations, not temporary routing.
type Entry struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Permanent   bool   `json:"permanent" yaml:"permanent"`
}

// Table is the validated, immutable redirect mapping. It is built once per
// deploy and may be read concurrently without synchronization afterwards.
type Table struct {
	entries map[string]string
	order   []string
	policy  Policy
}

// Policy returns the canonical path policy the table was built under.
func (t *Table) Policy() Policy {
	return t.policy
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the destination mapped to the exact source key, without
// normalization or hop-following.
func (t *Table) Lookup(source string) (string, bool) {
	dest, ok := t.entries[source]
	return dest, ok
}

// Entries returns the table rows sorted by source, so emitted artifacts are
// reproducible across builds.
func (t *Table) Entries() []Entry {
	sources := make([]string, len(t.order))
	copy(sources, t.order)
	sort.Strings(sources)

	entries := make([]Entry, 0, len(sources))
	for _, source := range sources {
		entries = append(entries, Entry{
			Source:      source,
			Destination: t.entries[source],
			Permanent:   true,
		})
	}
	return entries
}

// RouteSet is the finished set of canonical routes the build pipeline will
// emit, consulted for the shadow check.
type RouteSet interface {
	Contains(path string) bool
}

// Builder assembles a Table from authored rules under a canonical path
// policy. Validation errors accumulate in the collector so a single build
// reports every authoring mistake.
type Builder struct {
	policy    Policy
	rules     []Rule
	routes    RouteSet
	collector *errors.Collector
}

// NewBuilder creates a table builder for the given policy.
func NewBuilder(policy Policy) *Builder {
	return &Builder{
		policy:    policy,
		collector: errors.NewCollector(),
	}
}

// WithRoutes supplies the canonical route set used for the shadow check.
// Without it the check is skipped.
func (b *Builder) WithRoutes(routes RouteSet) *Builder {
	b.routes = routes
	return b
}

// Add appends rules to the builder.
func (b *Builder) Add(rules ...Rule) *Builder {
	b.rules = append(b.rules, rules...)
	return b
}

// Errors returns every validation error recorded so far.
func (b *Builder) Errors() []*errors.RedirectError {
	return b.collector.Errors()
}

// Build expands the rules into the final table. Each rule contributes one
// entry per source plus the complementary trailing-slash variant, both sides
// normalized under the policy. Any validation failure aborts the build: the
// returned table is nil and Errors holds the full report.
func (b *Builder) Build() (*Table, error) {
	table := &Table{
		entries: make(map[string]string),
		policy:  b.policy,
	}

	for _, rule := range b.rules {
		if err := rule.Validate(); err != nil {
			b.collector.Add(err)
			continue
		}

		dest := b.policy.Normalize(rule.Destination)
		for _, rawSource := range rule.Sources {
			source := b.policy.Normalize(rawSource)
			if source == dest {
				// Distinct as written, identical once normalized.
				b.collector.Add(errors.NewSelfRedirectError(source))
				continue
			}

			b.insert(table, source, dest)

			// The mirror variant guarantees a request for either slash
			// form of a legacy path redirects, independent of how the
			// rule author wrote it. The root has no mirror.
			if mirror := b.policy.ToggleTrailingSlash(source); mirror != source {
				b.insert(table, mirror, dest)
			}
		}
	}

	b.checkShadows(table)
	b.checkChains(table)

	if b.collector.HasErrors() {
		return nil, b.collector.Err()
	}

	return table, nil
}

// insert records a source -> dest pair, deduplicating identical declarations
// and rejecting conflicting ones.
func (b *Builder) insert(table *Table, source, dest string) {
	if existing, ok := table.entries[source]; ok {
		if existing != dest {
			b.collector.Add(errors.NewConflictingRedirectError(source, existing, dest))
		}
		return
	}
	table.entries[source] = dest
	table.order = append(table.order, source)
}

// checkShadows rejects any source that collides with a real page the build
// pipeline will emit. Redirects must never hide a real document.
func (b *Builder) checkShadows(table *Table) {
	if b.routes == nil {
		return
	}
	// Both slash variants of a source normalize to the same page; report
	// each shadowed page once.
	seen := make(map[string]struct{})
	for _, source := range table.order {
		canonical := b.policy.Normalize(source)
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		if b.routes.Contains(canonical) {
			b.collector.Add(errors.NewShadowsPageError(canonical))
		}
	}
}

// checkChains walks every entry's destination through the table, rejecting
// cycles and chains that would need more than one extra hop. The two-hop
// bound keeps redirect latency and reasoning bounded; longer chains are an
// authoring smell, not a legitimate need.
func (b *Builder) checkChains(table *Table) {
	for _, source := range table.order {
		first := table.entries[source]

		canonical := b.policy.Normalize(source)
		second, ok := table.entries[b.policy.Normalize(first)]
		if !ok {
			continue
		}

		if second == canonical || second == source {
			b.collector.Add(errors.NewRedirectCycleError([]string{source, first, second}))
			continue
		}
		if _, ok := table.entries[b.policy.Normalize(second)]; ok {
			b.collector.Add(errors.NewChainTooLongError([]string{source, first, second}))
		}
	}
}
