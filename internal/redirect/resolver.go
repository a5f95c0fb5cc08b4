package redirect

// Resolution is the outcome of resolving an inbound path against the table.
type Resolution struct {
	Destination string
	Permanent   bool
}

// Resolver answers request-time lookups against a published table. It is
// stateless and side-effect-free per call: the table it reads is immutable,
// so a single Resolver may be shared across arbitrarily many request-handling
// goroutines without synchronization.
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over a built table.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve normalizes path and looks it up in the table, following at most one
// additional hop. Query strings and fragments take no part in matching; an
// inbound suffix is carried over to the destination verbatim. It returns
// ok=false when the path is already canonical or unknown. A validated table
// is finite and cycle-free by construction, so the request-time path has no
// error branch beyond "not found".
func (r *Resolver) Resolve(path string) (Resolution, bool) {
	policy := r.table.Policy()
	path, suffix := splitPathSuffix(path)

	dest, ok := r.table.Lookup(policy.Normalize(path))
	if !ok {
		return Resolution{}, false
	}

	// Re-normalize defensively before the second lookup in case the table
	// was built under a different policy revision.
	dest = policy.Normalize(dest)
	if next, ok := r.table.Lookup(dest); ok {
		dest = policy.Normalize(next)
	}

	return Resolution{Destination: dest + suffix, Permanent: true}, true
}
