// Package routes holds the finished set of canonical routes produced by the
// site build pipeline. The redirect table builder consults it so a redirect
// source can never shadow a real document.
package routes

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/suites-dev/docroute/internal/redirect"
)

// RouteSet is an immutable set of canonical route paths. It is populated
// once, normalized under the site policy, and read-only thereafter.
type RouteSet struct {
	paths  map[string]struct{}
	policy redirect.Policy
	mutex  sync.RWMutex
	sealed bool
}

// NewRouteSet creates an empty route set normalizing under policy.
func NewRouteSet(policy redirect.Policy) *RouteSet {
	return &RouteSet{
		paths:  make(map[string]struct{}),
		policy: policy,
	}
}

// Add registers route paths. Adding to a sealed set is a programming error
// and panics.
func (s *RouteSet) Add(paths ...string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.sealed {
		panic("routes: Add after Seal")
	}
	for _, path := range paths {
		s.paths[s.policy.Normalize(path)] = struct{}{}
	}
}

// Seal marks the set immutable. After Seal, Contains may be called from any
// number of goroutines without synchronization.
func (s *RouteSet) Seal() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sealed = true
}

// Contains reports whether the normalized form of path is a real route.
func (s *RouteSet) Contains(path string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, ok := s.paths[s.policy.Normalize(path)]
	return ok
}

// Len returns the number of routes in the set.
func (s *RouteSet) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.paths)
}

// manifest is the on-disk shape the build pipeline hands over: a flat list
// of every document route it will emit.
type manifest struct {
	Routes []string `json:"routes" yaml:"routes"`
}

// LoadManifest reads a route manifest file. JSON and YAML manifests are both
// accepted; the format is chosen by file extension.
func LoadManifest(path string, policy redirect.Policy) (*RouteSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes manifest: %w", err)
	}

	var m manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse routes manifest %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse routes manifest %s: %w", path, err)
		}
	}

	set := NewRouteSet(policy)
	set.Add(m.Routes...)
	set.Seal()
	return set, nil
}

// ScanSiteDir walks a built site directory and derives the route for every
// emitted HTML document: `guide/index.html` serves `/guide`, `about.html`
// serves `/about`. Useful when the build pipeline does not hand over a
// manifest.
func ScanSiteDir(dir string, policy redirect.Policy) (*RouteSet, error) {
	set := NewRouteSet(policy)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		route := "/" + filepath.ToSlash(rel)
		route = strings.TrimSuffix(route, ".html")
		route = strings.TrimSuffix(route, "/index")
		if route == "/index" || route == "" {
			route = "/"
		}

		set.Add(route)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan site directory %s: %w", dir, err)
	}

	set.Seal()
	return set, nil
}
