// Package emit projects a built redirect table into deployment artifacts:
// client-side redirect stub documents for environments without edge rewrite
// support, and declarative host rule files for the platforms that have it.
// All emitters read the same table, so the projections cannot drift apart.
package emit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/suites-dev/docroute/internal/redirect"
)

// StubEmitter writes one minimal HTML document per table entry that issues a
// client-side navigation to the canonical destination.
type StubEmitter struct {
	outputDir string
	titler    cases.Caser
}

// NewStubEmitter creates a stub emitter writing under outputDir.
func NewStubEmitter(outputDir string) *StubEmitter {
	return &StubEmitter{
		outputDir: outputDir,
		titler:    cases.Title(language.English),
	}
}

// StubArtifact records one emitted stub file and the destination it targets.
type StubArtifact struct {
	Path        string
	Destination string
}

// EmitAll writes a redirect stub for every table entry and returns the
// artifacts written. Slash variants of the same source collapse onto one
// index.html, so the emitter deduplicates by file path.
func (e *StubEmitter) EmitAll(ctx context.Context, table *redirect.Table) ([]StubArtifact, error) {
	written := make([]StubArtifact, 0, table.Len())
	seen := make(map[string]struct{})

	for _, entry := range table.Entries() {
		filePath := e.stubPath(entry.Source)
		if _, ok := seen[filePath]; ok {
			continue
		}
		seen[filePath] = struct{}{}

		if err := e.emitOne(ctx, filePath, entry); err != nil {
			return written, err
		}
		written = append(written, StubArtifact{Path: filePath, Destination: entry.Destination})
	}

	return written, nil
}

func (e *StubEmitter) emitOne(ctx context.Context, filePath string, entry redirect.Entry) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create stub directory: %w", err)
	}

	var buf bytes.Buffer
	component := e.stubDocument(entry)
	if err := component.Render(ctx, &buf); err != nil {
		return fmt.Errorf("failed to render stub for %s: %w", entry.Source, err)
	}

	if err := os.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write stub %s: %w", filePath, err)
	}

	return nil
}

// stubPath maps a source path to the index.html the static host serves for
// it. Both slash variants of a source land on the same file.
func (e *StubEmitter) stubPath(source string) string {
	trimmed := strings.Trim(source, "/")
	if trimmed == "" {
		return filepath.Join(e.outputDir, "index.html")
	}
	return filepath.Join(e.outputDir, filepath.FromSlash(trimmed), "index.html")
}

// stubDocument renders the redirect stub: a canonical link for crawlers, a
// meta refresh for browsers with scripting disabled, and an immediate
// location.replace for the rest.
func (e *StubEmitter) stubDocument(entry redirect.Entry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		dest := templ.EscapeString(entry.Destination)
		title := templ.EscapeString(e.pageTitle(entry.Destination))

		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<link rel="canonical" href="%s">
<meta http-equiv="refresh" content="0; url=%s">
<meta name="robots" content="noindex">
<script>window.location.replace(%q);</script>
</head>
<body>
<p>This page has moved to <a href="%s">%s</a>.</p>
</body>
</html>
`, title, dest, dest, entry.Destination, dest, dest)
		return err
	})
}

// pageTitle derives a readable title from the destination's last path
// segment: "/docs/unit-tests/suites-api" becomes "Suites Api".
func (e *StubEmitter) pageTitle(destination string) string {
	segment := strings.Trim(destination, "/")
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	if segment == "" {
		return "Redirecting"
	}
	return e.titler.String(strings.ReplaceAll(segment, "-", " "))
}
