package emit

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// VerifyStub parses an emitted stub file and checks that it is well-formed
// HTML carrying a meta refresh and canonical link pointing at wantDest. Run
// after emission so a rendering regression fails the build instead of
// shipping a stub that strands visitors.
func VerifyStub(filePath, wantDest string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read stub %s: %w", filePath, err)
	}

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("stub %s is not parseable HTML: %w", filePath, err)
	}

	var refreshDest, canonicalDest string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if attr(n, "http-equiv") == "refresh" {
					refreshDest = refreshTarget(attr(n, "content"))
				}
			case "link":
				if attr(n, "rel") == "canonical" {
					canonicalDest = attr(n, "href")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if refreshDest != wantDest {
		return fmt.Errorf("stub %s meta refresh targets %q, want %q", filePath, refreshDest, wantDest)
	}
	if canonicalDest != wantDest {
		return fmt.Errorf("stub %s canonical link targets %q, want %q", filePath, canonicalDest, wantDest)
	}

	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// refreshTarget extracts the url from a meta refresh content value like
// "0; url=/docs/guide".
func refreshTarget(content string) string {
	for _, part := range strings.Split(content, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "url=") {
			return part[len("url="):]
		}
	}
	return ""
}
