package redirect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk shape of a redirect declarations file.
type rulesFile struct {
	Redirects []ruleDecl `yaml:"redirects"`
}

// ruleDecl accepts both the single-source shorthand and the full sources
// list, so authors can write `source: /old` for the common case.
type ruleDecl struct {
	Source      string   `yaml:"source"`
	Sources     []string `yaml:"sources"`
	Destination string   `yaml:"destination"`
}

// LoadRules reads redirect rule declarations from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes redirect rule declarations from YAML.
func ParseRules(data []byte) ([]Rule, error) {
	var file rulesFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty declarations file is a valid site with no redirects.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	rules := make([]Rule, 0, len(file.Redirects))
	for _, decl := range file.Redirects {
		sources := decl.Sources
		if decl.Source != "" {
			sources = append([]string{decl.Source}, sources...)
		}
		// A declaration without sources is passed through so the builder
		// reports it alongside every other rule mistake.
		rules = append(rules, Rule{
			Sources:     sources,
			Destination: decl.Destination,
		})
	}

	return rules, nil
}
