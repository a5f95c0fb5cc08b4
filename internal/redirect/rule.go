package redirect

import (
	"github.com/suites-dev/docroute/internal/errors"
)

// Rule is a single authored mapping from one or more legacy paths to one
// canonical destination. Rules are declared once at configuration time and
// are immutable thereafter.
type Rule struct {
	Sources     []string `yaml:"sources" json:"sources"`
	Destination string   `yaml:"destination" json:"destination"`
}

// Validate performs structural validation of a single rule. It is called
// once, at table-build time.
func (r Rule) Validate() *errors.RedirectError {
	if len(r.Sources) == 0 {
		return errors.NewEmptySourceError(r.Destination)
	}

	if err := ValidatePath(r.Destination); err != nil {
		return errors.NewInvalidPathError(r.Destination, err.Error())
	}

	for _, source := range r.Sources {
		if err := ValidatePath(source); err != nil {
			return errors.NewInvalidPathError(source, err.Error())
		}
		if source == r.Destination {
			return errors.NewSelfRedirectError(source)
		}
	}

	return nil
}
