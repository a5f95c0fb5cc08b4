package errors

import (
	"fmt"
	"sync"
)

// Collector accumulates validation errors so one run can report every
// authoring mistake instead of stopping at the first.
type Collector struct {
	errors []*RedirectError
	mutex  sync.RWMutex
}

// NewCollector creates a new error collector.
func NewCollector() *Collector {
	return &Collector{
		errors: make([]*RedirectError, 0),
	}
}

// Add records a validation error. Nil errors are ignored.
func (c *Collector) Add(err *RedirectError) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = append(c.errors, err)
}

// HasErrors returns true if any errors were collected.
func (c *Collector) HasErrors() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.errors) > 0
}

// Errors returns a copy of all collected errors.
func (c *Collector) Errors() []*RedirectError {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]*RedirectError, len(c.errors))
	copy(result, c.errors)
	return result
}

// ByCode returns the collected errors carrying the given code.
func (c *Collector) ByCode(code string) []*RedirectError {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	var matched []*RedirectError
	for _, err := range c.errors {
		if err.Code == code {
			matched = append(matched, err)
		}
	}
	return matched
}

// Err folds the collection into a single error, or nil when empty. The first
// error is returned verbatim so errors.Is still matches it; additional errors
// are summarized in the message.
func (c *Collector) Err() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return fmt.Errorf("%w (and %d more validation errors)", c.errors[0], len(c.errors)-1)
	}
}
