// Package sequence models the per-tenant counters that number receiving orders.
package sequence

import (
	"fmt"
	"strconv"

	"receiving/internal/pkg/errs"
)

// InitialValue is the value a counter is created with; the first identifier
// handed out is its successor.
const InitialValue = "0"

// Counter is the numbering state of one tenant. The current value is kept as a
// numeric string so that it round-trips untouched through persistence.
type Counter struct {
	name    string
	prefix  string
	current string
}

// RestoreCounter rebuilds a counter from persistence.
func RestoreCounter(name, prefix, current string) *Counter {
	return &Counter{name: name, prefix: prefix, current: current}
}

func (c *Counter) Name() string    { return c.name }
func (c *Counter) Prefix() string  { return c.prefix }
func (c *Counter) Current() string { return c.current }

// Increment parses the current value and advances it by one.
func (c *Counter) Increment() error {
	n, err := strconv.ParseUint(c.current, 10, 64)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("sequence "+c.name, fmt.Errorf("current value %q: %w", c.current, err))
	}
	c.current = strconv.FormatUint(n+1, 10)
	return nil
}

// Identifier is the business id for the current value.
func (c *Counter) Identifier() string {
	return c.prefix + c.current
}
