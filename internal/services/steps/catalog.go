// -----------------------------------------------------------------------
// Package steps holds the fixed ordered onboarding flow and the pure
// position lookups over it
// -----------------------------------------------------------------------

package steps

import (
	"fmt"

	"github.com/ternarybob/rogo/internal/models"
)

// Catalog is the immutable ordered list of step definitions. Built once
// at startup; every lookup is a pure function of position in the list.
type Catalog struct {
	ordered []models.StepDefinition
	byName  map[string]int
}

// NewCatalog builds a catalog from an ordered definition list. Returns
// an error on duplicate or empty step names so a bad flow fails at
// startup, not mid-conversation.
func NewCatalog(defs []models.StepDefinition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("step catalog requires at least one step")
	}

	index := make(map[string]int, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("step at position %d has no name", i)
		}
		if _, exists := index[def.Name]; exists {
			return nil, fmt.Errorf("duplicate step name: %s", def.Name)
		}
		index[def.Name] = i
	}

	ordered := make([]models.StepDefinition, len(defs))
	copy(ordered, defs)

	return &Catalog{ordered: ordered, byName: index}, nil
}

// First returns the step at position 0.
func (c *Catalog) First() models.StepDefinition {
	return c.ordered[0]
}

// ByName returns the step definition, or false when the name is unknown.
func (c *Catalog) ByName(name string) (models.StepDefinition, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.StepDefinition{}, false
	}
	return c.ordered[i], true
}

// Next returns the step immediately after name, or false when name is
// the last step or unknown.
func (c *Catalog) Next(name string) (models.StepDefinition, bool) {
	i, ok := c.byName[name]
	if !ok || i+1 >= len(c.ordered) {
		return models.StepDefinition{}, false
	}
	return c.ordered[i+1], true
}

// Index returns the zero-based flow position of name.
func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.byName[name]
	return i, ok
}

// IsLast reports whether name is the final step of the flow. Unknown
// names are not last, matching Next returning none for them.
func (c *Catalog) IsLast(name string) bool {
	i, ok := c.byName[name]
	return ok && i == len(c.ordered)-1
}

// Len returns the number of steps in the flow.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// Names returns the step names in flow order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.ordered))
	for i, def := range c.ordered {
		names[i] = def.Name
	}
	return names
}

// RequiredNames returns the names of required steps in flow order.
func (c *Catalog) RequiredNames() []string {
	var names []string
	for _, def := range c.ordered {
		if def.Required {
			names = append(names, def.Name)
		}
	}
	return names
}
