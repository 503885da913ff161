// Package catalog holds the reloadable collection of named query
// definitions the engine serves.
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/forumbot/statsbot/pkg/models"
)

// Catalog is an immutable snapshot of the query definitions loaded from one
// catalog document. Snapshots are replaced wholesale on reload, never
// mutated.
type Catalog struct {
	byName  map[string]*models.QueryDefinition
	ordered []*models.QueryDefinition
}

var selfRefPattern = regexp.MustCompile(`^%(\w+)%$`)

// Parse decodes a YAML catalog document and validates every entry. Names
// must be unique case-insensitively, and %field% self-reference defaults must
// name an allow-listed post field so typos fail at load time instead of
// resolving to nothing at invocation time.
func Parse(doc []byte) (*Catalog, error) {
	var defs []*models.QueryDefinition
	if err := yaml.Unmarshal(doc, &defs); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	c := &Catalog{byName: make(map[string]*models.QueryDefinition, len(defs))}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}
		key := strings.ToLower(def.Name)
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("duplicate query name %q", def.Name)
		}
		if err := validateSelfRefs(def); err != nil {
			return nil, err
		}
		c.byName[key] = def
		c.ordered = append(c.ordered, def)
	}
	return c, nil
}

func validateSelfRefs(def *models.QueryDefinition) error {
	for tier, defaults := range def.Defaults {
		for _, value := range defaults {
			m := selfRefPattern.FindStringSubmatch(value)
			if m == nil {
				continue
			}
			if !models.KnownField(m[1]) {
				return fmt.Errorf("query %q tier %d default %q references unknown post field %q",
					def.Name, tier, value, m[1])
			}
		}
	}
	return nil
}

// Lookup finds a definition by case-insensitive name.
func (c *Catalog) Lookup(name string) (*models.QueryDefinition, bool) {
	def, ok := c.byName[strings.ToLower(name)]
	return def, ok
}

// List returns the definitions in document order, for the help listing.
func (c *Catalog) List() []*models.QueryDefinition {
	return c.ordered
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
