// Package models contains domain types for statsbot.
package models

import "fmt"

// QueryDefinition is one entry in the operator-curated query catalog.
type QueryDefinition struct {
	// Name identifies the query. Lookup is case-insensitive; names must be
	// unique within a catalog.
	Name string `yaml:"name"`

	// SQL is the parameterized query text. Parameters are bound by ordinal
	// position ($1, $2, ...).
	SQL string `yaml:"query"`

	// TrustLevel is the minimum caller trust level required to invoke the
	// query. Callers below it see the query as if it did not exist.
	TrustLevel int `yaml:"trust_level"`

	// Defaults maps a trust tier to the ordered default argument list for
	// that tier. Resolution picks the highest tier at or below the caller's
	// trust level. Values of the form %field% are resolved against the
	// invoking post (see Post.Field).
	Defaults map[int][]string `yaml:"defaults"`

	// Chart describes how to plot the result set. Nil means the query only
	// renders as a table.
	Chart *ChartSpec `yaml:"chart,omitempty"`
}

// DefaultsForTrust returns the active default argument list for a caller at
// the given trust level: the first tier defined at or below it, scanning
// downward. A caller with no defined tier gets an empty list.
func (q *QueryDefinition) DefaultsForTrust(trustLevel int) []string {
	for tier := trustLevel; tier >= 0; tier-- {
		if defaults, ok := q.Defaults[tier]; ok {
			out := make([]string, len(defaults))
			copy(out, defaults)
			return out
		}
	}
	return nil
}

// LowestDefaults returns the defaults of the lowest defined tier, used by the
// help listing to show a query's baseline arguments.
func (q *QueryDefinition) LowestDefaults() []string {
	lowest := -1
	for tier := range q.Defaults {
		if lowest == -1 || tier < lowest {
			lowest = tier
		}
	}
	if lowest == -1 {
		return nil
	}
	return q.Defaults[lowest]
}

// ChartSpec describes the chart rendering of a query's result set.
type ChartSpec struct {
	// Data holds the chart traces. A trace value that is a single character
	// names a result column: it is replaced by that column's value from every
	// row. A "text" value is a per-row template over %column% placeholders.
	Data []map[string]any `yaml:"data"`

	// Layout is passed through to the chart service untouched.
	Layout map[string]any `yaml:"layout"`

	// Filename is a template for the rendered chart's target name. It may
	// reference %date%, %username% and 1-indexed positional arguments (%1%).
	Filename string `yaml:"filename"`
}

// Validate checks a definition for catalog admission.
func (q *QueryDefinition) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("query definition missing name")
	}
	if q.SQL == "" {
		return fmt.Errorf("query %q missing sql text", q.Name)
	}
	if q.TrustLevel < 0 {
		return fmt.Errorf("query %q has negative trust level %d", q.Name, q.TrustLevel)
	}
	for tier := range q.Defaults {
		if tier < 0 {
			return fmt.Errorf("query %q has negative default tier %d", q.Name, tier)
		}
	}
	if q.Chart != nil && q.Chart.Filename == "" {
		return fmt.Errorf("query %q chart missing filename", q.Name)
	}
	return nil
}
