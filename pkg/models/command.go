package models

import "strings"

// OutputType selects the reply representation for an invocation.
type OutputType string

const (
	// OutputChart renders the result through the chart service. This is the
	// default when the caller gives no explicit type token.
	OutputChart OutputType = "chart"

	// OutputTable renders the result as a fenced text table.
	OutputTable OutputType = "table"
)

// ParsedCommand is the structured form of one inbound invocation. It is
// constructed per message and discarded once the reply is produced.
type ParsedCommand struct {
	Output OutputType

	// Name is the requested query name, lower-cased for catalog lookup.
	Name string

	// RawArgs is the unparsed trailing argument text, empty when the caller
	// supplied no arguments.
	RawArgs string
}

// ResolvedInvocation pairs a parsed command with its matched catalog entry
// and the final resolved argument list.
type ResolvedInvocation struct {
	Output OutputType

	// Query references (does not copy) the matched catalog entry.
	Query *QueryDefinition

	// Args are bound positionally to the query's SQL parameters. Length
	// always equals the active default tier's length.
	Args []string
}

// Display is the human-readable echo of the invocation included in every
// reply: the query name and resolved arguments joined by spaces.
func (r *ResolvedInvocation) Display() string {
	return strings.TrimRight(r.Query.Name+" "+strings.Join(r.Args, " "), " ")
}
