package command

import (
	"regexp"
	"strings"

	"github.com/forumbot/statsbot/pkg/models"
)

// DefaultOverrideTrustLevel is the trust level at which callers may replace
// tier defaults with their own argument tokens. Kept as a policy parameter
// rather than buried in the resolution logic; lower-trust callers only ever
// receive operator-curated defaults.
const DefaultOverrideTrustLevel = 4

// selfRefPattern matches a default value that is entirely one %field%
// self-reference placeholder.
var selfRefPattern = regexp.MustCompile(`^%(\w+)%$`)

// Resolver produces the final ordered argument list for an invocation.
type Resolver struct {
	// OverrideTrustLevel gates positional argument overrides.
	OverrideTrustLevel int
}

// NewResolver returns a resolver with the standard override policy.
func NewResolver() *Resolver {
	return &Resolver{OverrideTrustLevel: DefaultOverrideTrustLevel}
}

// Resolve merges the query's tier defaults with caller-supplied tokens.
//
// The active tier is the first default list defined at or below the caller's
// trust level. Callers at or above OverrideTrustLevel overlay their tokens
// positionally onto the active defaults; everyone else gets the defaults
// verbatim, with %field% self-references substituted from the invoking post.
// The resolved length always equals the active tier's length: extra caller
// tokens are dropped, missing ones keep the default.
//
// Trust gating happens before resolution; callers must check
// post.TrustLevel >= query.TrustLevel and treat a failure as an unmatched
// invocation.
func (r *Resolver) Resolve(cmd *models.ParsedCommand, query *models.QueryDefinition, post *models.Post) []string {
	args := query.DefaultsForTrust(post.TrustLevel)
	tokens := tokenize(cmd.RawArgs)

	if post.TrustLevel >= r.OverrideTrustLevel && len(tokens) > 0 {
		for i := 0; i < len(tokens) && i < len(args); i++ {
			args[i] = tokens[i]
		}
		return args
	}

	for i, arg := range args {
		m := selfRefPattern.FindStringSubmatch(arg)
		if m == nil {
			continue
		}
		if value, ok := post.Field(m[1]); ok {
			args[i] = value
		}
	}
	return args
}

func tokenize(raw string) []string {
	return strings.Fields(raw)
}
