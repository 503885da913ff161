package render

import (
	"fmt"
	"strings"

	"github.com/forumbot/statsbot/pkg/models"
)

// Listing renders the help reply: one line per catalog entry showing its
// name, the lowest tier's default arguments quoted, and the trust level it
// requires.
func Listing(defs []*models.QueryDefinition) string {
	lines := []string{"```text", "", "Available queries:"}
	for _, def := range defs {
		lines = append(lines, fmt.Sprintf("%s %s:\tAvailable to trust level %d+",
			def.Name, quoteArgs(def.LowestDefaults()), def.TrustLevel))
	}
	lines = append(lines, "```")
	return strings.Join(lines, "\n")
}

func quoteArgs(args []string) string {
	if len(args) == 0 {
		return "''"
	}
	return "'" + strings.Join(args, "' '") + "'"
}
