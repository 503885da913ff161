// Package command parses inbound chat text into structured invocations and
// resolves their arguments against the query catalog's tiered defaults.
package command

import (
	"regexp"
	"strings"

	"github.com/forumbot/statsbot/pkg/models"
)

// Parser recognizes invocations addressed to the bot by name. It is a pure
// function of the message text and holds no mutable state.
type Parser struct {
	command *regexp.Regexp
	help    *regexp.Regexp
}

// NewParser builds a parser anchored to the bot's own mention name.
func NewParser(botName string) *Parser {
	name := regexp.QuoteMeta(botName)
	return &Parser{
		command: regexp.MustCompile(
			`(?i)@` + name + `\b(?P<type>\s+(?:graph|table))?\s+(?P<name>\w+)(?P<args>(?:\s+\S+)*)`),
		help: regexp.MustCompile(`(?i)@` + name + `\s+list(?:\s+queries)?\b`),
	}
}

// Parse extracts a command from the message text, or returns nil when the
// text carries no invocation.
func (p *Parser) Parse(text string) *models.ParsedCommand {
	m := p.command.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	cmd := &models.ParsedCommand{
		Output:  models.OutputChart,
		Name:    strings.ToLower(m[p.command.SubexpIndex("name")]),
		RawArgs: strings.TrimSpace(m[p.command.SubexpIndex("args")]),
	}
	if typ := strings.TrimSpace(m[p.command.SubexpIndex("type")]); strings.EqualFold(typ, "table") {
		cmd.Output = models.OutputTable
	}
	return cmd
}

// MatchesHelp reports whether the text is a help invocation
// ("@bot list" or "@bot list queries"). Checked only after a full parse
// fails to resolve to a catalog entry.
func (p *Parser) MatchesHelp(text string) bool {
	return p.help.MatchString(text)
}
