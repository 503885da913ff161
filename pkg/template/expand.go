// Package template implements %word% placeholder expansion for output
// filenames and chart text templates.
package template

import (
	"strconv"
	"strings"
	"time"

	"github.com/forumbot/statsbot/pkg/models"
)

// Resolver maps a placeholder name to its replacement. Returning ok=false
// leaves the placeholder in the output as literal text.
type Resolver func(name string) (string, bool)

// Expand performs a single left-to-right pass over tmpl, replacing every
// %word% placeholder through resolve. Replacements are not re-scanned, so a
// resolved value containing percent signs stays inert. The closing delimiter
// of an unresolved placeholder may open the next one, which keeps adjacent
// placeholders working.
func Expand(tmpl string, resolve Resolver) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	i := 0
	for i < len(tmpl) {
		open := strings.IndexByte(tmpl[i:], '%')
		if open < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		open += i
		b.WriteString(tmpl[i:open])

		name, width := scanPlaceholder(tmpl[open:])
		if width == 0 {
			b.WriteByte('%')
			i = open + 1
			continue
		}

		value, ok := resolve(name)
		if !ok {
			// Leave literal, but let the closing % start the next match.
			b.WriteByte('%')
			b.WriteString(name)
			i = open + width - 1
			continue
		}
		b.WriteString(value)
		i = open + width
	}
	return b.String()
}

// scanPlaceholder matches %word% at the start of s and returns the inner name
// and the total width consumed including both delimiters. width 0 means no
// placeholder starts here.
func scanPlaceholder(s string) (string, int) {
	if len(s) < 3 || s[0] != '%' {
		return "", 0
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == '%' {
			if i == 1 {
				return "", 0
			}
			return s[1:i], i + 1
		}
		if !isWordByte(c) {
			return "", 0
		}
	}
	return "", 0
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// ExpandFilename expands a chart filename template. %date% becomes the report
// date as YYYY-MM-DD, %username% the invoking user's name, and %N% (1-indexed)
// the N-th resolved argument. A positional reference past the end of args
// expands to nothing; anything else stays literal.
func ExpandFilename(tmpl string, args []string, username string, date time.Time) string {
	return Expand(tmpl, func(name string) (string, bool) {
		switch name {
		case "date":
			return date.Format("2006-01-02"), true
		case "username":
			return username, true
		}
		if n, ok := positionalIndex(name); ok {
			if n <= len(args) {
				return args[n-1], true
			}
			return "", true
		}
		return "", false
	})
}

// positionalIndex parses a 1-indexed positional reference. Leading zeros
// disqualify, matching the catalog grammar.
func positionalIndex(name string) (int, bool) {
	if name == "" || name[0] < '1' || name[0] > '9' {
		return 0, false
	}
	for i := 1; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExpandRowText expands a per-row chart text template: each %column% present
// in the template is replaced, first occurrence only, by that row's value for
// the column. Columns are applied in result order.
func ExpandRowText(tmpl string, columns []string, row models.Row) string {
	out := tmpl
	for i, col := range columns {
		if i >= len(row) {
			break
		}
		out = strings.Replace(out, "%"+col+"%", row[i].String(), 1)
	}
	return out
}
