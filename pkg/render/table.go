package render

import (
	"strings"
	"time"

	"github.com/forumbot/statsbot/pkg/models"
)

// columnSeparator joins header and row cells in the text table.
const columnSeparator = "\t| "

// noResults is the body of a table reply for an empty result set.
const noResults = "No Results Found"

// Table renders the invocation's result as a fenced text block: the
// invocation echo, the scrubbed SQL, the column header and one line per row,
// then the backup-date footer.
func Table(inv *models.ResolvedInvocation, rs *models.ResultSet, asOf time.Time) string {
	lines := headerLines(inv)

	if rs == nil || rs.Len() == 0 {
		lines = append(lines, noResults)
	} else {
		lines = append(lines, strings.Join(rs.Columns, columnSeparator))
		for _, row := range rs.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = v.String()
			}
			lines = append(lines, strings.Join(cells, columnSeparator))
		}
	}

	lines = append(lines, "", formatBackupDate(asOf))
	return fence(lines)
}
