// Package render converts a resolved invocation and its result set into the
// reply body posted back to the caller.
package render

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/forumbot/statsbot/pkg/chart"
	"github.com/forumbot/statsbot/pkg/models"
)

// ExclusionMarker is the fixed UUID operators embed in curated SQL to mark
// conditions that must never leak to users. Any echoed query text has it
// scrubbed.
const ExclusionMarker = "c09fa970-5a9a-11e4-8ed6-0800200c9a66"

// exclusionLabel replaces the marker in user-visible SQL.
const exclusionLabel = "[Magic Exclusion UUID]"

// backupDateLayout renders the as-of date the way the transport's readers
// expect it: fixed, locale-independent, always GMT.
const backupDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Renderer produces reply payloads. Chart submission goes through the
// external chart service; everything else is pure string assembly.
type Renderer struct {
	charts chart.Service
	logger *zap.Logger
}

// NewRenderer creates a Renderer backed by the given chart service.
func NewRenderer(charts chart.Service, logger *zap.Logger) *Renderer {
	return &Renderer{
		charts: charts,
		logger: logger.Named("render"),
	}
}

// Reply renders the invocation's result. Selection policy, in order: a query
// without a chart spec, a result under two rows, or an explicit table
// request renders as a table; everything else renders as a chart.
func (r *Renderer) Reply(ctx context.Context, inv *models.ResolvedInvocation, post *models.Post, rs *models.ResultSet, asOf time.Time) (string, error) {
	if inv.Query.Chart == nil || rs.Len() < 2 || inv.Output == models.OutputTable {
		return Table(inv, rs, asOf), nil
	}
	return r.chartReply(ctx, inv, post, rs, asOf)
}

// ScrubSQL redacts the exclusion marker from echoed query text.
func ScrubSQL(sqlText string) string {
	return strings.ReplaceAll(sqlText, ExclusionMarker, exclusionLabel)
}

// headerLines is the block common to table and chart replies: the invocation
// echo, a blank line, the scrubbed SQL and another blank line.
func headerLines(inv *models.ResolvedInvocation) []string {
	return []string{inv.Display(), "", ScrubSQL(inv.Query.SQL), ""}
}

func fence(lines []string) string {
	return "\n```\n" + strings.Join(lines, "\n") + "\n```\n"
}

func formatBackupDate(asOf time.Time) string {
	return "Backup Date: " + asOf.UTC().Format(backupDateLayout)
}
