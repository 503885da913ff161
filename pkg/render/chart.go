package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/forumbot/statsbot/pkg/chart"
	"github.com/forumbot/statsbot/pkg/models"
	"github.com/forumbot/statsbot/pkg/template"
)

// imageTemplate embeds the rendered chart at a fixed size, wrapped as a link
// to the interactive version. %% is the chart URL.
const imageTemplate = `[<img src="%%.svg" height="500" width="700" /><br/>Click for interactive graph.](%%)`

// chartReply expands the query's chart spec against the result set, submits
// it to the chart service and composes the reply around the returned URL.
func (r *Renderer) chartReply(ctx context.Context, inv *models.ResolvedInvocation, post *models.Post, rs *models.ResultSet, asOf time.Time) (string, error) {
	spec := inv.Query.Chart
	filename := template.ExpandFilename(spec.Filename, inv.Args, post.Username, asOf)

	ref, err := r.charts.Submit(ctx, &chart.Submission{
		Data:     expandTraces(spec.Data, rs),
		Layout:   spec.Layout,
		Filename: filename,
		FileOpt:  chart.FileOptOverwrite,
	})
	if err != nil {
		return "", fmt.Errorf("render chart %q: %w", filename, err)
	}

	r.logger.Debug("Chart submitted",
		zap.String("query", inv.Query.Name),
		zap.String("filename", filename),
		zap.String("url", ref.URL))

	lines := append(headerLines(inv), formatBackupDate(asOf))
	return fence(lines) + strings.ReplaceAll(imageTemplate, "%%", ref.URL), nil
}

// expandTraces deep-copies the spec's traces and materializes them against
// the result set: a single-character string value names a result column and
// becomes that column's value from every row; a "text" value is a per-row
// template over %column% placeholders. The catalog's own trace data is never
// mutated.
func expandTraces(traces []map[string]any, rs *models.ResultSet) []map[string]any {
	out := make([]map[string]any, len(traces))
	for i, trace := range traces {
		copied := deepCopyMap(trace)
		for key, val := range copied {
			str, ok := val.(string)
			if !ok {
				continue
			}
			switch {
			case key == "text":
				copied[key] = expandTextColumn(str, rs)
			case len(str) == 1:
				copied[key] = projectColumn(str, rs)
			}
		}
		out[i] = copied
	}
	return out
}

// projectColumn maps every row to the named column's value, in a form the
// chart service's JSON codec handles directly.
func projectColumn(column string, rs *models.ResultSet) []any {
	values := rs.Project(column)
	out := make([]any, len(values))
	for i, v := range values {
		switch v.Kind {
		case models.ValueNumber:
			out[i] = v.Number
		case models.ValueInteger:
			out[i] = v.Integer
		case models.ValueTimestamp:
			out[i] = v.Time.Format(time.RFC3339)
		default:
			out[i] = v.Text
		}
	}
	return out
}

func expandTextColumn(tmpl string, rs *models.ResultSet) []string {
	out := make([]string, len(rs.Rows))
	for i, row := range rs.Rows {
		out[i] = template.ExpandRowText(tmpl, rs.Columns, row)
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return x
	}
}
