package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forumbot/statsbot/pkg/chart"
	"github.com/forumbot/statsbot/pkg/models"
)

// asOf is a Tuesday; the footer format is locked to GMT.
var asOf = time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)

type mockChartService struct {
	submission *chart.Submission
	ref        *chart.Reference
	err        error
}

func (m *mockChartService) Submit(_ context.Context, sub *chart.Submission) (*chart.Reference, error) {
	m.submission = sub
	if m.err != nil {
		return nil, m.err
	}
	return m.ref, nil
}

func chartedQuery() *models.QueryDefinition {
	return &models.QueryDefinition{
		Name:       "posts_per_day",
		SQL:        "SELECT day AS d, posts AS c FROM daily_posts WHERE day > now() - ($1 || ' days')::interval",
		TrustLevel: 0,
		Defaults:   map[int][]string{0: {"30"}},
		Chart: &models.ChartSpec{
			Data: []map[string]any{
				{"x": "d", "y": "c", "type": "scatter", "text": "%c% posts"},
			},
			Layout:   map[string]any{"title": "Posts per day"},
			Filename: "posts-per-day-%date%-%1%",
		},
	}
}

func twoDayResult() *models.ResultSet {
	return &models.ResultSet{
		Columns: []string{"d", "c"},
		Rows: []models.Row{
			{models.TimestampValue(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), models.IntegerValue(5)},
			{models.TimestampValue(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)), models.IntegerValue(8)},
		},
	}
}

func TestScrubSQL(t *testing.T) {
	sqlText := "SELECT 1 WHERE tag <> 'c09fa970-5a9a-11e4-8ed6-0800200c9a66'"
	scrubbed := ScrubSQL(sqlText)
	assert.NotContains(t, scrubbed, ExclusionMarker)
	assert.Contains(t, scrubbed, "[Magic Exclusion UUID]")
}

func TestTable_WithRows(t *testing.T) {
	inv := &models.ResolvedInvocation{
		Output: models.OutputTable,
		Query: &models.QueryDefinition{
			Name: "active_users",
			SQL:  "SELECT username, visits FROM user_visits -- c09fa970-5a9a-11e4-8ed6-0800200c9a66",
		},
		Args: []string{"7"},
	}
	rs := &models.ResultSet{
		Columns: []string{"username", "visits"},
		Rows: []models.Row{
			{models.TextValue("alice"), models.NumberValue(12)},
		},
	}

	got := Table(inv, rs, asOf)
	want := "\n```\n" +
		"active_users 7\n" +
		"\n" +
		"SELECT username, visits FROM user_visits -- [Magic Exclusion UUID]\n" +
		"\n" +
		"username\t| visits\n" +
		"alice\t| 12\n" +
		"\n" +
		"Backup Date: Tue, 05 Mar 2024 13:45:00 GMT\n" +
		"```\n"
	assert.Equal(t, want, got)
}

func TestTable_NoRows(t *testing.T) {
	inv := &models.ResolvedInvocation{
		Query: &models.QueryDefinition{Name: "active_users", SQL: "SELECT 1"},
		Args:  []string{"7"},
	}

	got := Table(inv, &models.ResultSet{Columns: []string{"username"}}, asOf)
	assert.Contains(t, got, "No Results Found")
	assert.NotContains(t, got, "username\t|")
}

func TestReply_FormatSelection(t *testing.T) {
	svc := &mockChartService{ref: &chart.Reference{URL: "https://plot.ly/~bot/9"}}
	r := NewRenderer(svc, zap.NewNop())
	post := &models.Post{Username: "alice"}

	oneRow := &models.ResultSet{
		Columns: []string{"d", "c"},
		Rows:    []models.Row{{models.TextValue("x"), models.NumberValue(1)}},
	}

	tests := []struct {
		name      string
		inv       *models.ResolvedInvocation
		rs        *models.ResultSet
		wantChart bool
	}{
		{
			name:      "no chart spec renders table",
			inv:       &models.ResolvedInvocation{Output: models.OutputChart, Query: &models.QueryDefinition{Name: "plain", SQL: "SELECT 1"}},
			rs:        twoDayResult(),
			wantChart: false,
		},
		{
			name:      "zero rows renders table",
			inv:       &models.ResolvedInvocation{Output: models.OutputChart, Query: chartedQuery(), Args: []string{"30"}},
			rs:        &models.ResultSet{Columns: []string{"d", "c"}},
			wantChart: false,
		},
		{
			name:      "single row renders table",
			inv:       &models.ResolvedInvocation{Output: models.OutputChart, Query: chartedQuery(), Args: []string{"30"}},
			rs:        oneRow,
			wantChart: false,
		},
		{
			name:      "explicit table request wins over chart spec",
			inv:       &models.ResolvedInvocation{Output: models.OutputTable, Query: chartedQuery(), Args: []string{"30"}},
			rs:        twoDayResult(),
			wantChart: false,
		},
		{
			name:      "chart spec with enough rows renders chart",
			inv:       &models.ResolvedInvocation{Output: models.OutputChart, Query: chartedQuery(), Args: []string{"30"}},
			rs:        twoDayResult(),
			wantChart: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.submission = nil
			body, err := r.Reply(context.Background(), tt.inv, post, tt.rs, asOf)
			require.NoError(t, err)
			if tt.wantChart {
				assert.NotNil(t, svc.submission, "chart path must submit to the chart service")
				assert.Contains(t, body, "Click for interactive graph")
			} else {
				assert.Nil(t, svc.submission, "table path must not touch the chart service")
				assert.True(t, strings.HasPrefix(body, "\n```\n"))
			}
		})
	}
}

func TestChartReply_ExpandsAndSubmits(t *testing.T) {
	svc := &mockChartService{ref: &chart.Reference{URL: "https://plot.ly/~bot/9"}}
	r := NewRenderer(svc, zap.NewNop())
	query := chartedQuery()
	inv := &models.ResolvedInvocation{Output: models.OutputChart, Query: query, Args: []string{"30"}}
	post := &models.Post{Username: "alice"}

	body, err := r.Reply(context.Background(), inv, post, twoDayResult(), asOf)
	require.NoError(t, err)

	sub := svc.submission
	require.NotNil(t, sub)
	assert.Equal(t, "posts-per-day-2024-03-05-30", sub.Filename)
	assert.Equal(t, chart.FileOptOverwrite, sub.FileOpt)
	assert.Equal(t, map[string]any{"title": "Posts per day"}, sub.Layout)

	require.Len(t, sub.Data, 1)
	trace := sub.Data[0]
	assert.Equal(t, "scatter", trace["type"])
	assert.Equal(t, []any{"2024-03-01T00:00:00Z", "2024-03-02T00:00:00Z"}, trace["x"])
	assert.Equal(t, []any{int64(5), int64(8)}, trace["y"])
	assert.Equal(t, []string{"5 posts", "8 posts"}, trace["text"])

	// The catalog's own trace data must stay untouched for the next caller.
	assert.Equal(t, "d", query.Chart.Data[0]["x"])
	assert.Equal(t, "%c% posts", query.Chart.Data[0]["text"])

	assert.Contains(t, body, "posts_per_day 30")
	assert.Contains(t, body, "Backup Date: Tue, 05 Mar 2024 13:45:00 GMT")
	assert.Contains(t, body, `<img src="https://plot.ly/~bot/9.svg" height="500" width="700" />`)
	assert.Contains(t, body, "](https://plot.ly/~bot/9)")
}

func TestChartReply_SubmissionFailure(t *testing.T) {
	svc := &mockChartService{err: errors.New("service unavailable")}
	r := NewRenderer(svc, zap.NewNop())
	inv := &models.ResolvedInvocation{Output: models.OutputChart, Query: chartedQuery(), Args: []string{"30"}}

	_, err := r.Reply(context.Background(), inv, &models.Post{Username: "alice"}, twoDayResult(), asOf)
	require.Error(t, err)
}

func TestListing(t *testing.T) {
	defs := []*models.QueryDefinition{
		{
			Name:       "active_users",
			SQL:        "SELECT 1",
			TrustLevel: 0,
			Defaults:   map[int][]string{0: {"7"}},
		},
		{
			Name:       "top_posters",
			SQL:        "SELECT 2",
			TrustLevel: 2,
			Defaults:   map[int][]string{1: {"30", "likes"}},
		},
	}

	got := Listing(defs)
	assert.True(t, strings.HasPrefix(got, "```text\n"))
	assert.True(t, strings.HasSuffix(got, "\n```"))
	assert.Contains(t, got, "Available queries:")
	assert.Contains(t, got, "active_users '7':\tAvailable to trust level 0+")
	assert.Contains(t, got, "top_posters '30' 'likes':\tAvailable to trust level 2+")
}
