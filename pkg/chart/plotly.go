// Package chart submits rendered chart payloads to the Plotly REST API and
// returns a reference to the hosted chart.
package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/forumbot/statsbot/pkg/apperrors"
	"github.com/forumbot/statsbot/pkg/retry"
)

// FileOptOverwrite replaces the hosted chart in place so repeated
// invocations of the same query reuse one Plotly file.
const FileOptOverwrite = "overwrite"

// Submission is one chart payload: expanded traces, pass-through layout and
// the target filename.
type Submission struct {
	Data     []map[string]any
	Layout   map[string]any
	Filename string
	FileOpt  string
}

// Reference points at a hosted chart.
type Reference struct {
	URL      string
	Filename string
}

// Service renders chart submissions externally.
type Service interface {
	Submit(ctx context.Context, sub *Submission) (*Reference, error)
}

// PlotlyClient talks to the Plotly clientresp endpoint.
type PlotlyClient struct {
	baseURL  string
	username string
	apiKey   string
	httpc    *http.Client
	retryCfg *retry.Config
	logger   *zap.Logger
}

// NewPlotlyClient creates a client for the Plotly API at baseURL
// (normally https://plot.ly).
func NewPlotlyClient(baseURL, username, apiKey string, logger *zap.Logger) *PlotlyClient {
	return &PlotlyClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		retryCfg: retry.DefaultConfig(),
		logger:   logger.Named("plotly"),
	}
}

var _ Service = (*PlotlyClient)(nil)

// clientResp is the wire shape of a clientresp reply.
type clientResp struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
	Warning  string `json:"warning"`
	Error    string `json:"error"`
}

// Submit posts the chart payload. Transport failures and 5xx responses are
// retried with backoff; an API-level rejection is terminal.
func (c *PlotlyClient) Submit(ctx context.Context, sub *Submission) (*Reference, error) {
	form, err := c.encodeForm(sub)
	if err != nil {
		return nil, err
	}

	body, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]byte, error) {
		return c.post(ctx, form)
	})
	if err != nil {
		return nil, fmt.Errorf("submit chart: %w", err)
	}

	var resp clientResp
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrChartRejected, resp.Error)
	}
	if resp.Warning != "" {
		c.logger.Warn("Chart service warning",
			zap.String("filename", sub.Filename),
			zap.String("warning", resp.Warning))
	}

	return &Reference{URL: resp.URL, Filename: resp.Filename}, nil
}

func (c *PlotlyClient) encodeForm(sub *Submission) (url.Values, error) {
	args, err := json.Marshal(sub.Data)
	if err != nil {
		return nil, fmt.Errorf("encode chart data: %w", err)
	}

	fileOpt := sub.FileOpt
	if fileOpt == "" {
		fileOpt = FileOptOverwrite
	}
	kwargs, err := json.Marshal(map[string]any{
		"filename": sub.Filename,
		"fileopt":  fileOpt,
		"layout":   sub.Layout,
	})
	if err != nil {
		return nil, fmt.Errorf("encode chart layout: %w", err)
	}

	return url.Values{
		"un":       {c.username},
		"key":      {c.apiKey},
		"origin":   {"plot"},
		"platform": {"statsbot"},
		"args":     {string(args)},
		"kwargs":   {string(kwargs)},
	}, nil
}

func (c *PlotlyClient) post(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/clientresp", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build chart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post chart: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chart response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("chart service returned status %d", resp.StatusCode)
		// Client errors will not get better on a second attempt.
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}
	return body, nil
}
