package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/olympicsnav/internal/domain/catalog"
	"github.com/okian/olympicsnav/internal/domain/types"
)

// ErrStatus reports a non-2xx response.
var ErrStatus = errors.New("unexpected status")

// Client is a typed client for the navigator API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &e)
		return fmt.Errorf("%w: %s %s: %d %s %s", ErrStatus, method, path, resp.StatusCode, e.Code, e.Message)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Health checks /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

// Options fetches the option lists for season and sport.
func (c *Client) Options(ctx context.Context, season, sport types.Selection) (types.OptionSet, error) {
	q := url.Values{}
	setSelection(q, "season", season)
	setSelection(q, "sport", sport)
	var out types.OptionSet
	err := c.do(ctx, http.MethodGet, "/api/options", q, nil, &out)
	return out, err
}

// Records fetches one window of the records matching state.
func (c *Client) Records(ctx context.Context, state types.FilterState, offset, limit int) (types.ResultPage, error) {
	q := StateQuery(state)
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out types.ResultPage
	err := c.do(ctx, http.MethodGet, "/api/records", q, nil, &out)
	return out, err
}

// Pages fetches the informational pages.
func (c *Client) Pages(ctx context.Context) ([]catalog.RenderedPage, error) {
	var out []catalog.RenderedPage
	err := c.do(ctx, http.MethodGet, "/api/pages", nil, nil, &out)
	return out, err
}

// Page fetches one page by slug.
func (c *Client) Page(ctx context.Context, slug string) (catalog.RenderedPage, error) {
	var out catalog.RenderedPage
	err := c.do(ctx, http.MethodGet, "/api/pages/"+url.PathEscape(slug), nil, nil, &out)
	return out, err
}

// Overview fetches the overview page.
func (c *Client) Overview(ctx context.Context) (catalog.RenderedPage, error) {
	var out catalog.RenderedPage
	err := c.do(ctx, http.MethodGet, "/api/overview", nil, nil, &out)
	return out, err
}

// Citations fetches the data source citations.
func (c *Client) Citations(ctx context.Context) ([]string, error) {
	var out struct {
		Citations []string `json:"citations"`
	}
	err := c.do(ctx, http.MethodGet, "/api/citations", nil, nil, &out)
	return out.Citations, err
}

// Hosts fetches the host-map points.
func (c *Client) Hosts(ctx context.Context) ([]catalog.Point, error) {
	var out []catalog.Point
	err := c.do(ctx, http.MethodGet, "/api/hosts", nil, nil, &out)
	return out, err
}

// StateQuery encodes state as /api/records query parameters. A multi-select
// with nothing selected has no query form and is sent as unconstrained.
func StateQuery(state types.FilterState) url.Values {
	q := url.Values{}
	setSelection(q, "season", state.Season)
	setSelection(q, "sport", state.Sport)
	setSelection(q, "event", state.Event)
	setSelection(q, "year", state.Year)
	setMulti(q, "country", state.Countries)
	setMulti(q, "medal", state.Medals)
	return q
}

func setSelection(q url.Values, key string, s types.Selection) {
	if v, ok := s.Value(); ok {
		q.Set(key, v)
	}
}

func setMulti(q url.Values, key string, m types.MultiSelection) {
	vals := m.Values()
	if m.IncludesAll() {
		if len(vals) == 0 {
			return
		}
		q.Add(key, types.Wildcard)
	}
	for _, v := range vals {
		q.Add(key, v)
	}
}
