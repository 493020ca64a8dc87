package conn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"schema-deploy/internal/fault"
)

// RESTTable is the restricted variant: a row API (PostgREST style) that can
// select from named tables but has no way to run DDL.
type RESTTable struct {
	base   string
	apiKey string
	client *http.Client
}

var _ Target = (*RESTTable)(nil)

func NewRESTTable(endpoint, path, apiKey string, timeout time.Duration) *RESTTable {
	return &RESTTable{
		base:   strings.TrimRight(endpoint, "/") + "/" + strings.Trim(path, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (t *RESTTable) CanExecRaw() bool {
	return false
}

func (t *RESTTable) ExecRaw(context.Context, string) error {
	return fault.New(fault.Capability, ErrRawSQLUnsupported)
}

// apiError is the error body the row API sends with non-2xx responses.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (t *RESTTable) get(ctx context.Context, path string, query url.Values, header http.Header) (*http.Response, error) {
	u := t.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", t.apiKey)
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var ae apiError
	if json.Unmarshal(body, &ae) == nil && ae.Message != "" {
		msg := fmt.Sprintf("GET %s: %s: %s", path, resp.Status, ae.Message)
		if ae.Code != "" {
			msg += " (" + ae.Code + ")"
		}
		if ae.Hint != "" {
			msg += "; hint: " + ae.Hint
		}
		return nil, errors.New(msg)
	}
	return nil, fmt.Errorf("GET %s: %s", path, resp.Status)
}

// Tables lists the tables the API exposes, from its OpenAPI description.
func (t *RESTTable) Tables(ctx context.Context) ([]string, error) {
	resp, err := t.get(ctx, "/", nil, http.Header{"Accept": {"application/openapi+json"}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var doc struct {
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode API description: %w", err)
	}

	tables := make([]string, 0, len(doc.Definitions))
	for name := range doc.Definitions {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	return tables, nil
}

// CountRows asks for an exact count and reads the total from Content-Range.
func (t *RESTTable) CountRows(ctx context.Context, table string) (int64, error) {
	resp, err := t.get(ctx, "/"+url.PathEscape(table), url.Values{"select": {"*"}, "limit": {"1"}},
		http.Header{"Prefer": {"count=exact"}})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return parseContentRangeTotal(resp.Header.Get("Content-Range"))
}

func (t *RESTTable) FirstRow(ctx context.Context, table string, cols []string) (Row, error) {
	resp, err := t.get(ctx, "/"+url.PathEscape(table), url.Values{"select": {strings.Join(cols, ",")}, "limit": {"1"}}, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows from %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := make(Row, len(cols))
	for _, c := range cols {
		row[c] = rows[0][c]
	}
	return row, nil
}

// Close drops idle keep-alive connections; the API holds no session.
func (t *RESTTable) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// parseContentRangeTotal reads N from "0-0/N" or "*/N".
func parseContentRangeTotal(h string) (int64, error) {
	_, total, ok := strings.Cut(h, "/")
	if !ok || total == "*" {
		return 0, fmt.Errorf("response has no row total (Content-Range %q)", h)
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid Content-Range %q: %w", h, err)
	}
	return n, nil
}
