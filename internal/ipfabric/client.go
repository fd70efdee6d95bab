// Package ipfabric reads inventory tables from the IP Fabric API.
package ipfabric

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/agentstation/devicemap/internal/transport"
	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/errors"
)

const provider = "ipfabric"

// Table names used by the importer.
const (
	TablePartNumbers  = "inventory/pn"
	TableModels       = "inventory/summary/models"
	TableFamilies     = "inventory/summary/families"
	TableDevices      = "inventory/devices"
	TableSites        = "inventory/sites"
	TableStackMembers = "platforms/stack/members"
)

// Client queries IP Fabric tables.
type Client struct {
	transport  *transport.Client
	baseURL    string
	pageSize   int
	snapshot   string
	transports []transport.Option
}

// Option configures a Client.
type Option func(*Client)

// WithPageSize sets the pagination limit per request.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithSnapshot selects the snapshot to query ("$last" by default).
func WithSnapshot(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.snapshot = id
		}
	}
}

// WithTransport passes options to the underlying HTTP transport.
func WithTransport(opts ...transport.Option) Option {
	return func(c *Client) {
		c.transports = append(c.transports, opts...)
	}
}

// NewClient creates a client for the API rooted at baseURL
// (for example https://ipfabric.example.com/api/v7.0).
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: constants.DefaultIPFabricPageSize,
		snapshot: constants.DefaultSnapshot,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transport = transport.New(provider, &transport.HeaderAuth{Header: "X-API-Token"}, token, c.transports...)
	return c
}

// Ping verifies that the API answers an authenticated read.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.transport.JSON(ctx, http.MethodGet, c.baseURL+"/snapshots", nil, nil); err != nil {
		return errors.NewConnectivityError(provider, c.baseURL, err)
	}
	return nil
}

type pagination struct {
	Start int `json:"start"`
	Limit int `json:"limit"`
}

type tableRequest struct {
	Columns          []string       `json:"columns"`
	Filters          map[string]any `json:"filters"`
	AttributeFilters map[string]any `json:"attributeFilters"`
	Snapshot         string         `json:"snapshot"`
	Pagination       pagination     `json:"pagination"`
}

type tableResponse struct {
	Data []Row `json:"data"`
	Meta struct {
		Count int `json:"count"`
	} `json:"_meta"`
}

// Table returns every row of table with the given columns, paging until
// the reported count is exhausted.
func (c *Client) Table(ctx context.Context, table string, columns []string) ([]Row, error) {
	req := tableRequest{
		Columns:          columns,
		Filters:          map[string]any{},
		AttributeFilters: map[string]any{},
		Snapshot:         c.snapshot,
		Pagination:       pagination{Start: 0, Limit: c.pageSize},
	}
	endpoint := c.baseURL + "/tables/" + table

	var rows []Row
	for {
		var resp tableResponse
		if err := c.transport.JSON(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
			return nil, errors.WrapResource("fetch", "table", table, err)
		}
		rows = append(rows, resp.Data...)
		if resp.Meta.Count <= req.Pagination.Start+req.Pagination.Limit || len(resp.Data) == 0 {
			break
		}
		req.Pagination.Start += req.Pagination.Limit
	}
	return rows, nil
}

// Row is one table row keyed by column name.
type Row map[string]any

// String returns the column as text. Cells wrapped as {"data": value} are unwrapped.
func (r Row) String(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	if m, ok := v.(map[string]any); ok {
		v = m["data"]
		if v == nil {
			return ""
		}
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}
