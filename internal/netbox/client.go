// Package netbox is a create-only client for the NetBox REST API. It lists
// the reference records an import needs (manufacturers, module type profiles)
// and creates manufacturers, device types, module types and their component
// templates. Existing records are never updated or deleted, except for the
// image attachment of a device type created in the same run.
package netbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/devicemap/internal/transport"
	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/errors"
)

const provider = "netbox"

// Client wraps the NetBox REST API v4.
type Client struct {
	transport  *transport.Client
	baseURL    string
	branch     string
	pageSize   int
	transports []transport.Option
}

// Option configures a Client.
type Option func(*Client)

// WithBranch scopes every request to a netbox-branching branch (?_branch=).
func WithBranch(branch string) Option {
	return func(c *Client) {
		c.branch = branch
	}
}

// WithPageSize sets the page size used for list endpoints.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithTransport passes options to the underlying HTTP transport.
func WithTransport(opts ...transport.Option) Option {
	return func(c *Client) {
		c.transports = append(c.transports, opts...)
	}
}

// NewClient creates a new NetBox API client. baseURL may or may not end in /api.
func NewClient(baseURL, token string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	c := &Client{
		baseURL:  base,
		pageSize: constants.DefaultNetBoxPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transport = transport.New(provider, &transport.TokenAuth{}, token, c.transports...)
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping verifies that NetBox answers an authenticated read.
func (c *Client) Ping(ctx context.Context) error {
	var resp ListResponse[Manufacturer]
	endpoint := c.endpoint("dcim/manufacturers/", url.Values{"limit": {"1"}})
	if err := c.transport.JSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return errors.NewConnectivityError(provider, c.baseURL, err)
	}
	return nil
}

// ListManufacturers returns every manufacturer.
func (c *Client) ListManufacturers(ctx context.Context) ([]Manufacturer, error) {
	return list[Manufacturer](ctx, c, "dcim/manufacturers/")
}

// ListModuleTypeProfiles returns every module type profile.
func (c *Client) ListModuleTypeProfiles(ctx context.Context) ([]ModuleTypeProfile, error) {
	return list[ModuleTypeProfile](ctx, c, "dcim/module-type-profiles/")
}

// CreateDeviceType creates a device type and returns its ID.
func (c *Client) CreateDeviceType(ctx context.Context, payload map[string]any) (int, error) {
	return c.create(ctx, "dcim/device-types/", payload)
}

// CreateModuleType creates a module type and returns its ID.
func (c *Client) CreateModuleType(ctx context.Context, payload map[string]any) (int, error) {
	return c.create(ctx, "dcim/module-types/", payload)
}

// CreateComponentTemplate creates one component template. kind is the singular
// NetBox name ("interface", "rear-port", ...).
func (c *Client) CreateComponentTemplate(ctx context.Context, kind string, payload map[string]any) (int, error) {
	known := false
	for _, k := range ComponentKinds {
		if k == kind {
			known = true
			break
		}
	}
	if !known {
		return 0, errors.NewValidationError("kind", kind, "unknown component template kind")
	}
	return c.create(ctx, "dcim/"+kind+"-templates/", payload)
}

// CreateRecord creates a flat record at path (for example "dcim/sites/").
func (c *Client) CreateRecord(ctx context.Context, path string, payload map[string]any) (int, error) {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return c.create(ctx, path, payload)
}

// UploadImage attaches an elevation image to a device type. field is
// "front_image" or "rear_image".
func (c *Client) UploadImage(ctx context.Context, deviceTypeID int, field, filename string, r io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return errors.WrapIO("create", filename, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return errors.WrapIO("read", filename, err)
	}
	if err := mw.Close(); err != nil {
		return errors.WrapIO("write", filename, err)
	}

	endpoint := c.endpoint(fmt.Sprintf("dcim/device-types/%d/", deviceTypeID), nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, &buf)
	if err != nil {
		return errors.WrapResource("create", "request", endpoint, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return errors.WrapResource("upload", "image", filename, err)
	}
	return c.transport.DecodeResponse(resp, nil)
}

// create posts payload and returns the new record's ID. A refusal because the
// record already exists is returned as an APIError wrapping ErrAlreadyExists.
func (c *Client) create(ctx context.Context, path string, payload map[string]any) (int, error) {
	var out created
	err := c.transport.JSON(ctx, http.MethodPost, c.endpoint(path, nil), payload, &out)
	if err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && isDuplicate(apiErr) {
			apiErr.Err = errors.ErrAlreadyExists
		}
		return 0, err
	}
	return out.ID, nil
}

// isDuplicate reports whether a rejected create was refused because the record exists.
// NetBox does not return a machine-readable code for unique constraint violations,
// so the validation text is the only signal.
func isDuplicate(apiErr *errors.APIError) bool {
	if apiErr.StatusCode != http.StatusBadRequest {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "must make a unique set")
}

// endpoint joins path to the API root and appends query and branch parameters.
func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.branch != "" {
		query.Set("_branch", c.branch)
	}
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// list follows "next" links until every page of path has been read.
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	next := c.endpoint(path, url.Values{"limit": {fmt.Sprint(c.pageSize)}})
	for next != "" {
		var page ListResponse[T]
		if err := c.transport.JSON(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, errors.WrapResource("list", path, "", err)
		}
		all = append(all, page.Results...)
		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}
	return all, nil
}
