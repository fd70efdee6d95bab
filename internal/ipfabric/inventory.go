package ipfabric

import (
	"context"

	"github.com/agentstation/devicemap/pkg/inventory"
)

var _ inventory.Source = (*Client)(nil)

// Vendors returns the distinct vendors seen in the part number table.
func (c *Client) Vendors(ctx context.Context) ([]string, error) {
	rows, err := c.Table(ctx, TablePartNumbers, []string{"vendor"})
	if err != nil {
		return nil, err
	}
	vendors := make([]string, 0, len(rows))
	for _, r := range rows {
		vendors = append(vendors, r.String("vendor"))
	}
	return inventory.Unique(vendors), nil
}

// Models returns the model summary plus stack member part numbers that do not
// appear in the summary.
func (c *Client) Models(ctx context.Context) ([]inventory.Asset, error) {
	rows, err := c.Table(ctx, TableModels, []string{"vendor", "family", "platform", "model"})
	if err != nil {
		return nil, err
	}
	models := make([]inventory.Asset, 0, len(rows))
	for _, r := range rows {
		if r.String("model") == "" {
			continue
		}
		models = append(models, inventory.Asset{
			Vendor:   r.String("vendor"),
			Family:   r.String("family"),
			Platform: r.String("platform"),
			Model:    r.String("model"),
			Kind:     inventory.KindDevice,
		})
	}

	memberRows, err := c.Table(ctx, TableStackMembers, []string{"master", "pn"})
	if err != nil {
		return nil, err
	}
	members := make([]inventory.StackMember, 0, len(memberRows))
	for _, r := range memberRows {
		members = append(members, inventory.StackMember{Master: r.String("master"), PartNumber: r.String("pn")})
	}
	if len(members) == 0 {
		return models, nil
	}

	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.MergeStackMembers(models, members, devices), nil
}

// Devices returns the device inventory.
func (c *Client) Devices(ctx context.Context) ([]inventory.Device, error) {
	rows, err := c.Table(ctx, TableDevices, []string{"hostname", "vendor", "family", "platform", "devType"})
	if err != nil {
		return nil, err
	}
	devices := make([]inventory.Device, 0, len(rows))
	for _, r := range rows {
		devices = append(devices, inventory.Device{
			Hostname: r.String("hostname"),
			Vendor:   r.String("vendor"),
			Family:   r.String("family"),
			Platform: r.String("platform"),
			Role:     r.String("devType"),
		})
	}
	return devices, nil
}

// Parts returns the raw part number inventory.
func (c *Client) Parts(ctx context.Context) ([]inventory.Part, error) {
	rows, err := c.Table(ctx, TablePartNumbers, []string{"pid", "vendor", "deviceSn", "dscr", "sn", "model"})
	if err != nil {
		return nil, err
	}
	parts := make([]inventory.Part, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, inventory.Part{
			PartNumber:   r.String("pid"),
			Vendor:       r.String("vendor"),
			DeviceSerial: r.String("deviceSn"),
			Description:  r.String("dscr"),
			Serial:       r.String("sn"),
			Model:        r.String("model"),
		})
	}
	return parts, nil
}

// Sites returns the distinct site names.
func (c *Client) Sites(ctx context.Context) ([]string, error) {
	rows, err := c.Table(ctx, TableSites, []string{"siteName"})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.String("siteName"))
	}
	return inventory.Unique(names), nil
}

// Families returns the vendor/family summary.
func (c *Client) Families(ctx context.Context) ([]inventory.Family, error) {
	rows, err := c.Table(ctx, TableFamilies, []string{"vendor", "family"})
	if err != nil {
		return nil, err
	}
	families := make([]inventory.Family, 0, len(rows))
	for _, r := range rows {
		if r.String("family") == "" {
			continue
		}
		families = append(families, inventory.Family{Vendor: r.String("vendor"), Family: r.String("family")})
	}
	return families, nil
}
