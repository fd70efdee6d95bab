// Package inventory models the assets discovered by IP Fabric and shapes the
// raw table rows into the vendor, model and module lists the resolvers consume.
package inventory

import (
	"context"
	"sort"
	"strings"
)

// Kind distinguishes device assets from module assets.
type Kind int

const (
	// KindDevice is a chassis or stack member matched against device-types.
	KindDevice Kind = iota
	// KindModule is a field-replaceable part matched against module-types.
	KindModule
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindModule {
		return "module"
	}
	return "device"
}

// UnknownAttribute fills family/platform for stack members whose master is missing.
const UnknownAttribute = "Unknown"

// Asset is one discovered device model or module part number.
type Asset struct {
	Vendor   string `json:"vendor" yaml:"vendor"`
	Model    string `json:"model" yaml:"model"`
	Family   string `json:"family,omitempty" yaml:"family,omitempty"`
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Kind     Kind   `json:"kind" yaml:"kind"`
}

// StackMember is a row of the platforms/stack/members table.
type StackMember struct {
	Master     string
	PartNumber string
}

// Device is a row of the inventory/devices table.
type Device struct {
	Hostname string
	Vendor   string
	Family   string
	Platform string
	Role     string
}

// Part is a row of the inventory/pn table.
type Part struct {
	PartNumber   string
	Vendor       string
	DeviceSerial string
	Description  string
	Serial       string
	Model        string
}

// Family is a row of the inventory/summary/families table.
type Family struct {
	Vendor string
	Family string
}

// VendorParts groups the unique module part numbers of one vendor.
type VendorParts struct {
	Vendor      string
	PartNumbers []string
}

// Source is the discovery platform as seen by the import pipeline.
type Source interface {
	Vendors(ctx context.Context) ([]string, error)
	Models(ctx context.Context) ([]Asset, error)
	Parts(ctx context.Context) ([]Part, error)
	Sites(ctx context.Context) ([]string, error)
	Devices(ctx context.Context) ([]Device, error)
	Families(ctx context.Context) ([]Family, error)
}

// Unique returns values with blanks removed and duplicates collapsed,
// keeping first-seen order.
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// MergeStackMembers appends a device asset for every stack member part number
// not already present among models. The member inherits vendor, family and
// platform from its master's device row, or Unknown when the master is absent.
func MergeStackMembers(models []Asset, members []StackMember, devices []Device) []Asset {
	existing := make(map[string]struct{}, len(models))
	for _, m := range models {
		existing[m.Model] = struct{}{}
	}

	byHost := make(map[string]Device, len(devices))
	for _, d := range devices {
		byHost[d.Hostname] = d
	}

	out := append([]Asset(nil), models...)
	for _, member := range members {
		pn := strings.TrimSpace(member.PartNumber)
		if pn == "" {
			continue
		}
		if _, ok := existing[pn]; ok {
			continue
		}
		existing[pn] = struct{}{}

		asset := Asset{
			Vendor:   UnknownAttribute,
			Model:    pn,
			Family:   UnknownAttribute,
			Platform: UnknownAttribute,
			Kind:     KindDevice,
		}
		if master, ok := byHost[member.Master]; ok {
			asset.Vendor = master.Vendor
			asset.Family = master.Family
			asset.Platform = master.Platform
		}
		out = append(out, asset)
	}
	return out
}

// FilterModules drops rows that are not real modules: the chassis itself
// (serial equals device serial), rows whose description is just the part
// number, rows whose part number is the device model, and blank part numbers.
func FilterModules(parts []Part) []Part {
	out := make([]Part, 0, len(parts))
	for _, p := range parts {
		switch {
		case strings.TrimSpace(p.PartNumber) == "":
		case p.Serial != "" && p.Serial == p.DeviceSerial:
		case p.PartNumber == p.Description:
		case p.Model != "" && p.PartNumber == p.Model:
		default:
			out = append(out, p)
		}
	}
	return out
}

// GroupModules groups unique part numbers by vendor. Vendors and part numbers
// are sorted so runs are reproducible.
func GroupModules(parts []Part) []VendorParts {
	byVendor := make(map[string]map[string]struct{})
	for _, p := range parts {
		if p.Vendor == "" {
			continue
		}
		set, ok := byVendor[p.Vendor]
		if !ok {
			set = make(map[string]struct{})
			byVendor[p.Vendor] = set
		}
		set[strings.TrimSpace(p.PartNumber)] = struct{}{}
	}

	out := make([]VendorParts, 0, len(byVendor))
	for vendor, set := range byVendor {
		pns := make([]string, 0, len(set))
		for pn := range set {
			pns = append(pns, pn)
		}
		sort.Strings(pns)
		out = append(out, VendorParts{Vendor: vendor, PartNumbers: pns})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vendor < out[j].Vendor })
	return out
}
