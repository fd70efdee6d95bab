package match

import (
	"io"

	"github.com/agentstation/devicemap/cmd/application"
	"github.com/agentstation/devicemap/internal/cmd/output"
	"github.com/agentstation/devicemap/internal/cmd/table"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/resolver"
)

// Diagnosis is the outcome of one match command.
type Diagnosis struct {
	Vendor resolver.VendorMatch `json:"vendor" yaml:"vendor"`
	// Result is nil for vendor-only lookups.
	Result *resolver.Result `json:"result,omitempty" yaml:"result,omitempty"`
	// Profile is the module-type profile of a matched module template.
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// Vendor resolves name against the device-type vendor directories.
func Vendor(app application.Application, flags *Flags, name string) (*Diagnosis, error) {
	lib, err := app.Library()
	if err != nil {
		return nil, err
	}
	vm, err := lookupVendor(lib, threshold(flags, app.Thresholds().Vendor), name)
	if err != nil {
		return nil, err
	}
	return &Diagnosis{Vendor: vm}, nil
}

// Model resolves a device model with the staged fallback queries.
func Model(app application.Application, flags *Flags, vendor, model string) (*Diagnosis, error) {
	lib, err := app.Library()
	if err != nil {
		return nil, err
	}
	t := app.Thresholds()
	vm, err := lookupVendor(lib, t.Vendor, vendor)
	if err != nil {
		return nil, err
	}

	r, err := resolver.NewModelResolver(threshold(flags, t.Model))
	if err != nil {
		return nil, err
	}
	r.Diagnostics = true

	asset := inventory.Asset{
		Vendor:   vendor,
		Model:    model,
		Family:   flags.Family,
		Platform: flags.Platform,
		Kind:     inventory.KindDevice,
	}
	entries, err := vendorEntries(lib, library.DeviceTypes, vm.Vendor)
	if err != nil {
		return nil, err
	}
	res := r.Resolve(asset, entries)
	return &Diagnosis{Vendor: vm, Result: &res}, nil
}

// Module resolves a part number and classifies the matched template.
func Module(app application.Application, flags *Flags, vendor, partNumber string) (*Diagnosis, error) {
	lib, err := app.Library()
	if err != nil {
		return nil, err
	}
	t := app.Thresholds()
	vm, err := lookupVendor(lib, t.Vendor, vendor)
	if err != nil {
		return nil, err
	}

	r, err := resolver.NewModuleResolver(threshold(flags, t.Module))
	if err != nil {
		return nil, err
	}
	r.Diagnostics = true

	asset := inventory.Asset{Vendor: vendor, Model: partNumber, Kind: inventory.KindModule}
	entries, err := vendorEntries(lib, library.ModuleTypes, vm.Vendor)
	if err != nil {
		return nil, err
	}
	res := r.Resolve(asset, entries)
	d := &Diagnosis{Vendor: vm, Result: &res}
	if res.Matched {
		tmpl, err := lib.Load(*res.Entry)
		if err != nil {
			return nil, err
		}
		d.Profile = resolver.Classify(tmpl).String()
	}
	return d, nil
}

// Print writes d as tables, CSV, JSON or YAML.
func Print(w io.Writer, format string, d *Diagnosis) error {
	f, err := output.Resolve(format)
	if err != nil {
		return err
	}
	if !f.Tabular() {
		return output.NewFormatter(f).Format(w, d)
	}

	formatter := output.NewFormatter(f)
	if err := formatter.Format(w, table.VendorMatchToTableData(d.Vendor)); err != nil {
		return err
	}
	if d.Result == nil {
		return nil
	}
	data := table.AttemptsToTableData(*d.Result)
	if d.Profile != "" {
		data.Rows = append(data.Rows, []string{"profile", d.Profile, "", "", ""})
	}
	return formatter.Format(w, data)
}

func lookupVendor(lib *library.Library, t float64, name string) (resolver.VendorMatch, error) {
	vendors, err := lib.Vendors(library.DeviceTypes)
	if err != nil {
		return resolver.VendorMatch{}, err
	}
	r, err := resolver.NewVendorResolver(vendors, t)
	if err != nil {
		return resolver.VendorMatch{}, err
	}
	return r.Lookup(name), nil
}

// vendorEntries lists a vendor directory; a missing directory is an empty list.
func vendorEntries(lib *library.Library, kind library.Kind, vendor string) ([]library.Entry, error) {
	entries, err := lib.Entries(kind, vendor)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return entries, err
}

func threshold(flags *Flags, configured float64) float64 {
	if flags.Threshold > 0 {
		return flags.Threshold
	}
	return configured
}
