// Package devicemap imports the hardware inventory discovered by IP Fabric
// into NetBox as manufacturers, device types and module types, using the
// netbox-community devicetype-library as the source of type definitions.
//
// Discovered vendor, model and part-number strings rarely match library file
// names exactly, so every lookup goes through a fuzzy matcher with a
// configurable threshold. NetBox is only ever written with create calls: a
// record that already exists is counted as a duplicate and left untouched.
//
// Example usage:
//
//	lib, err := library.Open("DataSources/DeviceTypeLibraryRepo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dm, err := devicemap.New(
//	    ipfabric.NewClient(ipfURL, ipfToken),
//	    netbox.NewClient(nbURL, nbToken),
//	    lib,
//	    devicemap.WithThresholds(devicemap.DefaultThresholds()),
//	    devicemap.WithReportDir("Logs"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dm.OnCreated(func(c sync.Category, name string, id int) {
//	    log.Printf("created %s %s (%d)", c, name, id)
//	})
//
//	result, err := dm.Sync(ctx, sync.WithCategories(sync.Manufacturers, sync.Devices))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package devicemap

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/devicemap/internal/netbox"
	"github.com/agentstation/devicemap/pkg/elevation"
	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/sync"
)

// Target is the NetBox API as seen by the import pipeline: list calls for
// lookups and create-only writes.
type Target interface {
	importer.Writer
	elevation.Uploader
	ListManufacturers(ctx context.Context) ([]netbox.Manufacturer, error)
	ListModuleTypeProfiles(ctx context.Context) ([]netbox.ModuleTypeProfile, error)
}

// Devicemap runs imports from a discovery source into a NetBox target.
type Devicemap interface {
	// Sync runs one import over the requested categories.
	Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error)

	// Thresholds returns the matching thresholds in use.
	Thresholds() Thresholds

	// OnCreated registers a callback for every record created.
	OnCreated(CreatedHook)

	// OnDuplicate registers a callback for every create refused as a duplicate.
	OnDuplicate(DuplicateHook)

	// OnNoMatch registers a callback for every asset without a library match.
	OnNoMatch(NoMatchHook)
}

// devicemap is the internal implementation of the Devicemap interface.
type devicemap struct {
	source inventory.Source
	target Target
	lib    *library.Library
	config *config
	hooks  *hooks
}

// New creates a Devicemap reading from source, writing to target and
// matching against lib.
func New(source inventory.Source, target Target, lib *library.Library, opts ...Option) (Devicemap, error) {
	if source == nil || target == nil || lib == nil {
		return nil, fmt.Errorf("source, target and library are required")
	}

	dm := &devicemap{
		source: source,
		target: target,
		lib:    lib,
		config: defaultConfig(),
		hooks:  newHooks(),
	}
	if err := dm.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	if err := dm.config.thresholds.Validate(); err != nil {
		return nil, err
	}
	return dm, nil
}

// Thresholds returns the matching thresholds in use.
func (d *devicemap) Thresholds() Thresholds {
	return d.config.thresholds
}

// OnCreated registers a callback for every record created.
func (d *devicemap) OnCreated(fn CreatedHook) {
	d.hooks.OnCreated(fn)
}

// OnDuplicate registers a callback for every duplicate.
func (d *devicemap) OnDuplicate(fn DuplicateHook) {
	d.hooks.OnDuplicate(fn)
}

// OnNoMatch registers a callback for every unmatched asset.
func (d *devicemap) OnNoMatch(fn NoMatchHook) {
	d.hooks.OnNoMatch(fn)
}

func (d *devicemap) now() time.Time {
	return d.config.clock()
}
