// Package library reads a local mirror of the NetBox device-type library:
// vendor directories of device and module templates plus elevation images.
package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/devicemap/pkg/errors"
)

// Parsed templates are kept for TemplateTTL so a mirror pull is picked up
// by long-lived processes.
const (
	TemplateTTL          = 10 * time.Minute
	templateCleanupEvery = 20 * time.Minute
)

// Kind selects a template tree inside the library.
type Kind string

const (
	// DeviceTypes is the device-types/<vendor>/ tree.
	DeviceTypes Kind = "device-types"
	// ModuleTypes is the module-types/<vendor>/ tree.
	ModuleTypes Kind = "module-types"
	// ElevationImages is the elevation-images/<vendor>/ tree.
	ElevationImages Kind = "elevation-images"
)

// Entry is one template or image file of a vendor directory.
type Entry struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Vendor string `json:"vendor" yaml:"vendor"`
	File   string `json:"file" yaml:"file"`
	// BaseName is the file name without extension; lowercased for templates,
	// verbatim for images ("Cisco-C9300-48P.front").
	BaseName string `json:"base_name" yaml:"base_name"`
	Path     string `json:"-" yaml:"-"`
}

// Library is a read-only view of the mirror rooted at Root. It is safe for
// concurrent use.
type Library struct {
	Root string

	templates *gocache.Cache
}

// Open returns a Library for root, failing when it does not exist.
func Open(root string) (*Library, error) {
	root = expandPath(root)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("device-type library", root)
		}
		return nil, errors.WrapIO("stat", root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("library.path", root, "not a directory")
	}
	return &Library{
		Root:      root,
		templates: gocache.New(TemplateTTL, templateCleanupEvery),
	}, nil
}

// Vendors lists the vendor directories of kind in name order.
func (l *Library) Vendors(kind Kind) ([]string, error) {
	dir := filepath.Join(l.Root, string(kind))
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(string(kind)+" directory", dir)
		}
		return nil, errors.WrapIO("read", dir, err)
	}

	vendors := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() && !strings.HasPrefix(de.Name(), ".") {
			vendors = append(vendors, de.Name())
		}
	}
	sort.Strings(vendors)
	return vendors, nil
}

// Entries lists the templates of vendor under kind. A missing vendor
// directory is a NotFoundError.
func (l *Library) Entries(kind Kind, vendor string) ([]Entry, error) {
	files, err := l.files(kind, vendor)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, name := range files {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		entries = append(entries, Entry{
			Kind:     kind,
			Vendor:   vendor,
			File:     name,
			BaseName: strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))),
			Path:     filepath.Join(l.Root, string(kind), vendor, name),
		})
	}
	return entries, nil
}

// Images lists the elevation images of vendor.
func (l *Library) Images(vendor string) ([]Entry, error) {
	files, err := l.files(ElevationImages, vendor)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, name := range files {
		entries = append(entries, Entry{
			Kind:     ElevationImages,
			Vendor:   vendor,
			File:     name,
			BaseName: strings.TrimSuffix(name, filepath.Ext(name)),
			Path:     filepath.Join(l.Root, string(ElevationImages), vendor, name),
		})
	}
	return entries, nil
}

// BaseNames returns the BaseName of every entry, preserving order.
func BaseNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.BaseName
	}
	return names
}

// files returns the regular, non-hidden file names of kind/vendor.
func (l *Library) files(kind Kind, vendor string) ([]string, error) {
	dir := filepath.Join(l.Root, string(kind), vendor)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(string(kind)+" vendor directory", vendor)
		}
		return nil, errors.WrapIO("read", dir, err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.Type().IsRegular() && !strings.HasPrefix(de.Name(), ".") {
			names = append(names, de.Name())
		}
	}
	return names, nil
}
