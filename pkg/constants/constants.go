// Package constants provides shared constants used throughout devicemap.
// This includes timeouts, page sizes, matching defaults, file permissions,
// and the well-known locations of the reference catalog and run reports.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to IP Fabric and NetBox
	DefaultHTTPTimeout = 30 * time.Second

	// PingTimeout bounds the startup connectivity checks
	PingTimeout = 10 * time.Second

	// GitTimeout bounds a clone or pull of the reference catalog
	GitTimeout = 5 * time.Minute

	// SyncTimeout is the upper bound for a full import run
	SyncTimeout = 2 * time.Hour
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Matching defaults
const (
	// DefaultThreshold is the similarity cutoff used for every matcher unless configured
	DefaultThreshold = 0.8
)

// Paging defaults for the remote APIs
const (
	// DefaultIPFabricPageSize is the tables endpoint page size
	DefaultIPFabricPageSize = 1000

	// DefaultNetBoxPageSize is the list endpoint page size
	DefaultNetBoxPageSize = 100

	// DefaultSnapshot selects the most recent IP Fabric snapshot
	DefaultSnapshot = "$last"
)

// Reference catalog layout
const (
	// DeviceTypeLibraryGit is the community device-type library
	DeviceTypeLibraryGit = "https://github.com/netbox-community/devicetype-library.git"

	// DefaultLibraryBranch is the branch mirrored locally
	DefaultLibraryBranch = "master"

	// DefaultLibraryPath is where the mirror is cloned
	DefaultLibraryPath = "DataSources/DeviceTypeLibraryRepo"

	// DefaultReportDir is the root directory for per-run CSV reports
	DefaultReportDir = "Logs"

	// DefaultRoleColor is the NetBox color assigned to roles without a mapping
	DefaultRoleColor = "696969"
)

// Time formats
const (
	// TimeFormatFilename is used for run report directories
	TimeFormatFilename = "20060102-150405"
)
