package resolver

import (
	"sync"

	"github.com/agentstation/devicemap/internal/matcher"
)

// VendorMatch is the memoized outcome for one discovered vendor name.
type VendorMatch struct {
	Input   string  `json:"input" yaml:"input"`
	Vendor  string  `json:"vendor" yaml:"vendor"`
	Matched bool    `json:"matched" yaml:"matched"`
	Score   float64 `json:"score" yaml:"score"`
}

// VendorResolver maps discovered vendor names to library vendor directories.
// Each distinct input is matched once and cached for the resolver's lifetime.
type VendorResolver struct {
	vendors    []string
	normalized []string
	threshold  float64

	mu    sync.Mutex
	cache map[string]VendorMatch
}

// NewVendorResolver creates a resolver over the library's vendor directories.
func NewVendorResolver(vendors []string, threshold float64) (*VendorResolver, error) {
	if err := matcher.ValidateThreshold("thresholds.vendor", threshold); err != nil {
		return nil, err
	}
	return &VendorResolver{
		vendors:    append([]string(nil), vendors...),
		normalized: matcher.NormalizeAll(vendors),
		threshold:  threshold,
		cache:      make(map[string]VendorMatch),
	}, nil
}

// Resolve returns the library directory for name, or name itself when no
// directory clears the threshold.
func (r *VendorResolver) Resolve(name string) string {
	return r.Lookup(name).Vendor
}

// Lookup returns the cached VendorMatch for name, computing it on first use.
func (r *VendorResolver) Lookup(name string) VendorMatch {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vm, ok := r.cache[name]; ok {
		return vm
	}

	vm := VendorMatch{Input: name, Vendor: name}
	if m, ok := matcher.Best(matcher.Normalize(name), r.normalized, r.threshold); ok {
		vm.Vendor = r.vendors[m.Index]
		vm.Matched = true
		vm.Score = m.Score
	}
	r.cache[name] = vm
	return vm
}

// Matches returns every cached lookup in no particular order.
func (r *VendorResolver) Matches() []VendorMatch {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]VendorMatch, 0, len(r.cache))
	for _, vm := range r.cache {
		out = append(out, vm)
	}
	return out
}

// ResolveVendor is the uncached form of VendorResolver.Resolve.
func ResolveVendor(name string, vendors []string, threshold float64) string {
	if m, ok := matcher.Best(matcher.Normalize(name), matcher.NormalizeAll(vendors), threshold); ok {
		return vendors[m.Index]
	}
	return name
}
