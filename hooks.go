package devicemap

import (
	gosync "sync"

	"github.com/agentstation/devicemap/pkg/resolver"
	"github.com/agentstation/devicemap/pkg/sync"
)

// Hook function types for import events
type (
	// CreatedHook is called when a record is created in NetBox
	CreatedHook func(category sync.Category, name string, id int)

	// DuplicateHook is called when NetBox refuses a create because the record exists
	DuplicateHook func(category sync.Category, name string)

	// NoMatchHook is called when an asset has no library match
	NoMatchHook func(category sync.Category, res resolver.Result)
)

// hooks manages event callbacks for import outcomes
type hooks struct {
	mu          gosync.RWMutex
	onCreated   []CreatedHook
	onDuplicate []DuplicateHook
	onNoMatch   []NoMatchHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnCreated registers a callback for created records
func (h *hooks) OnCreated(fn CreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCreated = append(h.onCreated, fn)
}

// OnDuplicate registers a callback for duplicates
func (h *hooks) OnDuplicate(fn DuplicateHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDuplicate = append(h.onDuplicate, fn)
}

// OnNoMatch registers a callback for unmatched assets
func (h *hooks) OnNoMatch(fn NoMatchHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onNoMatch = append(h.onNoMatch, fn)
}

func (h *hooks) created(c sync.Category, name string, id int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onCreated {
		fn(c, name, id)
	}
}

func (h *hooks) duplicate(c sync.Category, name string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onDuplicate {
		fn(c, name)
	}
}

func (h *hooks) noMatch(c sync.Category, res resolver.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onNoMatch {
		fn(c, res)
	}
}
