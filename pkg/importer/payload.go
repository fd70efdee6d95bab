package importer

import (
	"github.com/agentstation/devicemap/pkg/inventory"
)

// component is one template list and the NetBox kind it becomes.
type component struct {
	key  string
	kind string
}

// components are created in this order so that rear ports exist before the
// front ports that name them, and power ports before power outlets.
var components = []component{
	{"interfaces", "interface"},
	{"rear-ports", "rear-port"},
	{"front-ports", "front-port"},
	{"console-ports", "console-port"},
	{"console-server-ports", "console-server-port"},
	{"power-ports", "power-port"},
	{"power-outlets", "power-outlet"},
	{"module-bays", "module-bay"},
	{"device-bays", "device-bay"},
}

// references lists fields that name a sibling template by name.
var references = map[string]struct {
	field string
	kind  string
}{
	"front-port":   {field: "rear_port", kind: "rear-port"},
	"power-outlet": {field: "power_port", kind: "power-port"},
}

// stripped are template keys never sent on the type itself.
var stripped = map[string]bool{
	"front_image":  true,
	"rear_image":   true,
	"manufacturer": true,
}

// BuildPayload derives the create payload from the target's template: all
// scalar fields, the resolved manufacturer, and the module profile when set.
// Component lists are created separately; image flags are dropped.
func BuildPayload(target Target) map[string]any {
	payload := make(map[string]any, len(target.Template.Fields)+2)
	isComponent := make(map[string]bool, len(components))
	for _, c := range components {
		isComponent[c.key] = true
	}

	for k, v := range target.Template.Fields {
		if isComponent[k] || stripped[k] {
			continue
		}
		payload[k] = v
	}
	payload["manufacturer"] = target.ManufacturerID
	if target.Kind == inventory.KindModule && target.ProfileID > 0 {
		payload["profile"] = target.ProfileID
	}
	return payload
}

// parentField is the foreign key naming the owning type on a component template.
func parentField(kind inventory.Kind) string {
	if kind == inventory.KindModule {
		return "module_type"
	}
	return "device_type"
}
