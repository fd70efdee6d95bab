package netbox

// ListResponse is the standard NetBox paginated list response.
type ListResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Manufacturer represents a NetBox manufacturer.
type Manufacturer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ModuleTypeProfile represents a NetBox module type profile ("Fan", "Power supply", ...).
type ModuleTypeProfile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// created is the subset of every create response this client reads.
type created struct {
	ID int `json:"id"`
}

// ComponentKinds lists the component template kinds NetBox accepts,
// keyed by the list name used in device-type library templates.
var ComponentKinds = map[string]string{
	"interfaces":           "interface",
	"front-ports":          "front-port",
	"rear-ports":           "rear-port",
	"console-ports":        "console-port",
	"console-server-ports": "console-server-port",
	"power-ports":          "power-port",
	"power-outlets":        "power-outlet",
	"module-bays":          "module-bay",
	"device-bays":          "device-bay",
}
