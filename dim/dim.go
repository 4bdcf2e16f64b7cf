// Package dim implements the labeled-shape algebra: the fixed Dim
// enumeration and the Dimensions type that pairs an ordered sequence of
// (Dim, extent) with the sparse-dimension and bin-edge rules the rest of
// the engine relies on.
//
// Dims are compared by identity only, exactly like Vertex IDs in a
// graph: there is no global ordering between labels, only the order a
// given Dimensions value happens to list them in.
package dim

// Dim is an enumerated dimension label. New labels require a new
// constant here; there is no way to construct an unlisted Dim.
type Dim int

// The fixed set of dimension labels this engine understands. Invalid is
// the reserved sentinel returned by lookups that fail without an error
// (e.g. a public accessor that historically returned a zero value).
const (
	Invalid Dim = iota
	X
	Y
	Z
	Time
	Tof
	Spectrum
	Row
	Event
	Detector
)

var dimNames = map[Dim]string{
	Invalid:  "Invalid",
	X:        "X",
	Y:        "Y",
	Z:        "Z",
	Time:     "Time",
	Tof:      "Tof",
	Spectrum: "Spectrum",
	Row:      "Row",
	Event:    "Event",
	Detector: "Detector",
}

// String returns "Dim.<Name>", matching the stringification rule fixed
// by the specification.
func (d Dim) String() string {
	if name, ok := dimNames[d]; ok {
		return "Dim." + name
	}
	return "Dim.Invalid"
}
