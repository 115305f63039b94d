// Package plan holds the traffic-control plan document: the placed sign
// objects, the lane-closure polyline, and the versioned JSON form they are
// exported to and imported from.
package plan

import (
	"encoding/json"
	"fmt"
	"math"
)

// Version is the only document version this package reads and writes.
const Version = 1

// Ranges advertised by the editor's sliders. Writes are clamped into them.
const (
	MinRotate = 0.0
	MaxRotate = 360.0
	MinScale  = 0.5
	MaxScale  = 2.0

	DefaultRotate = 0.0
	DefaultScale  = 1.0
)

// PlacedObject is a sign or device instance on the map.
type PlacedObject struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Rotate float64 `json:"rotate"`
	Scale  float64 `json:"scale"`
}

// Vertex is a polyline point, serialized as [lat, lng].
type Vertex [2]float64

// NewVertex builds a vertex from a coordinate pair.
func NewVertex(lat, lng float64) Vertex { return Vertex{lat, lng} }

// Lat returns the latitude component.
func (v Vertex) Lat() float64 { return v[0] }

// Lng returns the longitude component.
func (v Vertex) Lng() float64 { return v[1] }

// Plan is the persisted unit.
type Plan struct {
	Version  int            `json:"version"`
	Objects  []PlacedObject `json:"objects"`
	Polyline []Vertex       `json:"polyline"`
}

// MarshalJSON keeps empty collections as [] so exported files always carry
// both required keys.
func (p Plan) MarshalJSON() ([]byte, error) {
	type wire Plan
	out := wire(p)
	if out.Version == 0 {
		out.Version = Version
	}
	if out.Objects == nil {
		out.Objects = []PlacedObject{}
	}
	if out.Polyline == nil {
		out.Polyline = []Vertex{}
	}
	return json.Marshal(out)
}

// Clone returns a deep copy.
func (p Plan) Clone() Plan {
	clone := Plan{Version: p.Version}
	if p.Objects != nil {
		clone.Objects = make([]PlacedObject, len(p.Objects))
		copy(clone.Objects, p.Objects)
	}
	if p.Polyline != nil {
		clone.Polyline = make([]Vertex, len(p.Polyline))
		copy(clone.Polyline, p.Polyline)
	}
	return clone
}

// String is a one-line summary used in logs.
func (p Plan) String() string {
	return fmt.Sprintf("plan v%d · %d object(s) · %d vertex(es)", p.Version, len(p.Objects), len(p.Polyline))
}

// ClampRotate clamps degrees into [MinRotate, MaxRotate].
func ClampRotate(deg float64) float64 {
	return clamp(deg, MinRotate, MaxRotate)
}

// ClampScale clamps a factor into [MinScale, MaxScale].
func ClampScale(factor float64) float64 {
	return clamp(factor, MinScale, MaxScale)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
