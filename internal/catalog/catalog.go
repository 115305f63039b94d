// Package catalog holds the read-only library of signs and devices that can be
// placed on a plan. The library is built once per process and never mutated;
// placed objects reference entries by ID.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownSign is returned when a sign ID is not part of the catalog.
var ErrUnknownSign = errors.New("catalog: unknown sign")

// Shape is the broad MUTCD family a sign belongs to. It only drives the
// terminal symbol used to draw the sign on the map.
type Shape string

const (
	ShapeWarning    Shape = "warning"
	ShapeRegulatory Shape = "regulatory"
	ShapeGuide      Shape = "guide"
	ShapeDevice     Shape = "device"
	ShapeUnknown    Shape = "unknown"
)

// SignDefinition describes one placeable sign or device.
type SignDefinition struct {
	ID    string
	Name  string
	Shape Shape
	// Glyph is the SVG markup rendered for the sign.
	Glyph string

	geometry    GlyphInfo
	hasGeometry bool
}

// Geometry returns the glyph's viewBox, parsing it when the definition was
// not built by New.
func (d SignDefinition) Geometry() (GlyphInfo, bool) {
	if d.hasGeometry {
		return d.geometry, true
	}
	info, err := ParseGlyph(d.Glyph)
	return info, err == nil
}

// IsPlaceholder reports whether the definition is the stand-in used for
// objects whose type is not in the catalog.
func (d SignDefinition) IsPlaceholder() bool {
	return d.ID == "" && d.Shape == ShapeUnknown
}

// Catalog is an ordered, immutable set of sign definitions.
type Catalog struct {
	signs []SignDefinition
	index map[string]int
}

// New builds a catalog from the given definitions. IDs must be non-empty and
// unique.
func New(defs ...SignDefinition) (*Catalog, error) {
	c := &Catalog{
		signs: make([]SignDefinition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		id := strings.TrimSpace(def.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: sign[%d]: id is required", i)
		}
		if _, exists := c.index[id]; exists {
			return nil, fmt.Errorf("catalog: sign[%d]: duplicate id %q", i, id)
		}
		def.ID = id
		def.Name = strings.TrimSpace(def.Name)
		if def.Name == "" {
			def.Name = id
		}
		if def.Shape == "" {
			def.Shape = ShapeUnknown
		}
		if info, err := ParseGlyph(def.Glyph); err == nil {
			def.geometry, def.hasGeometry = info, true
		}
		c.index[id] = len(c.signs)
		c.signs = append(c.signs, def)
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in sign library.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(builtinSigns...)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// All returns the definitions in catalog order.
func (c *Catalog) All() []SignDefinition {
	if c == nil {
		return nil
	}
	out := make([]SignDefinition, len(c.signs))
	copy(out, c.signs)
	return out
}

// Len returns the number of signs in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.signs)
}

// Lookup finds a sign by ID.
func (c *Catalog) Lookup(id string) (SignDefinition, bool) {
	if c == nil {
		return SignDefinition{}, false
	}
	idx, ok := c.index[id]
	if !ok {
		return SignDefinition{}, false
	}
	return c.signs[idx], true
}

// Resolve returns the sign for id, or the placeholder when id is unknown.
func (c *Catalog) Resolve(id string) SignDefinition {
	if def, ok := c.Lookup(id); ok {
		return def
	}
	return Placeholder()
}

// Placeholder is drawn for objects whose type is missing from the catalog.
func Placeholder() SignDefinition {
	return SignDefinition{Name: "Unknown sign", Shape: ShapeUnknown, Glyph: "<div/>", hasGeometry: true}
}

// Symbol returns the single-rune map symbol for a sign.
func Symbol(def SignDefinition) rune {
	switch def.Shape {
	case ShapeWarning:
		return '◆'
	case ShapeRegulatory:
		return '▮'
	case ShapeGuide:
		return '▬'
	case ShapeDevice:
		return '▲'
	default:
		return '?'
	}
}
