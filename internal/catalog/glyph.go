package catalog

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// GlyphInfo is the geometry read from a glyph's SVG root element.
type GlyphInfo struct {
	MinX, MinY    float64
	Width, Height float64
}

// Aspect returns width/height, or 1 for degenerate boxes.
func (g GlyphInfo) Aspect() float64 {
	if g.Width <= 0 || g.Height <= 0 {
		return 1
	}
	return g.Width / g.Height
}

type svgRoot struct {
	XMLName xml.Name `xml:"svg"`
	ViewBox string   `xml:"viewBox,attr"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
}

// ParseGlyph reads the viewBox (or width/height) of an SVG glyph.
func ParseGlyph(svg string) (GlyphInfo, error) {
	var root svgRoot
	decoder := xml.NewDecoder(strings.NewReader(svg))
	if err := decoder.Decode(&root); err != nil {
		return GlyphInfo{}, fmt.Errorf("catalog: parse glyph: %w", err)
	}
	if vb := strings.TrimSpace(root.ViewBox); vb != "" {
		fields := strings.FieldsFunc(vb, func(r rune) bool { return r == ' ' || r == ',' })
		if len(fields) != 4 {
			return GlyphInfo{}, fmt.Errorf("catalog: viewBox %q must have 4 numbers", vb)
		}
		var nums [4]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return GlyphInfo{}, fmt.Errorf("catalog: viewBox %q: %w", vb, err)
			}
			nums[i] = v
		}
		return GlyphInfo{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}, nil
	}
	w, werr := strconv.ParseFloat(strings.TrimSuffix(root.Width, "px"), 64)
	h, herr := strconv.ParseFloat(strings.TrimSuffix(root.Height, "px"), 64)
	if werr != nil || herr != nil {
		return GlyphInfo{}, fmt.Errorf("catalog: glyph has neither viewBox nor numeric width/height")
	}
	return GlyphInfo{Width: w, Height: h}, nil
}

// Footprint returns the marker size in terminal cells for a glyph drawn at
// the given scale. Cells are roughly twice as tall as wide, so a square glyph
// at scale 1 occupies 2x1 cells.
func Footprint(def SignDefinition, scale float64) (cols, rows int) {
	aspect := 1.0
	if info, ok := def.Geometry(); ok {
		aspect = info.Aspect()
	}
	if scale <= 0 {
		scale = 1
	}
	rows = int(scale + 0.5)
	if rows < 1 {
		rows = 1
	}
	cols = int(float64(rows)*2*aspect + 0.5)
	if cols < 1 {
		cols = 1
	}
	return cols, rows
}
