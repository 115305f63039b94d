// Package mapview is the terminal map surface: it projects plan coordinates
// onto a grid of terminal cells, rasterizes markers and the lane-closure
// polyline, and resolves cell clicks back to coordinates and markers.
package mapview

import "math"

const (
	MinZoom = 1
	MaxZoom = 20

	// columnsPerWorld is how many terminal columns span 360° of longitude at
	// zoom 0.
	columnsPerWorld = 32
)

// Viewport maps terminal cells to geographic coordinates using an
// equirectangular projection corrected for the cell aspect ratio and the
// latitude of the view center.
type Viewport struct {
	CenterLat float64
	CenterLng float64
	Zoom      int
	Width     int
	Height    int
}

// ColumnSpan is the longitude covered by one terminal column.
func (v Viewport) ColumnSpan() float64 {
	return 360 / (math.Exp2(float64(v.zoom())) * columnsPerWorld)
}

// RowSpan is the latitude covered by one terminal row. Rows are about twice
// as tall as columns are wide.
func (v Viewport) RowSpan() float64 {
	cos := math.Cos(v.CenterLat * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01
	}
	return 2 * v.ColumnSpan() * cos
}

// CellToCoord returns the coordinate at the center of cell (x, y).
func (v Viewport) CellToCoord(x, y int) (lat, lng float64) {
	lng = v.CenterLng + float64(x-v.Width/2)*v.ColumnSpan()
	lat = v.CenterLat - float64(y-v.Height/2)*v.RowSpan()
	return lat, lng
}

// Project returns the cell containing a coordinate, which may lie outside
// the viewport. ok is false when the coordinate is too far away to address.
func (v Viewport) Project(lat, lng float64) (x, y int, ok bool) {
	fx := math.Round((lng - v.CenterLng) / v.ColumnSpan())
	fy := math.Round((v.CenterLat - lat) / v.RowSpan())
	if math.IsNaN(fx) || math.IsNaN(fy) || math.Abs(fx) > 1e6 || math.Abs(fy) > 1e6 {
		return 0, 0, false
	}
	return v.Width/2 + int(fx), v.Height/2 + int(fy), true
}

// CoordToCell returns the cell containing a coordinate and whether it falls
// inside the viewport.
func (v Viewport) CoordToCell(lat, lng float64) (x, y int, visible bool) {
	x, y, ok := v.Project(lat, lng)
	if !ok {
		return 0, 0, false
	}
	return x, y, v.Contains(x, y)
}

// Contains reports whether (x, y) is a cell of the viewport.
func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.Width && y < v.Height
}

// Pan moves the center by whole cells.
func (v Viewport) Pan(dx, dy int) Viewport {
	v.CenterLng += float64(dx) * v.ColumnSpan()
	v.CenterLat -= float64(dy) * v.RowSpan()
	for v.CenterLng > 180 {
		v.CenterLng -= 360
	}
	for v.CenterLng < -180 {
		v.CenterLng += 360
	}
	if v.CenterLat > 85 {
		v.CenterLat = 85
	}
	if v.CenterLat < -85 {
		v.CenterLat = -85
	}
	return v
}

// ZoomIn returns the viewport one zoom level closer.
func (v Viewport) ZoomIn() Viewport {
	v.Zoom = clampZoom(v.zoom() + 1)
	return v
}

// ZoomOut returns the viewport one zoom level further.
func (v Viewport) ZoomOut() Viewport {
	v.Zoom = clampZoom(v.zoom() - 1)
	return v
}

// Resize returns the viewport with new cell dimensions.
func (v Viewport) Resize(width, height int) Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.Width, v.Height = width, height
	return v
}

func (v Viewport) zoom() int {
	return clampZoom(v.Zoom)
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
