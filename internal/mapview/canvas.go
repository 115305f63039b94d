package mapview

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/tcp-planner/internal/catalog"
	"github.com/kingrea/tcp-planner/internal/plan"
)

// CellKind says what occupies a canvas cell; it selects the render style.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellPolyline
	CellVertex
	CellMarker
	CellSelected
	CellGhost
	CellCursor
)

// maxSegmentSteps caps the cells walked for one polyline segment so far
// off-screen vertices cannot stall rendering.
const maxSegmentSteps = 4096

var rotationArrows = []rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

type cell struct {
	r    rune
	kind CellKind
}

// Canvas is a rasterized frame of the map.
type Canvas struct {
	view  Viewport
	cells [][]cell
}

// Palette maps cell kinds to render styles. Missing kinds render unstyled.
type Palette map[CellKind]lipgloss.Style

// NewCanvas allocates an empty frame for the viewport.
func NewCanvas(view Viewport) *Canvas {
	cells := make([][]cell, view.Height)
	for y := range cells {
		row := make([]cell, view.Width)
		for x := range row {
			row[x] = cell{r: '·', kind: CellEmpty}
		}
		cells[y] = row
	}
	return &Canvas{view: view, cells: cells}
}

func (c *Canvas) set(x, y int, r rune, kind CellKind) {
	if !c.view.Contains(x, y) {
		return
	}
	if c.cells[y][x].kind > kind {
		return
	}
	c.cells[y][x] = cell{r: r, kind: kind}
}

// At returns the rune and kind drawn at (x, y).
func (c *Canvas) At(x, y int) (rune, CellKind) {
	if !c.view.Contains(x, y) {
		return 0, CellEmpty
	}
	got := c.cells[y][x]
	return got.r, got.kind
}

// DrawPolyline draws the lane-closure polyline.
func (c *Canvas) DrawPolyline(vertices []plan.Vertex) {
	for i := 1; i < len(vertices); i++ {
		c.drawSegment(vertices[i-1], vertices[i])
	}
	for _, v := range vertices {
		if x, y, ok := c.view.CoordToCell(v.Lat(), v.Lng()); ok {
			c.set(x, y, '●', CellVertex)
		}
	}
}

func (c *Canvas) drawSegment(a, b plan.Vertex) {
	ax := (a.Lng() - c.view.CenterLng) / c.view.ColumnSpan()
	ay := (c.view.CenterLat - a.Lat()) / c.view.RowSpan()
	bx := (b.Lng() - c.view.CenterLng) / c.view.ColumnSpan()
	by := (c.view.CenterLat - b.Lat()) / c.view.RowSpan()
	steps := int(math.Ceil(math.Max(math.Abs(bx-ax), math.Abs(by-ay))))
	if steps < 1 {
		steps = 1
	}
	if steps > maxSegmentSteps {
		steps = maxSegmentSteps
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := c.view.Width/2 + int(math.Round(ax+(bx-ax)*t))
		y := c.view.Height/2 + int(math.Round(ay+(by-ay)*t))
		c.set(x, y, '•', CellPolyline)
	}
}

// DrawObject draws a marker: the sign symbol followed by an arrow showing
// its rotation. Unknown sign types draw as a placeholder.
func (c *Canvas) DrawObject(obj plan.PlacedObject, def catalog.SignDefinition, selected bool) {
	c.drawMarker(obj.Lat, obj.Lng, obj.Rotate, def, selected, false)
}

// DrawGhost draws a marker being dragged at its provisional position.
func (c *Canvas) DrawGhost(lat, lng, rotate float64, def catalog.SignDefinition) {
	c.drawMarker(lat, lng, rotate, def, false, true)
}

func (c *Canvas) drawMarker(lat, lng, rotate float64, def catalog.SignDefinition, selected, ghost bool) {
	x, y, ok := c.view.CoordToCell(lat, lng)
	if !ok {
		return
	}
	kind := CellMarker
	switch {
	case ghost:
		kind = CellGhost
	case selected:
		kind = CellSelected
	}
	c.set(x, y, catalog.Symbol(def), kind)
	c.set(x+1, y, RotationArrow(rotate), kind)
}

// DrawCursor overlays the keyboard cursor.
func (c *Canvas) DrawCursor(x, y int) {
	if !c.view.Contains(x, y) {
		return
	}
	r := c.cells[y][x].r
	if c.cells[y][x].kind == CellEmpty {
		r = '+'
	}
	c.cells[y][x] = cell{r: r, kind: CellCursor}
}

// Render turns the canvas into styled text, one line per row.
func (c *Canvas) Render(p Palette) string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		var run []rune
		runKind := CellEmpty
		flush := func() {
			if len(run) == 0 {
				return
			}
			if style, ok := p[runKind]; ok {
				b.WriteString(style.Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			run = run[:0]
		}
		for x, cl := range row {
			if x == 0 || cl.kind != runKind {
				flush()
				runKind = cl.kind
			}
			run = append(run, cl.r)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// RotationArrow returns the arrow closest to a heading in degrees.
func RotationArrow(rotate float64) rune {
	idx := int(math.Round(math.Mod(rotate, 360)/45)) % len(rotationArrows)
	if idx < 0 {
		idx += len(rotationArrows)
	}
	return rotationArrows[idx]
}

// HitTest returns the topmost object whose marker footprint covers (x, y).
// Later objects are drawn above earlier ones.
func HitTest(view Viewport, objects []plan.PlacedObject, signs *catalog.Catalog, x, y int) (string, bool) {
	for i := len(objects) - 1; i >= 0; i-- {
		obj := objects[i]
		ox, oy, ok := view.Project(obj.Lat, obj.Lng)
		if !ok {
			continue
		}
		cols, rows := catalog.Footprint(signs.Resolve(obj.Type), obj.Scale)
		halfW := cols / 2
		halfH := rows / 2
		if x >= ox-halfW && x <= ox+max(1, halfW) && y >= oy-halfH && y <= oy+halfH {
			return obj.ID, true
		}
	}
	return "", false
}
