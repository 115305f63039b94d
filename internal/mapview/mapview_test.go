package mapview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/tcp-planner/internal/catalog"
	"github.com/kingrea/tcp-planner/internal/plan"
)

func testView() Viewport {
	return Viewport{CenterLat: 0, CenterLng: 0, Zoom: 10, Width: 40, Height: 20}
}

func TestCellCoordRoundTrip(t *testing.T) {
	v := testView()
	lat, lng := v.CellToCoord(20, 10)
	assert.Equal(t, 0.0, lat)
	assert.Equal(t, 0.0, lng)

	for _, c := range [][2]int{{0, 0}, {5, 3}, {39, 19}, {21, 10}} {
		lat, lng := v.CellToCoord(c[0], c[1])
		x, y, ok := v.CoordToCell(lat, lng)
		require.True(t, ok)
		assert.Equal(t, c, [2]int{x, y})
	}

	_, _, ok := v.CoordToCell(50, 50)
	assert.False(t, ok)
}

func TestRowsCoverMoreLatitudeThanColumnsCoverLongitudeAtEquator(t *testing.T) {
	v := testView()
	assert.InDelta(t, 2*v.ColumnSpan(), v.RowSpan(), 1e-12)
	v.CenterLat = 60
	assert.InDelta(t, v.ColumnSpan(), v.RowSpan(), 1e-9)
}

func TestPanAndZoom(t *testing.T) {
	v := testView()
	moved := v.Pan(3, -2)
	assert.InDelta(t, 3*v.ColumnSpan(), moved.CenterLng, 1e-12)
	assert.InDelta(t, 2*v.RowSpan(), moved.CenterLat, 1e-12)

	assert.Equal(t, 11, v.ZoomIn().Zoom)
	assert.Equal(t, 9, v.ZoomOut().Zoom)
	v.Zoom = MaxZoom
	assert.Equal(t, MaxZoom, v.ZoomIn().Zoom)
	v.Zoom = MinZoom
	assert.Equal(t, MinZoom, v.ZoomOut().Zoom)
	assert.InDelta(t, v.ColumnSpan()/2, v.ZoomIn().ColumnSpan(), 1e-12)
}

func TestPanClampsLatitude(t *testing.T) {
	v := Viewport{CenterLat: 84.9, Zoom: 1, Width: 10, Height: 10}
	assert.Equal(t, 85.0, v.Pan(0, -100).CenterLat)
}

func TestResizeKeepsPositiveDimensions(t *testing.T) {
	v := testView().Resize(0, -3)
	assert.Equal(t, 1, v.Width)
	assert.Equal(t, 1, v.Height)
}

func TestDrawObject(t *testing.T) {
	v := testView()
	signs := catalog.Default()
	c := NewCanvas(v)
	obj := plan.PlacedObject{ID: "a", Type: "W20-1", Lat: 0, Lng: 0, Rotate: 90, Scale: 1}
	c.DrawObject(obj, signs.Resolve(obj.Type), false)

	r, kind := c.At(20, 10)
	assert.Equal(t, '◆', r)
	assert.Equal(t, CellMarker, kind)
	r, _ = c.At(21, 10)
	assert.Equal(t, '→', r)

	c.DrawObject(obj, signs.Resolve(obj.Type), true)
	_, kind = c.At(20, 10)
	assert.Equal(t, CellSelected, kind)
}

func TestUnknownTypeDrawsPlaceholder(t *testing.T) {
	v := testView()
	c := NewCanvas(v)
	c.DrawObject(plan.PlacedObject{ID: "x", Type: "ZZ-9", Scale: 1}, catalog.Default().Resolve("ZZ-9"), false)
	r, _ := c.At(20, 10)
	assert.Equal(t, '?', r)
}

func TestDrawPolyline(t *testing.T) {
	v := testView()
	c := NewCanvas(v)
	aLat, aLng := v.CellToCoord(5, 10)
	bLat, bLng := v.CellToCoord(15, 10)
	c.DrawPolyline([]plan.Vertex{plan.NewVertex(aLat, aLng), plan.NewVertex(bLat, bLng)})

	r, kind := c.At(5, 10)
	assert.Equal(t, '●', r)
	assert.Equal(t, CellVertex, kind)
	for x := 6; x < 15; x++ {
		_, kind := c.At(x, 10)
		assert.Equal(t, CellPolyline, kind, "x=%d", x)
	}
	_, kind = c.At(15, 10)
	assert.Equal(t, CellVertex, kind)
	_, kind = c.At(16, 10)
	assert.Equal(t, CellEmpty, kind)
}

func TestFarPolylineDoesNotPanic(t *testing.T) {
	v := testView()
	v.Zoom = MaxZoom
	c := NewCanvas(v)
	c.DrawPolyline([]plan.Vertex{{-80, -170}, {80, 170}})
}

func TestMarkersDrawAbovePolyline(t *testing.T) {
	v := testView()
	c := NewCanvas(v)
	obj := plan.PlacedObject{ID: "a", Type: "W1-2", Scale: 1}
	c.DrawObject(obj, catalog.Default().Resolve(obj.Type), false)
	c.DrawPolyline([]plan.Vertex{{0, 0}})
	_, kind := c.At(20, 10)
	assert.Equal(t, CellMarker, kind)
}

func TestCursorAndRender(t *testing.T) {
	v := Viewport{Zoom: 10, Width: 4, Height: 2}
	c := NewCanvas(v)
	c.DrawCursor(1, 1)
	c.DrawCursor(10, 10)
	out := c.Render(nil)
	assert.Equal(t, "····\n·+··", out)
	assert.Equal(t, 2, len(strings.Split(out, "\n")))
}

func TestRotationArrow(t *testing.T) {
	cases := map[float64]rune{
		0:   '↑',
		44:  '↗',
		90:  '→',
		180: '↓',
		270: '←',
		340: '↑',
		360: '↑',
		-90: '←',
	}
	for deg, want := range cases {
		assert.Equal(t, string(want), string(RotationArrow(deg)), "deg=%v", deg)
	}
}

func TestHitTestPrefersTopmost(t *testing.T) {
	v := testView()
	signs := catalog.Default()
	objs := []plan.PlacedObject{
		{ID: "under", Type: "W20-1", Lat: 0, Lng: 0, Scale: 1},
		{ID: "over", Type: "W1-2", Lat: 0, Lng: 0, Scale: 1},
	}
	id, ok := HitTest(v, objs, signs, 20, 10)
	require.True(t, ok)
	assert.Equal(t, "over", id)

	id, ok = HitTest(v, objs, signs, 21, 10)
	require.True(t, ok, "the rotation arrow is part of the marker")
	assert.Equal(t, "over", id)

	_, ok = HitTest(v, objs, signs, 30, 2)
	assert.False(t, ok)
}

func TestHitTestGrowsWithScale(t *testing.T) {
	v := testView()
	signs := catalog.Default()
	objs := []plan.PlacedObject{{ID: "big", Type: "W20-1", Lat: 0, Lng: 0, Scale: 2}}
	_, ok := HitTest(v, objs, signs, 20, 11)
	assert.True(t, ok)
	objs[0].Scale = 1
	_, ok = HitTest(v, objs, signs, 20, 11)
	assert.False(t, ok)
}

func TestHitTestSkipsObjectsBeyondProjection(t *testing.T) {
	v := Viewport{CenterLat: 40.7128, CenterLng: -74.0060, Zoom: 17, Width: 40, Height: 20}
	objs := []plan.PlacedObject{{ID: "sydney", Type: "W20-1", Lat: -33.8688, Lng: 151.2093, Scale: 1}}

	_, _, ok := v.Project(objs[0].Lat, objs[0].Lng)
	require.False(t, ok)

	_, hit := HitTest(v, objs, catalog.Default(), 0, 0)
	assert.False(t, hit, "a far-off marker must not be found at the top-left cell")
}

func TestProjectReportsCellsOutsideView(t *testing.T) {
	v := testView()
	lat, lng := v.CellToCoord(-3, 25)
	x, y, ok := v.Project(lat, lng)
	require.True(t, ok)
	assert.Equal(t, [2]int{-3, 25}, [2]int{x, y})
	_, _, visible := v.CoordToCell(lat, lng)
	assert.False(t, visible)
}
