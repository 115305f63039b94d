package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/tcp-planner/internal/catalog"
	"github.com/kingrea/tcp-planner/internal/plan"
)

type recorder struct {
	lines []string
}

func (r *recorder) Info(format string, args ...any) {
	r.lines = append(r.lines, "INFO "+fmt.Sprintf(format, args...))
}

func (r *recorder) Warn(format string, args ...any) {
	r.lines = append(r.lines, "WARN "+fmt.Sprintf(format, args...))
}

func (r *recorder) Error(format string, args ...any) {
	r.lines = append(r.lines, "ERROR "+fmt.Sprintf(format, args...))
}

func newController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	return New(plan.NewStore(), catalog.Default(), opts...)
}

func TestMapClickIgnoredWhenNotPlacing(t *testing.T) {
	c := newController(t)
	out := c.MapClick(10, 20, false)
	assert.Equal(t, OutcomeIgnored, out.Kind)

	require.NoError(t, c.SelectSign("W20-1"))
	out = c.MapClick(10, 20, false)
	assert.Equal(t, OutcomeIgnored, out.Kind, "sign chosen but placing off")
	assert.Equal(t, 0, c.Store().Len())
}

func TestPlacementIsOneShot(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.SelectSign("W20-1"))
	require.NoError(t, c.TogglePlacing())
	assert.True(t, IsPlacing(c.Mode()))

	out := c.MapClick(10, 20, false)
	require.Equal(t, OutcomePlaced, out.Kind)
	assert.Equal(t, 1, c.Store().Len())
	assert.Equal(t, out.ObjectID, c.SelectedID())
	assert.False(t, IsPlacing(c.Mode()), "placing must turn off after a placement")
	sign, ok := SignOf(c.Mode())
	require.True(t, ok)
	assert.Equal(t, "W20-1", sign.ID, "chosen sign is kept")

	obj, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, plan.PlacedObject{ID: out.ObjectID, Type: "W20-1", Lat: 10, Lng: 20, Rotate: 0, Scale: 1}, obj)

	assert.Equal(t, OutcomeIgnored, c.MapClick(11, 21, false).Kind)
	assert.Equal(t, 1, c.Store().Len())
}

func TestTogglePlacingRequiresSign(t *testing.T) {
	c := newController(t)
	assert.ErrorIs(t, c.TogglePlacing(), ErrNoSign)
	assert.IsType(t, Idle{}, c.Mode())

	require.NoError(t, c.SelectSign("W1-2"))
	require.NoError(t, c.TogglePlacing())
	require.NoError(t, c.TogglePlacing())
	assert.Equal(t, SelectingSign{Sign: mustSign(t, "W1-2")}, c.Mode())

	c.ClearSign()
	assert.IsType(t, Idle{}, c.Mode())
}

func TestSelectSignWhilePlacingKeepsPlacing(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.SelectSign("W1-2"))
	require.NoError(t, c.TogglePlacing())
	require.NoError(t, c.SelectSign("channelizer"))
	assert.Equal(t, Placing{Sign: mustSign(t, "channelizer")}, c.Mode())

	out := c.MapClick(1, 2, false)
	obj, _ := c.Store().Object(out.ObjectID)
	assert.Equal(t, "channelizer", obj.Type)
}

func TestSelectUnknownSign(t *testing.T) {
	c := newController(t)
	err := c.SelectSign("nope")
	assert.ErrorIs(t, err, catalog.ErrUnknownSign)
	assert.IsType(t, Idle{}, c.Mode())
}

func TestShiftClickAppendsVertexOnlyWhenNotPlacing(t *testing.T) {
	c := newController(t)
	out := c.MapClick(10, 20, true)
	require.Equal(t, OutcomeVertexAdded, out.Kind)
	assert.Equal(t, plan.Vertex{10, 20}, out.Vertex)

	require.NoError(t, c.SelectSign("W20-1"))
	out = c.MapClick(10.1, 20.1, true)
	assert.Equal(t, OutcomeVertexAdded, out.Kind, "a chosen sign alone does not block sketching")

	require.NoError(t, c.TogglePlacing())
	out = c.MapClick(10.2, 20.2, true)
	assert.Equal(t, OutcomeIgnored, out.Kind)
	assert.Equal(t, []plan.Vertex{{10, 20}, {10.1, 20.1}}, c.Store().Polyline())
	assert.Equal(t, 0, c.Store().Len())
	assert.True(t, IsPlacing(c.Mode()), "ignored shift-click leaves placing on")
}

func TestMarkerClickSwitchesSelection(t *testing.T) {
	c := newController(t)
	a := c.Store().AddObject("W20-1", 0, 0)
	b := c.Store().AddObject("W1-2", 1, 1)

	require.True(t, c.MarkerClick(a))
	assert.Equal(t, a, c.SelectedID())
	require.True(t, c.MarkerClick(b))
	assert.Equal(t, b, c.SelectedID())
	assert.False(t, c.MarkerClick("ghost"))
	assert.Equal(t, b, c.SelectedID())

	c.Deselect()
	assert.Empty(t, c.SelectedID())
}

func TestDragEndAndSliders(t *testing.T) {
	c := newController(t)
	id := c.Store().AddObject("W20-1", 0, 0)

	require.True(t, c.DragEnd(id, 5, 6))
	require.True(t, c.SetRotation(id, 400))
	require.True(t, c.SetScale(id, 5.0))
	obj, _ := c.Store().Object(id)
	assert.Equal(t, plan.PlacedObject{ID: id, Type: "W20-1", Lat: 5, Lng: 6, Rotate: 360, Scale: 2}, obj)

	assert.False(t, c.DragEnd("ghost", 1, 1))
	assert.False(t, c.SetRotation("ghost", 1))
	assert.False(t, c.SetScale("ghost", 1))
}

func TestDeleteClearsSelection(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.SelectSign("W20-1"))
	require.NoError(t, c.TogglePlacing())
	out := c.MapClick(1, 1, false)

	require.True(t, c.Delete(out.ObjectID))
	assert.Empty(t, c.Store().Objects())
	assert.Empty(t, c.SelectedID())
	assert.False(t, c.Delete(out.ObjectID), "double delete is a no-op")
}

func TestDeleteOtherObjectKeepsSelection(t *testing.T) {
	c := newController(t)
	a := c.Store().AddObject("W20-1", 0, 0)
	b := c.Store().AddObject("W1-2", 1, 1)
	c.MarkerClick(a)
	require.True(t, c.Delete(b))
	assert.Equal(t, a, c.SelectedID())
	require.True(t, c.DeleteSelected())
	assert.Empty(t, c.SelectedID())
	assert.False(t, c.DeleteSelected())
}

func TestImportResetsTransientState(t *testing.T) {
	rec := &recorder{}
	c := newController(t, WithObserver(rec))
	require.NoError(t, c.SelectSign("W20-1"))
	require.NoError(t, c.TogglePlacing())
	c.MapClick(1, 1, false)

	doc := `{"version":1,"objects":[{"id":"a","type":"W8-7","lat":3,"lng":4,"rotate":90,"scale":1.5}],"polyline":[[3,4]]}`
	require.NoError(t, c.Import([]byte(doc)))
	assert.IsType(t, Idle{}, c.Mode())
	assert.Empty(t, c.SelectedID())
	assert.Equal(t, []plan.PlacedObject{{ID: "a", Type: "W8-7", Lat: 3, Lng: 4, Rotate: 90, Scale: 1.5}}, c.Store().Objects())
	assert.Equal(t, []plan.Vertex{{3, 4}}, c.Store().Polyline())
}

func TestImportFailureLeavesEverythingIntact(t *testing.T) {
	rec := &recorder{}
	c := newController(t, WithObserver(rec))
	require.NoError(t, c.SelectSign("W20-1"))
	require.NoError(t, c.TogglePlacing())
	out := c.MapClick(1, 1, false)
	require.NoError(t, c.TogglePlacing())
	before := c.Export()
	mode := c.Mode()

	err := c.Import([]byte(`{"foo": 1}`))
	require.ErrorIs(t, err, plan.ErrInvalidPlan)
	assert.Equal(t, before, c.Export())
	assert.Equal(t, mode, c.Mode())
	assert.Equal(t, out.ObjectID, c.SelectedID())

	last := rec.lines[len(rec.lines)-1]
	assert.True(t, strings.HasPrefix(last, "WARN Import rejected"), "import failures must be surfaced, got %q", last)
}

func TestExportImportFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	at := time.UnixMilli(1_700_000_000_000)
	src := newController(t, WithClock(func() time.Time { return at }))
	src.Store().AddObject("W20-1", 10, 20)
	src.MapClick(10, 20, true)
	src.MapClick(10.1, 20.1, true)

	path, err := src.ExportFile(dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tcp_plan_1700000000000.json"), path)

	dst := newController(t)
	require.NoError(t, dst.ImportFile(path))
	assert.Equal(t, src.Export(), dst.Export())

	zpath, err := src.ExportFile(dir, true)
	require.NoError(t, err)
	dst2 := newController(t)
	require.NoError(t, dst2.ImportFile(zpath))
	assert.Equal(t, src.Export(), dst2.Export())
}

func TestImportFileMissing(t *testing.T) {
	c := newController(t)
	err := c.ImportFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func mustSign(t *testing.T, id string) catalog.SignDefinition {
	t.Helper()
	sign, ok := catalog.Default().Lookup(id)
	require.True(t, ok, "sign %s", id)
	return sign
}
