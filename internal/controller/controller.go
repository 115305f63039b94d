// Package controller translates map and panel events into plan mutations and
// owns the transient editing state: the placement mode and the selected
// object. Every method is a synchronous state transition driven by a single
// user input.
package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kingrea/tcp-planner/internal/catalog"
	"github.com/kingrea/tcp-planner/internal/plan"
)

// ErrNoSign is returned when placing is requested without a chosen sign.
var ErrNoSign = errors.New("controller: no sign selected")

// Observer receives a line for every state change. *logbook.Logbook
// satisfies it.
type Observer interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// OutcomeKind classifies the effect of a map click.
type OutcomeKind int

const (
	// OutcomeIgnored means the click had no effect on the plan.
	OutcomeIgnored OutcomeKind = iota
	// OutcomePlaced means a new object was created and selected.
	OutcomePlaced
	// OutcomeVertexAdded means a polyline vertex was appended.
	OutcomeVertexAdded
)

// Outcome reports what a map click did.
type Outcome struct {
	Kind     OutcomeKind
	ObjectID string
	Vertex   plan.Vertex
}

// Controller mediates between map events and the plan store.
type Controller struct {
	store    *plan.Store
	catalog  *catalog.Catalog
	mode     Mode
	selected string
	observer Observer
	now      func() time.Time
}

// Option customizes a Controller.
type Option func(*Controller)

// WithObserver attaches an activity log.
func WithObserver(obs Observer) Option {
	return func(c *Controller) {
		c.observer = obs
	}
}

// WithClock overrides the clock used to name exported files.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.now = clock
		}
	}
}

// New builds a controller over store using the given sign catalog. A nil
// catalog means the built-in library.
func New(store *plan.Store, signs *catalog.Catalog, opts ...Option) *Controller {
	if store == nil {
		store = plan.NewStore()
	}
	if signs == nil {
		signs = catalog.Default()
	}
	c := &Controller{
		store:   store,
		catalog: signs,
		mode:    Idle{},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Store exposes the underlying plan store for read access.
func (c *Controller) Store() *plan.Store { return c.store }

// Catalog returns the sign library in use.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// Mode returns the current placement mode.
func (c *Controller) Mode() Mode { return c.mode }

// SelectedID returns the selected object ID, or "" when nothing is selected.
func (c *Controller) SelectedID() string { return c.selected }

// Selected returns the selected object, if it still exists.
func (c *Controller) Selected() (plan.PlacedObject, bool) {
	if c.selected == "" {
		return plan.PlacedObject{}, false
	}
	return c.store.Object(c.selected)
}

// SelectSign chooses a sign from the catalog. While placing, the mode keeps
// placing with the new sign.
func (c *Controller) SelectSign(id string) error {
	sign, ok := c.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownSign, id)
	}
	if IsPlacing(c.mode) {
		c.mode = Placing{Sign: sign}
	} else {
		c.mode = SelectingSign{Sign: sign}
	}
	c.logInfo("Sign · %s selected", sign.ID)
	return nil
}

// ClearSign drops the chosen sign and leaves placing mode.
func (c *Controller) ClearSign() {
	if _, ok := SignOf(c.mode); !ok {
		return
	}
	c.mode = Idle{}
	c.logInfo("Sign · cleared")
}

// TogglePlacing switches placing on or off. It returns ErrNoSign when no sign
// has been chosen.
func (c *Controller) TogglePlacing() error {
	switch m := c.mode.(type) {
	case SelectingSign:
		c.mode = Placing{Sign: m.Sign}
		c.logInfo("Placing · on (%s)", m.Sign.ID)
	case Placing:
		c.mode = SelectingSign{Sign: m.Sign}
		c.logInfo("Placing · off")
	default:
		return ErrNoSign
	}
	return nil
}

// MapClick handles a click on the map surface at a coordinate. A plain click
// while placing creates an object and ends placing; a shift-click while not
// placing appends a polyline vertex. Every other click is ignored.
func (c *Controller) MapClick(lat, lng float64, shift bool) Outcome {
	placing, isPlacing := c.mode.(Placing)
	switch {
	case !shift && isPlacing:
		id := c.store.AddObject(placing.Sign.ID, lat, lng)
		c.selected = id
		c.mode = SelectingSign{Sign: placing.Sign}
		c.logInfo("Placed · %s %s at %.6f, %.6f", placing.Sign.ID, id, lat, lng)
		return Outcome{Kind: OutcomePlaced, ObjectID: id}
	case shift && !isPlacing:
		c.store.AppendVertex(lat, lng)
		c.logInfo("Polyline · vertex %d at %.6f, %.6f", len(c.store.Polyline()), lat, lng)
		return Outcome{Kind: OutcomeVertexAdded, Vertex: plan.NewVertex(lat, lng)}
	default:
		return Outcome{Kind: OutcomeIgnored}
	}
}

// MarkerClick selects an existing object.
func (c *Controller) MarkerClick(id string) bool {
	if _, ok := c.store.Object(id); !ok {
		return false
	}
	c.selected = id
	return true
}

// Deselect clears the selection.
func (c *Controller) Deselect() {
	c.selected = ""
}

// DragEnd commits the final position of a dragged marker.
func (c *Controller) DragEnd(id string, lat, lng float64) bool {
	if !c.store.UpdatePosition(id, lat, lng) {
		return false
	}
	c.logInfo("Moved · %s to %.6f, %.6f", id, lat, lng)
	return true
}

// SetRotation applies a rotation slider value.
func (c *Controller) SetRotation(id string, degrees float64) bool {
	return c.store.UpdateRotation(id, degrees)
}

// SetScale applies a scale slider value.
func (c *Controller) SetScale(id string, factor float64) bool {
	return c.store.UpdateScale(id, factor)
}

// Delete removes an object and clears the selection if it pointed at it.
func (c *Controller) Delete(id string) bool {
	if !c.store.DeleteObject(id) {
		return false
	}
	if c.selected == id {
		c.selected = ""
	}
	c.logInfo("Deleted · %s", id)
	return true
}

// DeleteSelected removes the selected object.
func (c *Controller) DeleteSelected() bool {
	if c.selected == "" {
		return false
	}
	return c.Delete(c.selected)
}

// Export returns the current plan document.
func (c *Controller) Export() plan.Plan {
	return c.store.Serialize()
}

// ExportFile writes the plan into dir as tcp_plan_<unix-ms>.json (or
// .json.zst) and returns the written path.
func (c *Controller) ExportFile(dir string, compressed bool) (string, error) {
	path := filepath.Join(dir, plan.ExportFileName(c.now(), compressed))
	p := c.store.Serialize()
	if err := plan.WriteFile(path, p); err != nil {
		c.logError("Export failed: %v", err)
		return "", err
	}
	c.logInfo("Exported · %s → %s", p, path)
	return path, nil
}

// Import replaces the plan with a document. On failure nothing changes and
// the structured error is returned; on success the transient state resets.
func (c *Controller) Import(data []byte) error {
	if err := c.store.Deserialize(data); err != nil {
		c.logWarn("Import rejected: %v", err)
		return err
	}
	c.resetTransient()
	c.logInfo("Imported · %s", c.store.Serialize())
	return nil
}

// ImportFile reads a plan file from disk and imports it.
func (c *Controller) ImportFile(path string) error {
	data, err := plan.ReadFileBytes(path)
	if err != nil {
		c.logWarn("Import rejected: %v", err)
		return err
	}
	return c.Import(data)
}

func (c *Controller) resetTransient() {
	c.mode = Idle{}
	c.selected = ""
}

func (c *Controller) logInfo(format string, args ...any) {
	if c.observer == nil {
		return
	}
	c.observer.Info(format, args...)
}

func (c *Controller) logWarn(format string, args ...any) {
	if c.observer == nil {
		return
	}
	c.observer.Warn(format, args...)
}

func (c *Controller) logError(format string, args ...any) {
	if c.observer == nil {
		return
	}
	c.observer.Error(format, args...)
}
