// internal/tui/app.go
//
// This is the main TUI for the traffic control plan editor.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> Controller -> View -> Screen

package tui

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/tcp-planner/internal/catalog"
	"github.com/kingrea/tcp-planner/internal/config"
	"github.com/kingrea/tcp-planner/internal/controller"
	"github.com/kingrea/tcp-planner/internal/logbook"
	"github.com/kingrea/tcp-planner/internal/mapview"
	"github.com/kingrea/tcp-planner/internal/plan"
)

const (
	sidePanelWidth = 30
	headerHeight   = 2
	logLines       = 5
	logPanelHeight = logLines + 3

	rotateStep = 15.0
	scaleStep  = 0.1
)

// focusArea is which panel receives key presses.
type focusArea int

const (
	focusMap focusArea = iota
	focusCatalog
	focusPrompt
)

// dragState tracks a marker being moved. Only the release commits.
type dragState struct {
	id       string
	lat      float64
	lng      float64
	moved    bool
	keyboard bool
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithController overrides the controller the editor drives.
func WithController(c *controller.Controller) AppOption {
	return func(a *App) {
		if c != nil {
			a.ctrl = c
		}
	}
}

// WithInitialPlan imports a plan file when the editor opens.
func WithInitialPlan(path string) AppOption {
	return func(a *App) {
		a.initialPlan = strings.TrimSpace(path)
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config  *config.Config
	logbook *logbook.Logbook
	ctrl    *controller.Controller

	view    mapview.Viewport
	cursorX int
	cursorY int
	drag    *dragState

	signs  list.Model
	prompt textinput.Model
	keys   keyMap
	help   help.Model
	focus  focusArea

	initialPlan string
	statusMsg   string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// signItem implements list.Item for the catalog panel.
type signItem struct {
	def    catalog.SignDefinition
	chosen bool
}

func (i signItem) Title() string {
	marker := " "
	if i.chosen {
		marker = "●"
	}
	return fmt.Sprintf("%s %c %s", marker, catalog.Symbol(i.def), i.def.ID)
}
func (i signItem) Description() string { return i.def.Name }
func (i signItem) FilterValue() string { return i.def.ID }

// NewApp creates a new App instance for the project directory.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, logErr := logbook.New(cfg.SessionLogPath())
	ids, err := plan.GeneratorFor(cfg.IDScheme())
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	signs := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	signs.Title = "SIGNS"
	signs.SetShowStatusBar(false)
	signs.SetShowHelp(false)
	signs.SetFilteringEnabled(false)

	prompt := textinput.New()
	prompt.Prompt = "Import plan: "
	prompt.Placeholder = "path/to/tcp_plan.json"

	lat, lng, zoom := cfg.Home()
	app := &App{
		config:  cfg,
		logbook: lb,
		ctrl: controller.New(
			plan.NewStore(plan.WithIDGenerator(ids)),
			catalog.Default(),
			controller.WithObserver(lb),
		),
		view:      mapview.Viewport{CenterLat: lat, CenterLng: lng, Zoom: zoom, Width: 40, Height: 12},
		signs:     signs,
		prompt:    prompt,
		keys:      defaultKeyMap(),
		help:      help.New(),
		focus:     focusMap,
		statusMsg: "tab: choose a sign · p: place on map · v: add closure vertex",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.centerCursor()
	app.refreshSignItems()
	app.logInfo("Session opened · %s", app.ctrl.Export())

	if app.initialPlan != "" {
		if err := app.ctrl.ImportFile(app.initialPlan); err != nil {
			return nil, fmt.Errorf("tui: open %s: %w", app.initialPlan, err)
		}
		app.focusPlan()
		app.statusMsg = fmt.Sprintf("Opened %s", app.initialPlan)
	}
	if logErr != nil {
		app.statusMsg = fmt.Sprintf("Session log unavailable: %v", logErr)
	}
	return app, nil
}

// Controller exposes the editing controller.
func (a *App) Controller() *controller.Controller { return a.ctrl }

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.focus {
		case focusPrompt:
			return a.updatePrompt(msg)
		case focusCatalog:
			return a.updateCatalog(msg)
		default:
			return a.updateMap(msg)
		}
	}
	return a, nil
}

func (a *App) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.logInfo("Session closed · %s", a.ctrl.Export())
		return a, tea.Quit
	case key.Matches(msg, a.keys.PanUp):
		a.pan(0, -1)
	case key.Matches(msg, a.keys.PanDown):
		a.pan(0, 1)
	case key.Matches(msg, a.keys.PanLeft):
		a.pan(-2, 0)
	case key.Matches(msg, a.keys.PanRight):
		a.pan(2, 0)
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(0, -1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(0, 1)
	case key.Matches(msg, a.keys.Left):
		a.moveCursor(-1, 0)
	case key.Matches(msg, a.keys.Right):
		a.moveCursor(1, 0)
	case key.Matches(msg, a.keys.Click):
		if a.drag != nil && a.drag.keyboard {
			a.finishDrag()
			break
		}
		a.pressAt(a.cursorX, a.cursorY, false, false)
	case key.Matches(msg, a.keys.Vertex):
		a.pressAt(a.cursorX, a.cursorY, true, false)
	case key.Matches(msg, a.keys.TogglePlace):
		a.togglePlacing()
	case key.Matches(msg, a.keys.Focus):
		a.focus = focusCatalog
		a.statusMsg = "enter: choose sign · tab: back to map"
	case key.Matches(msg, a.keys.RotateLeft):
		a.rotateSelected(-rotateStep)
	case key.Matches(msg, a.keys.RotateRight):
		a.rotateSelected(rotateStep)
	case key.Matches(msg, a.keys.ScaleDown):
		a.scaleSelected(-scaleStep)
	case key.Matches(msg, a.keys.ScaleUp):
		a.scaleSelected(scaleStep)
	case key.Matches(msg, a.keys.Delete):
		a.deleteSelected()
	case key.Matches(msg, a.keys.Cancel):
		a.cancel()
	case key.Matches(msg, a.keys.Move):
		a.beginKeyboardMove()
	case key.Matches(msg, a.keys.Export):
		a.export()
	case key.Matches(msg, a.keys.Import):
		return a, a.openPrompt()
	case key.Matches(msg, a.keys.ZoomIn):
		a.view = a.view.ZoomIn()
		a.statusMsg = fmt.Sprintf("Zoom %d", a.view.Zoom)
	case key.Matches(msg, a.keys.ZoomOut):
		a.view = a.view.ZoomOut()
		a.statusMsg = fmt.Sprintf("Zoom %d", a.view.Zoom)
	case key.Matches(msg, a.keys.Home):
		a.saveHome()
	case key.Matches(msg, a.keys.Center):
		a.centerOnCursor()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
	}
	return a, nil
}

func (a *App) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Focus), key.Matches(msg, a.keys.Cancel):
		a.focus = focusMap
		a.statusMsg = ""
		return a, nil
	case msg.String() == "enter":
		if item, ok := a.signs.SelectedItem().(signItem); ok {
			a.selectSign(item.def.ID)
		}
		return a, nil
	case key.Matches(msg, a.keys.TogglePlace):
		a.togglePlacing()
		return a, nil
	case key.Matches(msg, a.keys.ClearSign):
		a.clearSign()
		return a, nil
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.signs, cmd = a.signs.Update(msg)
	return a, cmd
}

func (a *App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closePrompt()
		a.statusMsg = "Import cancelled"
		return a, nil
	case "enter":
		path := strings.TrimSpace(a.prompt.Value())
		a.closePrompt()
		if path == "" {
			a.statusMsg = "Import cancelled"
			return a, nil
		}
		a.importFile(path)
		return a, nil
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.focus == focusPrompt {
		return a, nil
	}
	l := a.layout()
	x, y := msg.X-l.mapX, msg.Y-l.mapY
	inMap := a.view.Contains(x, y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inMap:
		a.view = a.view.ZoomIn()
	case msg.Button == tea.MouseButtonWheelDown && inMap:
		a.view = a.view.ZoomOut()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inMap {
			if msg.X < sidePanelWidth {
				a.focus = focusCatalog
			}
			return a, nil
		}
		a.focus = focusMap
		a.cursorX, a.cursorY = x, y
		a.pressAt(x, y, msg.Shift, true)
	case msg.Action == tea.MouseActionMotion && a.drag != nil && !a.drag.keyboard:
		if inMap {
			a.cursorX, a.cursorY = x, y
			a.drag.lat, a.drag.lng = a.view.CellToCoord(x, y)
			a.drag.moved = true
		}
	case msg.Action == tea.MouseActionRelease && a.drag != nil && !a.drag.keyboard:
		a.finishDrag()
	}
	return a, nil
}

// pressAt is a click on map cell (x, y). Plain clicks on a marker select it;
// everything else goes to the controller as a map click.
func (a *App) pressAt(x, y int, shift, startDrag bool) {
	if !shift {
		if id, ok := a.hitTest(x, y); ok {
			a.selectMarker(id)
			if obj, ok := a.ctrl.Selected(); ok && startDrag {
				a.drag = &dragState{id: id, lat: obj.Lat, lng: obj.Lng}
			}
			return
		}
	}
	lat, lng := a.view.CellToCoord(x, y)
	out := a.ctrl.MapClick(lat, lng, shift)
	a.reportOutcome(out, shift)
}

func (a *App) reportOutcome(out controller.Outcome, shift bool) {
	switch out.Kind {
	case controller.OutcomePlaced:
		obj, _ := a.ctrl.Store().Object(out.ObjectID)
		a.statusMsg = fmt.Sprintf("Placed %s · press p to place another", obj.Type)
	case controller.OutcomeVertexAdded:
		a.statusMsg = fmt.Sprintf("Closure vertex %d at %.6f, %.6f",
			len(a.ctrl.Store().Polyline()), out.Vertex.Lat(), out.Vertex.Lng())
	default:
		mode := a.ctrl.Mode()
		switch {
		case shift:
			a.statusMsg = "Vertices cannot be added while placing"
		case controller.IsPlacing(mode):
			a.statusMsg = ""
		default:
			if sign, ok := controller.SignOf(mode); ok {
				a.statusMsg = fmt.Sprintf("Press p to place %s", sign.ID)
			} else {
				a.statusMsg = "Choose a sign (tab), then press p to place it"
			}
		}
	}
}

func (a *App) hitTest(x, y int) (string, bool) {
	return mapview.HitTest(a.view, a.ctrl.Store().Objects(), a.ctrl.Catalog(), x, y)
}

func (a *App) selectMarker(id string) {
	if a.ctrl.MarkerClick(id) {
		obj, _ := a.ctrl.Selected()
		a.statusMsg = fmt.Sprintf("Selected %s · [ ] rotate · - = scale · x delete", obj.Type)
	}
}

func (a *App) selectSign(id string) {
	if err := a.ctrl.SelectSign(id); err != nil {
		a.statusMsg = err.Error()
		return
	}
	a.refreshSignItems()
	if controller.IsPlacing(a.ctrl.Mode()) {
		a.statusMsg = fmt.Sprintf("Placing %s · click the map", id)
		return
	}
	a.statusMsg = fmt.Sprintf("%s chosen · press p to place on map", id)
}

func (a *App) clearSign() {
	if _, ok := controller.SignOf(a.ctrl.Mode()); !ok {
		a.statusMsg = "No sign chosen"
		return
	}
	a.ctrl.ClearSign()
	a.refreshSignItems()
	a.statusMsg = "Sign cleared"
}

func (a *App) togglePlacing() {
	if err := a.ctrl.TogglePlacing(); err != nil {
		if errors.Is(err, controller.ErrNoSign) {
			a.statusMsg = "Choose a sign first (tab)"
			return
		}
		a.statusMsg = err.Error()
		return
	}
	if controller.IsPlacing(a.ctrl.Mode()) {
		a.statusMsg = "Placing: ON · click the map to place"
	} else {
		a.statusMsg = "Placing: off"
	}
}

func (a *App) rotateSelected(delta float64) {
	obj, ok := a.ctrl.Selected()
	if !ok {
		a.statusMsg = "Nothing selected"
		return
	}
	a.ctrl.SetRotation(obj.ID, obj.Rotate+delta)
	obj, _ = a.ctrl.Selected()
	a.statusMsg = fmt.Sprintf("Rotate %.0f°", obj.Rotate)
}

func (a *App) scaleSelected(delta float64) {
	obj, ok := a.ctrl.Selected()
	if !ok {
		a.statusMsg = "Nothing selected"
		return
	}
	a.ctrl.SetScale(obj.ID, math.Round((obj.Scale+delta)*10)/10)
	obj, _ = a.ctrl.Selected()
	a.statusMsg = fmt.Sprintf("Scale %.1f×", obj.Scale)
}

func (a *App) deleteSelected() {
	obj, ok := a.ctrl.Selected()
	if !ok {
		a.statusMsg = "Nothing selected"
		return
	}
	if a.drag != nil && a.drag.id == obj.ID {
		a.drag = nil
	}
	if a.ctrl.Delete(obj.ID) {
		a.statusMsg = fmt.Sprintf("Deleted %s", obj.Type)
	}
}

func (a *App) cancel() {
	switch {
	case a.drag != nil:
		a.drag = nil
		a.statusMsg = "Move cancelled"
	case controller.IsPlacing(a.ctrl.Mode()):
		a.togglePlacing()
	default:
		a.ctrl.Deselect()
		a.statusMsg = ""
	}
}

func (a *App) beginKeyboardMove() {
	obj, ok := a.ctrl.Selected()
	if !ok {
		a.statusMsg = "Select a marker to move"
		return
	}
	a.drag = &dragState{id: obj.ID, lat: obj.Lat, lng: obj.Lng, keyboard: true}
	if x, y, visible := a.view.CoordToCell(obj.Lat, obj.Lng); visible {
		a.cursorX, a.cursorY = x, y
	}
	a.statusMsg = "Moving · arrows to move, enter to drop, esc to cancel"
}

func (a *App) finishDrag() {
	d := a.drag
	a.drag = nil
	if d == nil || !d.moved {
		return
	}
	if a.ctrl.DragEnd(d.id, d.lat, d.lng) {
		a.statusMsg = fmt.Sprintf("Moved to %.6f, %.6f", d.lat, d.lng)
	}
}

func (a *App) export() {
	dir := "."
	compress := false
	if a.config != nil {
		dir = a.config.ExportDir()
		compress = a.config.CompressExports()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		return
	}
	path, err := a.ctrl.ExportFile(dir, compress)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Exported %s", path)
}

func (a *App) openPrompt() tea.Cmd {
	a.focus = focusPrompt
	a.prompt.SetValue("")
	return a.prompt.Focus()
}

func (a *App) closePrompt() {
	a.prompt.Blur()
	a.focus = focusMap
}

func (a *App) importFile(path string) {
	if err := a.ctrl.ImportFile(path); err != nil {
		a.statusMsg = "Import failed: " + describeImportError(err)
		return
	}
	a.drag = nil
	a.refreshSignItems()
	a.focusPlan()
	p := a.ctrl.Export()
	a.statusMsg = fmt.Sprintf("Imported %d objects, %d vertices", len(p.Objects), len(p.Polyline))
}

func describeImportError(err error) string {
	var verr *plan.ValidationError
	if errors.As(err, &verr) && len(verr.Issues) > 0 {
		first := verr.Issues[0].String()
		if len(verr.Issues) == 1 {
			return first
		}
		return fmt.Sprintf("%s (+%d more: %s)", first, len(verr.Issues)-1, strings.Join(verr.Fields()[1:], ", "))
	}
	var perr *plan.ParseError
	if errors.As(err, &perr) {
		return "not valid JSON"
	}
	return err.Error()
}

func (a *App) saveHome() {
	if a.config == nil {
		return
	}
	if err := a.config.SetHome(a.view.CenterLat, a.view.CenterLng, a.view.Zoom); err != nil {
		a.logWarn("Home view not saved: %v", err)
		a.statusMsg = fmt.Sprintf("Home view not saved: %v", err)
		return
	}
	a.logInfo("Home view · %.6f, %.6f z%d", a.view.CenterLat, a.view.CenterLng, a.view.Zoom)
	a.statusMsg = "Home view saved"
}

func (a *App) moveCursor(dx, dy int) {
	x, y := a.cursorX+dx, a.cursorY+dy
	panX, panY := 0, 0
	switch {
	case x < 0:
		panX, x = x, 0
	case x >= a.view.Width:
		panX, x = x-a.view.Width+1, a.view.Width-1
	}
	switch {
	case y < 0:
		panY, y = y, 0
	case y >= a.view.Height:
		panY, y = y-a.view.Height+1, a.view.Height-1
	}
	if panX != 0 || panY != 0 {
		a.view = a.view.Pan(panX, panY)
	}
	a.cursorX, a.cursorY = x, y
	if a.drag != nil && a.drag.keyboard {
		a.drag.lat, a.drag.lng = a.view.CellToCoord(x, y)
		a.drag.moved = true
	}
}

func (a *App) pan(dx, dy int) {
	a.view = a.view.Pan(dx, dy)
}

func (a *App) centerCursor() {
	a.cursorX, a.cursorY = a.view.Width/2, a.view.Height/2
}

func (a *App) centerOnCursor() {
	lat, lng := a.view.CellToCoord(a.cursorX, a.cursorY)
	a.view.CenterLat, a.view.CenterLng = lat, lng
	a.centerCursor()
}

// focusPlan centers the view on the first object, or the first closure
// vertex when there are no objects.
func (a *App) focusPlan() {
	p := a.ctrl.Export()
	switch {
	case len(p.Objects) > 0:
		a.view.CenterLat, a.view.CenterLng = p.Objects[0].Lat, p.Objects[0].Lng
	case len(p.Polyline) > 0:
		a.view.CenterLat, a.view.CenterLng = p.Polyline[0].Lat(), p.Polyline[0].Lng()
	default:
		return
	}
	a.centerCursor()
}

func (a *App) refreshSignItems() {
	chosen, _ := controller.SignOf(a.ctrl.Mode())
	defs := a.ctrl.Catalog().All()
	items := make([]list.Item, len(defs))
	for i, def := range defs {
		items[i] = signItem{def: def, chosen: def.ID == chosen.ID}
	}
	idx := a.signs.Index()
	a.signs.SetItems(items)
	a.signs.Select(idx)
}

type layout struct {
	mapX int
	mapY int
	mapW int
	mapH int
}

// layout computes where the map sits on screen. View renders with the same
// numbers so mouse coordinates line up with canvas cells.
func (a *App) layout() layout {
	width := a.screenWidth()
	height := a.height
	if height <= 0 {
		height = 32
	}
	helpHeight := lineCount(a.help.View(a.keys))
	mapW := width - 2*sidePanelWidth - 2
	if mapW < 10 {
		mapW = 10
	}
	mapH := height - headerHeight - 2 - logPanelHeight - 1 - helpHeight
	if mapH < 3 {
		mapH = 3
	}
	return layout{mapX: sidePanelWidth + 1, mapY: headerHeight + 1, mapW: mapW, mapH: mapH}
}

func (a *App) resize() {
	a.help.Width = a.width
	l := a.layout()
	a.view = a.view.Resize(l.mapW, l.mapH)
	a.signs.SetSize(sidePanelWidth-4, max(4, l.mapH-3))
	a.prompt.Width = max(20, a.width-len(a.prompt.Prompt)-2)
	if !a.view.Contains(a.cursorX, a.cursorY) {
		a.centerCursor()
	}
}

func (a *App) screenWidth() int {
	if a.width <= 0 {
		return 100
	}
	return a.width
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
