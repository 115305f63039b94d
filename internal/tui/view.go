package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/tcp-planner/internal/catalog"
	"github.com/kingrea/tcp-planner/internal/controller"
	"github.com/kingrea/tcp-planner/internal/logbook"
	"github.com/kingrea/tcp-planner/internal/mapview"
	"github.com/kingrea/tcp-planner/internal/plan"
)

// Styles
var (
	accentFg  = lipgloss.Color("#5B8DEF")
	borderCol = lipgloss.Color("#444444")
	dimFg     = lipgloss.Color("#888888")
	softFg    = lipgloss.Color("#AAAAAA")
	warnFg    = lipgloss.Color("#FFB020")
	errFg     = lipgloss.Color("#FF6B6B")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(errFg).MarginBottom(1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentFg)
	dimStyle    = lipgloss.NewStyle().Foreground(dimFg)
	softStyle   = lipgloss.NewStyle().Foreground(softFg)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	mapStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol)
	focusBorder = lipgloss.Color("#5B8DEF")

	placingOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111111")).Background(lipgloss.Color("#FF7F27")).Padding(0, 1)
	placingOffStyle = lipgloss.NewStyle().Foreground(softFg).Background(lipgloss.Color("#2A2A2A")).Padding(0, 1)

	canvasPalette = mapview.Palette{
		mapview.CellEmpty:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
		mapview.CellPolyline: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4D")),
		mapview.CellVertex:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4D")).Bold(true),
		mapview.CellMarker:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7F27")).Bold(true),
		mapview.CellSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("#111111")).Background(accentFg).Bold(true),
		mapview.CellGhost:    lipgloss.NewStyle().Foreground(dimFg),
		mapview.CellCursor:   lipgloss.NewStyle().Reverse(true),
	}
)

// View renders the editor. Layout numbers come from layout() so mouse
// coordinates map onto canvas cells.
func (a *App) View() string {
	l := a.layout()
	header := headerStyle.Render(fmt.Sprintf("▲ TCP PLANNER · %s", a.ctrl.Mode()))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderCatalogPanel(l),
		a.renderMap(),
		a.renderInspector(l),
	)
	sections := []string{header, body, a.renderLogPanel()}
	if a.focus == focusPrompt {
		sections = append(sections, a.prompt.View())
	} else {
		sections = append(sections, dimStyle.MaxWidth(a.screenWidth()).Render(a.statusMsg))
	}
	sections = append(sections, a.help.View(a.keys))
	return strings.Join(sections, "\n")
}

func (a *App) renderMap() string {
	canvas := mapview.NewCanvas(a.view)
	store := a.ctrl.Store()
	canvas.DrawPolyline(store.Polyline())
	signs := a.ctrl.Catalog()
	selected := a.ctrl.SelectedID()
	for _, obj := range store.Objects() {
		canvas.DrawObject(obj, signs.Resolve(obj.Type), obj.ID == selected)
	}
	if a.drag != nil && a.drag.moved {
		if obj, ok := store.Object(a.drag.id); ok {
			canvas.DrawGhost(a.drag.lat, a.drag.lng, obj.Rotate, signs.Resolve(obj.Type))
		}
	}
	if a.focus == focusMap {
		canvas.DrawCursor(a.cursorX, a.cursorY)
	}
	style := mapStyle
	if a.focus == focusMap {
		style = style.BorderForeground(focusBorder)
	}
	return style.Width(a.view.Width).Height(a.view.Height).Render(canvas.Render(canvasPalette))
}

func (a *App) renderCatalogPanel(l layout) string {
	mode := a.ctrl.Mode()
	var toggle string
	if controller.IsPlacing(mode) {
		toggle = placingOnStyle.Render("Placing: ON")
	} else {
		toggle = placingOffStyle.Render("Place on Map")
	}
	chosen := dimStyle.Render("No sign chosen")
	if sign, ok := controller.SignOf(mode); ok {
		chosen = softStyle.Render(fmt.Sprintf("%c %s", catalog.Symbol(sign), sign.ID))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, a.signs.View(), chosen, toggle)
	style := panelStyle
	if a.focus == focusCatalog {
		style = style.BorderForeground(focusBorder)
	}
	return style.Width(sidePanelWidth - 2).Height(l.mapH).Render(content)
}

func (a *App) renderInspector(l layout) string {
	width := sidePanelWidth - 4
	var lines []string
	obj, ok := a.ctrl.Selected()
	if !ok {
		p := a.ctrl.Export()
		lines = []string{
			titleStyle.Render("PLAN"),
			fmt.Sprintf("%d objects", len(p.Objects)),
			fmt.Sprintf("%d closure vertices", len(p.Polyline)),
			"",
			dimStyle.Render(fmt.Sprintf("view %.5f, %.5f", a.view.CenterLat, a.view.CenterLng)),
			dimStyle.Render(fmt.Sprintf("zoom %d", a.view.Zoom)),
			"",
			dimStyle.Render("Click a marker to edit it."),
		}
	} else {
		def := a.ctrl.Catalog().Resolve(obj.Type)
		name := def.Name
		if def.IsPlaceholder() {
			name = fmt.Sprintf("%s (%s)", def.Name, obj.Type)
		}
		lines = []string{
			titleStyle.Render("SELECTED"),
			lipgloss.NewStyle().Width(width).Render(name),
			dimStyle.Render(obj.ID),
			fmt.Sprintf("%.6f, %.6f", obj.Lat, obj.Lng),
			"",
			"Rotate " + slider(obj.Rotate, plan.MinRotate, plan.MaxRotate, width-14) + fmt.Sprintf(" %3.0f°", obj.Rotate),
			"Scale  " + slider(obj.Scale, plan.MinScale, plan.MaxScale, width-14) + fmt.Sprintf(" %.1f×", obj.Scale),
			"",
			dimStyle.Render("[ ] rotate  - = scale"),
			dimStyle.Render("m move  x delete"),
		}
	}
	return panelStyle.Width(sidePanelWidth - 2).Height(l.mapH).Render(strings.Join(lines, "\n"))
}

func (a *App) renderLogPanel() string {
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	lines, total := a.logbook.Tail(logLines)
	clip := lipgloss.NewStyle().MaxWidth(max(20, a.screenWidth()-4))
	rendered := make([]string, 0, logLines)
	for _, line := range lines {
		rendered = append(rendered, clip.Render(styleLogLine(line)))
	}
	for len(rendered) < logLines {
		rendered = append(rendered, "")
	}
	head := titleStyle.Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, strings.Join(rendered, "\n")))
}

func styleLogLine(line string) string {
	entry, ok := logbook.ParseLine(line)
	if !ok {
		return softStyle.Render(line)
	}
	stamp := dimStyle.Render(entry.Time.Local().Format("15:04:05"))
	switch entry.Level {
	case logbook.LevelWarn:
		return stamp + " " + lipgloss.NewStyle().Foreground(warnFg).Render(entry.Message)
	case logbook.LevelError:
		return stamp + " " + lipgloss.NewStyle().Foreground(errFg).Render(entry.Message)
	default:
		return stamp + " " + softStyle.Render(entry.Message)
	}
}

// slider draws a horizontal gauge for value within [lo, hi].
func slider(value, lo, hi float64, width int) string {
	if width < 3 {
		width = 3
	}
	frac := 0.0
	if hi > lo {
		frac = (value - lo) / (hi - lo)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	knob := int(frac*float64(width-1) + 0.5)
	return strings.Repeat("━", knob) + "●" + strings.Repeat("─", width-1-knob)
}
