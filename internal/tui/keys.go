package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding

	Click       key.Binding
	Vertex      key.Binding
	TogglePlace key.Binding
	ClearSign   key.Binding
	Focus       key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	ScaleDown   key.Binding
	ScaleUp     key.Binding
	Delete      key.Binding
	Cancel      key.Binding
	Move        key.Binding

	Export  key.Binding
	Import  key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Home    key.Binding
	Center  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "cursor up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "cursor down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "cursor left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "cursor right")),
		PanUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "pan down")),
		PanLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "pan right")),

		Click:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "click")),
		Vertex:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "add vertex")),
		TogglePlace: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "place on map")),
		ClearSign:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "drop chosen sign")),
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "signs/map")),
		RotateLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "rotate -15°")),
		RotateRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "rotate +15°")),
		ScaleDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "scale -0.1")),
		ScaleUp:     key.NewBinding(key.WithKeys("=", "+"), key.WithHelp("=", "scale +0.1")),
		Delete:      key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect/cancel")),
		Move:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move selected")),

		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Import:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		ZoomIn:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("Z"), key.WithHelp("Z", "zoom out")),
		Home:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "save home view")),
		Center:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center on cursor")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.TogglePlace, k.Click, k.Vertex, k.Export, k.Import, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PanUp, k.PanDown, k.PanLeft, k.PanRight},
		{k.Click, k.Vertex, k.TogglePlace, k.ClearSign, k.Focus, k.Move, k.Cancel},
		{k.RotateLeft, k.RotateRight, k.ScaleDown, k.ScaleUp, k.Delete},
		{k.Export, k.Import, k.ZoomIn, k.ZoomOut, k.Home, k.Center, k.Quit},
	}
}
