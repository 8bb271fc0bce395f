package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextField   key.Binding
	PrevField   key.Binding
	Increase    key.Binding
	Decrease    key.Binding
	ShiftHarder key.Binding
	ShiftEasier key.Binding
	SelectGear  key.Binding
	ToggleFront key.Binding
	Advice      key.Binding
	Curve       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next slider"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev slider"),
	),
	Increase: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "increase"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "decrease"),
	),
	ShiftHarder: key.NewBinding(
		key.WithKeys("]", "up", "k"),
		key.WithHelp("]/↑/k", "shift harder"),
	),
	ShiftEasier: key.NewBinding(
		key.WithKeys("[", "down", "j"),
		key.WithHelp("[/↓/j", "shift easier"),
	),
	SelectGear: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-"),
		key.WithHelp("1-9/0/-", "select gear (0 = 10, - = 11)"),
	),
	ToggleFront: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "front shift"),
	),
	Advice: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "ask coach"),
	),
	Curve: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "speed curve"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
