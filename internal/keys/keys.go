// Package keys defines the kiosk key bindings.
//
// Bindings mirror a directional pad: arrow keys and the numeric keypad
// digits (8/4/6/2 around 5) both work, since kiosk keyboards often only
// expose one of them.
package keys

import "github.com/charmbracelet/bubbles/key"

// KioskKeys holds the bindings for every abstract input.
type KioskKeys struct {
	Quit    key.Binding
	Cancel  key.Binding
	Confirm key.Binding
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
}

// Kiosk is the default binding set.
var Kiosk = KioskKeys{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "f4", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("backspace", "tab"),
		key.WithHelp("backspace", "back to menu"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter", " ", "5"),
		key.WithHelp("enter", "open / replay"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "4"),
		key.WithHelp("←", "previous"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "6"),
		key.WithHelp("→", "next"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "8"),
		key.WithHelp("↑", "first"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "2"),
		key.WithHelp("↓", "last"),
	),
}

// All returns every binding in display order.
func (k KioskKeys) All() []key.Binding {
	return []key.Binding{k.Quit, k.Cancel, k.Confirm, k.Left, k.Right, k.Up, k.Down}
}
