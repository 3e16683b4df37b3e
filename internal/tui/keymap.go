package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit key.Binding
	Next key.Binding
	Prev key.Binding
}

func (k *keyMap) Help() []key.Binding {
	return []key.Binding{
		k.Next,
		k.Prev,
		k.Quit,
	}
}

var rootKeyMap = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next control"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous control"),
	),
}
