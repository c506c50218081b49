package monitor

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the monitor's bindings. It satisfies help.KeyMap.
type keyMap struct {
	Flip      key.Binding
	Highlight key.Binding
	Clear     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Flip: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flip board"),
		),
		Highlight: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle highlight"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear history"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flip, k.Highlight, k.Clear},
		{k.Help, k.Quit},
	}
}
