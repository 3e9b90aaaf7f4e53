package tui

import "github.com/charmbracelet/bubbles/key"

type menuKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Open key.Binding
	Quit key.Binding
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Quit}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type exploreKeyMap struct {
	Lean      key.Binding
	Rich      key.Binding
	Raise     key.Binding
	Lower     key.Binding
	Mode      key.Binding
	Theme     key.Binding
	Back      key.Binding
	ForceQuit key.Binding
}

func (k exploreKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Lean, k.Rich, k.Raise, k.Lower, k.Mode, k.Theme, k.Back}
}

func (k exploreKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Lean, k.Rich, k.Raise, k.Lower}, {k.Mode, k.Theme, k.Back, k.ForceQuit}}
}

var menuKeys = menuKeyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var exploreKeys = exploreKeyMap{
	Lean:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "less first component")),
	Rich:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more first component")),
	Raise:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "raise pressure")),
	Lower:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "lower pressure")),
	Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "forward/reverse")),
	Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Back:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "back")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}
