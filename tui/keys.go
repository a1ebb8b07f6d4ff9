package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Nope    key.Binding
	Like    key.Binding
	Super   key.Binding
	Next    key.Binding
	Prev    key.Binding
	Details key.Binding
	Back    key.Binding
	Retry   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Nope:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "nope")),
		Like:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "like")),
		Super:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "super like")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Prev:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
		Details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func helpPairs(bindings ...key.Binding) [][2]string {
	out := make([][2]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, [2]string{h.Key, h.Desc})
	}
	return out
}
