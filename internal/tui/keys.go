package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	backtab   key.Binding
	toggle    key.Binding
	forgot    key.Binding
	interrupt key.Binding
	quit      key.Binding
	refresh   key.Binding
	chatbot   key.Binding
	signOut   key.Binding
	version   key.Binding
}

var keys = keyMap{
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab", "down")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab", "up")),
	toggle:    key.NewBinding(key.WithKeys(" ")),
	forgot:    key.NewBinding(key.WithKeys("ctrl+r")),
	interrupt: key.NewBinding(key.WithKeys("ctrl+c")),
	quit:      key.NewBinding(key.WithKeys("q")),
	refresh:   key.NewBinding(key.WithKeys("r")),
	chatbot:   key.NewBinding(key.WithKeys("c")),
	signOut:   key.NewBinding(key.WithKeys("o")),
	version:   key.NewBinding(key.WithKeys("v")),
}
