package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next      key.Binding
	prev      key.Binding
	up        key.Binding
	down      key.Binding
	add       key.Binding
	countUp   key.Binding
	countDown key.Binding
	remove    key.Binding
	clear     key.Binding
	suggest   key.Binding
	submit    key.Binding
	back      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		add:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		countUp:   key.NewBinding(key.WithKeys("ctrl+up", "alt+up"), key.WithHelp("ctrl+↑", "more tracks")),
		countDown: key.NewBinding(key.WithKeys("ctrl+down", "alt+down"), key.WithHelp("ctrl+↓", "fewer tracks")),
		remove:    key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "remove")),
		clear:     key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear list")),
		suggest:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "similar artists")),
		submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "create playlist")),
		back:      key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "back")),
		quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.submit, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.up, k.down},
		{k.add, k.countUp, k.countDown, k.remove},
		{k.clear, k.suggest, k.submit, k.quit},
	}
}
