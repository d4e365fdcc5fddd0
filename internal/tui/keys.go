package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab     key.Binding
	Up          key.Binding
	Down        key.Binding
	Edit        key.Binding
	LockConfig  key.Binding
	LockOptions key.Binding
	Verify      key.Binding
	Run         key.Binding
	Setup       key.Binding
	Clone       key.Binding
	Profiles    key.Binding
	SaveDoc     key.Binding
	Help        key.Binding
	Quit        key.Binding
	Escape      key.Binding
}

var keys = keyMap{
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch tab"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "prev field"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next field"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit/toggle field"),
	),
	LockConfig: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "lock/unlock connection fields"),
	),
	LockOptions: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "lock/unlock option fields"),
	),
	Verify: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "verify configuration"),
	),
	Run: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "generate roster files"),
	),
	Setup: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "set up repositories"),
	),
	Clone: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clone repositories"),
	),
	Profiles: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "profiles"),
	),
	SaveDoc: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save settings"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close/cancel"),
	),
}
