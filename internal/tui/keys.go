package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/dbmrq/gorestaurant/internal/tui/components"
)

// keyMap holds the dashboard key bindings.
type keyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Toggle key.Binding
	Reload key.Binding
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Help   key.Binding
	Quit   key.Binding
	Force  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add a food")),
		Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/Enter", "edit selected food")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete selected food")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle availability")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload from backend")),
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "go to top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "go to bottom")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Force:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit now")),
	}
}

func (k keyMap) helpGroups() []components.ShortcutGroup {
	group := func(title string, bindings ...key.Binding) components.ShortcutGroup {
		g := components.ShortcutGroup{Title: title}
		for _, b := range bindings {
			h := b.Help()
			g.Shortcuts = append(g.Shortcuts, components.Shortcut{Key: h.Key, Desc: h.Desc})
		}
		return g
	}
	return []components.ShortcutGroup{
		group("Menu", k.Add, k.Edit, k.Delete, k.Toggle, k.Reload),
		group("Navigation", k.Up, k.Down, k.Top, k.Bottom),
		group("General", k.Help, k.Quit, k.Force),
	}
}
