package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Popups
	ShowNone      key.Binding
	ShowScaleIn   key.Binding
	ShowPopup     key.Binding
	ShowFadeIn    key.Binding
	ShowTopBottom key.Binding
	ShowBottomTop key.Binding
	ShowNow       key.Binding
	Burst         key.Binding
	Hide          key.Binding
	DismissAll    key.Binding

	// Options
	ToggleOverlay key.Binding
	ToggleWrap    key.Binding
	CycleAnchor   key.Binding

	// History
	Up   key.Binding
	Down key.Binding
	Copy key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ShowNone, k.ShowScaleIn, k.ShowPopup, k.ShowFadeIn, k.ShowTopBottom, k.ShowBottomTop},
		{k.ShowNow, k.Burst, k.Hide, k.DismissAll, k.Copy},
		{k.ToggleOverlay, k.ToggleWrap, k.CycleAnchor},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

// kindKeys pairs the show bindings with the transition kind each requests,
// in popup.Kinds order.
func (k KeyMap) kindKeys() []key.Binding {
	return []key.Binding{k.ShowNone, k.ShowScaleIn, k.ShowPopup, k.ShowFadeIn, k.ShowTopBottom, k.ShowBottomTop}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ShowNone: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "show (no animation)"),
		),
		ShowScaleIn: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "show (scale in)"),
		),
		ShowPopup: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "show (pop)"),
		),
		ShowFadeIn: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "show (fade)"),
		),
		ShowTopBottom: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "show (from top)"),
		),
		ShowBottomTop: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "show (from bottom)"),
		),
		ShowNow: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "show now, skip queue"),
		),
		Burst: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "queue a burst"),
		),
		Hide: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "hide"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss all"),
		),
		ToggleOverlay: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle overlay"),
		),
		ToggleWrap: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle scroll wrap"),
		),
		CycleAnchor: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "cycle anchor"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy message"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
