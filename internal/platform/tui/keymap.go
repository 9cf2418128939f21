package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cubefield/internal/core"
)

// GameAction is what a key press asks the game screen to do.
type GameAction int

const (
	GameActionNone GameAction = iota
	GameActionSteerLeft
	GameActionSteerRight
	GameActionRestart
	GameActionPause
	GameActionDifficulty
	GameActionBack
	GameActionQuit
)

// Intent returns the simulation intent for steering and restart actions.
func (a GameAction) Intent() core.Intent {
	switch a {
	case GameActionSteerLeft:
		return core.IntentSteerLeft
	case GameActionSteerRight:
		return core.IntentSteerRight
	case GameActionRestart:
		return core.IntentRestart
	default:
		return core.IntentNone
	}
}

// GameKeyMap defines the key bindings on the game screen.
type GameKeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Restart    key.Binding
	Pause      key.Binding
	Difficulty key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Restart, k.Pause, k.Difficulty, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right},
		{k.Restart, k.Pause, k.Difficulty},
		{k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Difficulty: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "difficulty"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys GameKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultGameKeyMap()}
}

// Keys returns the game bindings, for help rendering.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key message on the game screen.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) GameAction {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return GameActionQuit
	case key.Matches(msg, km.keys.Left):
		return GameActionSteerLeft
	case key.Matches(msg, km.keys.Right):
		return GameActionSteerRight
	case key.Matches(msg, km.keys.Restart):
		return GameActionRestart
	case key.Matches(msg, km.keys.Pause):
		return GameActionPause
	case key.Matches(msg, km.keys.Difficulty):
		return GameActionDifficulty
	case key.Matches(msg, km.keys.Back):
		return GameActionBack
	}
	return GameActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
