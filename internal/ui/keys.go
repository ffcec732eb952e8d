package ui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tododay/internal/config"
)

// keyMap holds one binding per action, built from the configured keymap.
type keyMap struct {
	bindings  map[action]key.Binding
	forceQuit key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	bind := func(help string, keys ...string) key.Binding {
		keys = slices.Compact(keys)
		label := keys[0]
		if len(keys) > 1 {
			label = keys[0] + "/" + keys[1]
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, help))
	}
	return keyMap{
		bindings: map[action]key.Binding{
			actQuit:       bind("quit", k.Quit),
			actUp:         bind("up", k.Up, "up"),
			actDown:       bind("down", k.Down, "down"),
			actMoveUp:     bind("move up", k.MoveUp, "shift+up"),
			actMoveDown:   bind("move down", k.MoveDown, "shift+down"),
			actLeft:       bind("prev day", k.Left, "left"),
			actRight:      bind("next day", k.Right, "right"),
			actToggle:     bind("toggle", k.Toggle),
			actDelete:     bind("delete", k.Delete),
			actNew:        bind("new", k.New),
			actRollover:   bind("new day", k.Rollover),
			actNotes:      bind("notes", k.Notes),
			actEdit:       bind("edit", k.Edit),
			actDailyTodos: bind("daily todos", k.DailyTodos),
			actStats:      bind("stats", k.Stats),
			actConfirm:    bind("confirm", k.Confirm),
			actCancel:     bind("cancel", k.Cancel),
			actBack:       bind("back", k.Back),
			actSaveNotes:  bind("save", k.SaveNotes),
		},
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// resolve maps a key press to the first matching action of screen s.
func (k keyMap) resolve(s Screen, msg tea.KeyMsg) action {
	for _, a := range screenActions[s] {
		if key.Matches(msg, k.bindings[a]) {
			return a
		}
	}
	return actNone
}

// screenHelp adapts the bindings of one screen to help.KeyMap.
type screenHelp struct {
	keys   keyMap
	screen Screen
}

func (h screenHelp) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(screenActions[h.screen]))
	for _, a := range screenActions[h.screen] {
		out = append(out, h.keys.bindings[a])
	}
	return out
}

func (h screenHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
