package ui

// Screen is the active view of the program.
type Screen int

const (
	ScreenTodos Screen = iota
	ScreenNewTodo
	ScreenNotes
	ScreenEditNotes
	ScreenDailyTodos
	ScreenNewDailyTodo
	ScreenStats
)

func (s Screen) String() string {
	switch s {
	case ScreenTodos:
		return "todos"
	case ScreenNewTodo:
		return "new_todo"
	case ScreenNotes:
		return "notes"
	case ScreenEditNotes:
		return "edit_notes"
	case ScreenDailyTodos:
		return "daily_todos"
	case ScreenNewDailyTodo:
		return "new_daily_todo"
	case ScreenStats:
		return "stats"
	default:
		return "unknown"
	}
}

// textEntry reports whether keys other than confirm/cancel go to an edit buffer.
func (s Screen) textEntry() bool {
	return s == ScreenNewTodo || s == ScreenNewDailyTodo || s == ScreenEditNotes
}

type action int

const (
	actNone action = iota
	actQuit
	actUp
	actDown
	actMoveUp
	actMoveDown
	actLeft
	actRight
	actToggle
	actDelete
	actNew
	actRollover
	actNotes
	actEdit
	actDailyTodos
	actStats
	actConfirm
	actCancel
	actBack
	actSaveNotes
)

// screenActions lists, in match order, the actions a screen listens for.
var screenActions = map[Screen][]action{
	ScreenTodos: {
		actQuit, actUp, actDown, actMoveUp, actMoveDown, actToggle, actDelete,
		actNew, actRollover, actNotes, actDailyTodos, actStats,
	},
	ScreenNewTodo:      {actConfirm, actCancel},
	ScreenNotes:        {actEdit, actBack, actNotes, actDailyTodos},
	ScreenEditNotes:    {actSaveNotes, actCancel},
	ScreenDailyTodos:   {actUp, actDown, actMoveUp, actMoveDown, actDelete, actNew, actBack},
	ScreenNewDailyTodo: {actConfirm, actCancel},
	ScreenStats:        {actQuit, actLeft, actRight, actDelete, actBack},
}

// transitions is the screen graph. An action absent from a screen's row
// keeps the current screen.
var transitions = map[Screen]map[action]Screen{
	ScreenTodos: {
		actNew:        ScreenNewTodo,
		actRollover:   ScreenNewTodo,
		actNotes:      ScreenNotes,
		actDailyTodos: ScreenDailyTodos,
		actStats:      ScreenStats,
	},
	ScreenNewTodo: {
		actConfirm: ScreenTodos,
		actCancel:  ScreenTodos,
	},
	ScreenNotes: {
		actEdit:       ScreenEditNotes,
		actBack:       ScreenTodos,
		actNotes:      ScreenTodos,
		actDailyTodos: ScreenDailyTodos,
	},
	ScreenEditNotes: {
		actSaveNotes: ScreenNotes,
		actCancel:    ScreenNotes,
	},
	ScreenDailyTodos: {
		actNew:  ScreenNewDailyTodo,
		actBack: ScreenTodos,
	},
	ScreenNewDailyTodo: {
		actConfirm: ScreenDailyTodos,
		actCancel:  ScreenDailyTodos,
	},
	ScreenStats: {
		actBack: ScreenTodos,
	},
}

func next(s Screen, a action) (Screen, bool) {
	to, ok := transitions[s][a]
	return to, ok
}
