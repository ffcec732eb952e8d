package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tododay/internal/config"
	"tododay/internal/model"
	"tododay/internal/tracker"
)

// Model is the bubbletea model. It routes key presses through the screen
// graph and keeps the transient edit buffers; all day state lives in the
// tracker.
type Model struct {
	ctx     context.Context
	tracker *tracker.Tracker
	logger  *log.Logger
	keys    keyMap

	screen      Screen
	cursor      int
	dailyCursor int
	statsCursor int
	statsDay    model.Day

	input  textinput.Model
	notes  textarea.Model
	help   help.Model
	status string
	width  int
	height int
}

// New builds the model for a loaded tracker. It opens on NewTodo when the
// active day has no todos yet.
func New(ctx context.Context, tr *tracker.Tracker, keys config.Keymap, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	// Zero lifts the bubbles input caps so long text is kept whole.
	ti := textinput.New()
	ti.CharLimit = 0
	ti.Width = 40

	ta := textarea.New()
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.Placeholder = "Notes for the day"

	m := Model{
		ctx:     ctx,
		tracker: tr,
		logger:  logger,
		keys:    newKeyMap(keys),
		screen:  ScreenTodos,
		input:   ti,
		notes:   ta,
		help:    help.New(),
	}
	if len(tr.Todos()) == 0 {
		m.enter(ScreenNewTodo)
		m.status = "No todos yet. Type one and press " + keys.Confirm
	}
	return m
}

// Run starts the interactive session and blocks until the user quits.
func Run(ctx context.Context, tr *tracker.Tracker, cfg config.Config, logger *log.Logger) error {
	m := New(ctx, tr, cfg.Keys, logger)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (m Model) Init() tea.Cmd {
	if m.screen.textEntry() {
		return textinput.Blink
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.forceQuit) {
		return m, tea.Quit
	}
	a := m.keys.resolve(m.screen, msg)
	switch a {
	case actNone:
		return m.updateBuffer(msg)
	case actQuit:
		m.logger.Debug("quit", "screen", m.screen)
		return m, tea.Quit
	}
	if !m.perform(a) {
		return m, nil
	}
	to, ok := next(m.screen, a)
	if !ok {
		return m, nil
	}
	return m, m.enter(to)
}

// updateBuffer feeds keys that are not bound on a text entry screen to
// the active edit widget.
func (m Model) updateBuffer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenNewTodo, ScreenNewDailyTodo:
		m.input, cmd = m.input.Update(msg)
	case ScreenEditNotes:
		m.notes, cmd = m.notes.Update(msg)
	}
	return m, cmd
}

// perform runs the side effect of a on the current screen. A false result
// cancels the transition, leaving the user where they were.
func (m *Model) perform(a action) bool {
	switch m.screen {
	case ScreenTodos:
		return m.performTodos(a)
	case ScreenNewTodo:
		return m.performNewTodo(a)
	case ScreenEditNotes:
		return m.saveNotes()
	case ScreenDailyTodos:
		return m.performDailyTodos(a)
	case ScreenNewDailyTodo:
		return m.performNewDailyTodo(a)
	case ScreenStats:
		return m.performStats(a)
	}
	return true
}

func (m *Model) performTodos(a action) bool {
	n := len(m.tracker.Todos())
	switch a {
	case actUp:
		m.cursor = clampCursor(m.cursor-1, n)
	case actDown:
		m.cursor = clampCursor(m.cursor+1, n)
	case actMoveUp:
		if m.cursor <= 0 || m.cursor >= n {
			return true
		}
		if err := m.tracker.MoveTodo(m.ctx, m.cursor, m.cursor-1); err != nil {
			m.fail("reorder failed", err)
			return true
		}
		m.cursor--
	case actMoveDown:
		if m.cursor >= n-1 {
			return true
		}
		if err := m.tracker.MoveTodo(m.ctx, m.cursor, m.cursor+1); err != nil {
			m.fail("reorder failed", err)
			return true
		}
		m.cursor++
	case actToggle:
		if n == 0 {
			return true
		}
		if err := m.tracker.ToggleTodo(m.ctx, m.cursor); err != nil {
			m.fail("toggle failed", err)
			return true
		}
		m.status = "Toggled todo"
	case actDelete:
		removed, err := m.tracker.DeleteTodo(m.ctx, m.cursor)
		if err != nil {
			m.fail("delete failed", err)
		} else if removed {
			m.status = "Deleted todo"
		}
		m.cursor = clampCursor(m.cursor, len(m.tracker.Todos()))
	case actRollover:
		changed, err := m.tracker.Rollover(m.ctx)
		if err != nil {
			m.fail("new day failed", err)
			return false
		}
		if changed {
			m.cursor = 0
			m.status = "Started " + m.tracker.Day().Date
		}
	}
	return true
}

func (m *Model) performNewTodo(a action) bool {
	if a == actCancel {
		m.input.Reset()
		m.status = "Cancelled"
		return true
	}
	_, err := m.tracker.AddTodo(m.ctx, m.input.Value())
	switch {
	case errors.Is(err, model.ErrEmptyText):
		m.status = "Empty todo discarded"
	case err != nil:
		m.fail("save failed", err)
		return false
	default:
		m.cursor = len(m.tracker.Todos()) - 1
		m.status = "Added todo"
	}
	m.input.Reset()
	return true
}

func (m *Model) saveNotes() bool {
	if err := m.tracker.SetNotes(m.ctx, m.notes.Value()); err != nil {
		m.fail("save notes failed", err)
		return false
	}
	m.status = "Notes saved"
	return true
}

func (m *Model) performDailyTodos(a action) bool {
	n := len(m.tracker.DailyTodos())
	switch a {
	case actUp:
		m.dailyCursor = clampCursor(m.dailyCursor-1, n)
	case actDown:
		m.dailyCursor = clampCursor(m.dailyCursor+1, n)
	case actMoveUp:
		if m.dailyCursor <= 0 || m.dailyCursor >= n {
			return true
		}
		if err := m.tracker.MoveDailyTodo(m.ctx, m.dailyCursor, m.dailyCursor-1); err != nil {
			m.fail("reorder failed", err)
			return true
		}
		m.dailyCursor--
	case actMoveDown:
		if m.dailyCursor >= n-1 {
			return true
		}
		if err := m.tracker.MoveDailyTodo(m.ctx, m.dailyCursor, m.dailyCursor+1); err != nil {
			m.fail("reorder failed", err)
			return true
		}
		m.dailyCursor++
	case actDelete:
		removed, err := m.tracker.DeleteDailyTodo(m.ctx, m.dailyCursor)
		if err != nil {
			m.fail("delete failed", err)
		} else if removed {
			m.status = "Deleted daily todo"
		}
		m.dailyCursor = clampCursor(m.dailyCursor, len(m.tracker.DailyTodos()))
	}
	return true
}

func (m *Model) performNewDailyTodo(a action) bool {
	if a == actCancel {
		m.input.Reset()
		m.status = "Cancelled"
		return true
	}
	_, err := m.tracker.AddDailyTodo(m.ctx, m.input.Value())
	switch {
	case errors.Is(err, model.ErrEmptyText):
		m.status = "Empty daily todo discarded"
	case err != nil:
		m.fail("save failed", err)
		return false
	default:
		m.dailyCursor = len(m.tracker.DailyTodos()) - 1
		m.status = "Added daily todo"
	}
	m.input.Reset()
	return true
}

func (m *Model) performStats(a action) bool {
	n := len(m.tracker.DayIndex())
	switch a {
	case actLeft:
		m.statsCursor = clampCursor(m.statsCursor-1, n)
		m.loadStatsDay()
	case actRight:
		m.statsCursor = clampCursor(m.statsCursor+1, n)
		m.loadStatsDay()
	case actDelete:
		if n == 0 {
			return true
		}
		entry := m.tracker.DayIndex()[m.statsCursor]
		err := m.tracker.DeleteDay(m.ctx, entry.ID)
		switch {
		case errors.Is(err, tracker.ErrActiveDay):
			m.status = "The active day cannot be deleted"
		case err != nil:
			m.fail("delete day failed", err)
		default:
			m.status = "Deleted " + entry.Date
			m.statsCursor = clampCursor(m.statsCursor, len(m.tracker.DayIndex()))
			m.loadStatsDay()
		}
	}
	return true
}

// enter switches to screen to and prepares it.
func (m *Model) enter(to Screen) tea.Cmd {
	m.logger.Debug("screen transition", "from", m.screen, "to", to)
	m.screen = to
	m.input.Blur()
	m.notes.Blur()
	switch to {
	case ScreenNewTodo:
		m.input.Placeholder = "New todo"
		return m.input.Focus()
	case ScreenNewDailyTodo:
		m.input.Placeholder = "New daily todo"
		return m.input.Focus()
	case ScreenEditNotes:
		m.notes.SetValue(m.tracker.Day().Notes)
		return m.notes.Focus()
	case ScreenTodos:
		m.cursor = clampCursor(m.cursor, len(m.tracker.Todos()))
	case ScreenDailyTodos:
		m.dailyCursor = clampCursor(m.dailyCursor, len(m.tracker.DailyTodos()))
	case ScreenStats:
		m.openStats()
	}
	return nil
}

// openStats selects the active day in a freshly read day index.
func (m *Model) openStats() {
	if err := m.tracker.RefreshIndex(m.ctx); err != nil {
		m.fail("day list failed", err)
	}
	entries := m.tracker.DayIndex()
	activeID := m.tracker.Day().ID
	m.statsCursor = clampCursor(len(entries)-1, len(entries))
	for i, e := range entries {
		if e.ID == activeID {
			m.statsCursor = i
			break
		}
	}
	m.loadStatsDay()
}

func (m *Model) loadStatsDay() {
	entries := m.tracker.DayIndex()
	if len(entries) == 0 {
		m.statsDay = model.Day{}
		return
	}
	day, err := m.tracker.LoadDay(m.ctx, entries[m.statsCursor].ID)
	if err != nil {
		m.fail("load day failed", err)
		return
	}
	m.statsDay = day
}

func (m *Model) fail(what string, err error) {
	m.logger.Warn(what, "screen", m.screen, "err", err)
	m.status = fmt.Sprintf("%s: %v", what, err)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	m.input.Width = max(w/2, 20)
	m.notes.SetWidth(max(w*7/10-4, 20))
	m.notes.SetHeight(max(h-8, 3))
}

// Screen is the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Labels lists the display strings of the list the active screen shows.
func (m Model) Labels() []string {
	switch m.screen {
	case ScreenDailyTodos, ScreenNewDailyTodo:
		daily := m.tracker.DailyTodos()
		out := make([]string, len(daily))
		for i, d := range daily {
			out[i] = d.Label()
		}
		return out
	case ScreenStats:
		entries := m.tracker.DayIndex()
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.Date + " " + e.Progress()
		}
		return out
	default:
		todos := m.tracker.Todos()
		out := make([]string, len(todos))
		for i, t := range todos {
			out[i] = t.Label()
		}
		return out
	}
}

// Selection is the cursor of the list the active screen shows.
func (m Model) Selection() int {
	switch m.screen {
	case ScreenDailyTodos, ScreenNewDailyTodo:
		return m.dailyCursor
	case ScreenStats:
		return m.statsCursor
	default:
		return m.cursor
	}
}

// Buffer is the content of the active edit buffer, if any.
func (m Model) Buffer() string {
	switch m.screen {
	case ScreenNewTodo, ScreenNewDailyTodo:
		return m.input.Value()
	case ScreenEditNotes:
		return m.notes.Value()
	default:
		return ""
	}
}

// Status is the outcome of the last action.
func (m Model) Status() string {
	return m.status
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
