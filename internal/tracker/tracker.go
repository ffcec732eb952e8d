package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"tododay/internal/model"
)

// ErrActiveDay is returned when an operation would remove the day in use.
var ErrActiveDay = errors.New("day is active")

// Clock returns the current time.
type Clock func() time.Time

// Options configures a Tracker.
type Options struct {
	Clock  Clock
	Logger *log.Logger
}

// Tracker owns the active day, its ordered todos, the daily todo
// templates and the day index. It is the single application state the
// terminal UI drives.
type Tracker struct {
	store  Store
	clock  Clock
	logger *log.Logger

	day   model.Day
	todos *Sequence[model.Todo]
	daily *Sequence[model.DailyTodo]
	index []model.DayIndexEntry
}

// New constructs a Tracker. Call Load before use.
func New(store Store, opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Tracker{
		store:  store,
		clock:  opts.Clock,
		logger: opts.Logger,
		todos:  newSequence(nil, dayTodos{store: store}, todoAccessor),
		daily:  newSequence(nil, dailyTemplates{store: store}, dailyAccessor),
	}
}

// Load reads the daily todo templates and resumes or creates the active day.
func (t *Tracker) Load(ctx context.Context) error {
	templates, err := t.store.ListDailyTodos(ctx)
	if err != nil {
		return fmt.Errorf("load daily todos: %w", err)
	}
	t.daily = newSequence(templates, dailyTemplates{store: t.store}, dailyAccessor)
	if fixed, err := t.daily.Normalize(ctx); err != nil {
		t.logger.Warn("daily todo positions not normalized", "err", err)
	} else if fixed {
		t.logger.Info("daily todo positions normalized", "count", t.daily.Len())
	}
	return t.ResumeOrCreate(ctx)
}

// Today is the current calendar date per the tracker clock.
func (t *Tracker) Today() string {
	return model.DateOf(t.clock())
}

// Day returns a copy of the active day with its ordered todos.
func (t *Tracker) Day() model.Day {
	d := t.day
	d.Todos = t.todos.Items()
	return d
}

func (t *Tracker) Todos() []model.Todo {
	return t.todos.Items()
}

func (t *Tracker) DailyTodos() []model.DailyTodo {
	return t.daily.Items()
}

// DayIndex returns the date-sorted day summaries, oldest first.
func (t *Tracker) DayIndex() []model.DayIndexEntry {
	return slices.Clone(t.index)
}

// AddTodo appends a todo to the active day. Blank text is rejected with
// model.ErrEmptyText and nothing is written.
func (t *Tracker) AddTodo(ctx context.Context, text string) (model.Todo, error) {
	text, err := model.NormalizeText(text)
	if err != nil {
		return model.Todo{}, err
	}
	dayID := t.day.ID
	todo, err := t.todos.Append(ctx, func(ctx context.Context, position int) (model.Todo, error) {
		return t.store.CreateTodo(ctx, dayID, text, position)
	})
	if err != nil {
		t.logger.Error("create todo failed", "day_id", dayID, "err", err)
		return model.Todo{}, err
	}
	t.todosChanged(ctx)
	return todo, nil
}

// ToggleTodo flips the completed flag of the todo at index i.
func (t *Tracker) ToggleTodo(ctx context.Context, i int) error {
	todo, ok := t.todos.At(i)
	if !ok {
		return fmt.Errorf("todo at %d: %w", i, ErrNotFound)
	}
	if err := t.store.ToggleTodo(ctx, todo.ID); err != nil {
		t.logger.Error("toggle todo failed", "todo_id", todo.ID, "err", err)
		return fmt.Errorf("%w: toggle todo %d: %w", ErrWriteFailed, todo.ID, err)
	}
	t.todos.Update(i, (*model.Todo).Toggle)
	t.todosChanged(ctx)
	return nil
}

// DeleteTodo removes the todo at index i. It reports false when i is out
// of range.
func (t *Tracker) DeleteTodo(ctx context.Context, i int) (bool, error) {
	removed, ok, err := t.todos.Remove(ctx, i)
	if err != nil {
		t.logger.Error("delete todo failed", "day_id", t.day.ID, "index", i, "err", err)
		return false, err
	}
	if !ok {
		return false, nil
	}
	t.logger.Debug("todo deleted", "todo_id", removed.ID, "day_id", t.day.ID)
	t.todosChanged(ctx)
	return true, nil
}

// MoveTodo swaps the todos at from and to.
func (t *Tracker) MoveTodo(ctx context.Context, from, to int) error {
	if err := t.todos.Swap(ctx, from, to); err != nil {
		t.logger.Error("reorder todos failed", "day_id", t.day.ID, "from", from, "to", to, "err", err)
		return err
	}
	return nil
}

// SetNotes persists the notes of the active day.
func (t *Tracker) SetNotes(ctx context.Context, notes string) error {
	if notes == t.day.Notes {
		return nil
	}
	if err := t.store.SetDayNotes(ctx, t.day.ID, notes); err != nil {
		t.logger.Error("save notes failed", "day_id", t.day.ID, "err", err)
		return fmt.Errorf("%w: save notes: %w", ErrWriteFailed, err)
	}
	t.day.Notes = notes
	return nil
}

// AddDailyTodo appends a template to the daily todo list.
func (t *Tracker) AddDailyTodo(ctx context.Context, text string) (model.DailyTodo, error) {
	text, err := model.NormalizeText(text)
	if err != nil {
		return model.DailyTodo{}, err
	}
	tmpl, err := t.daily.Append(ctx, func(ctx context.Context, position int) (model.DailyTodo, error) {
		return t.store.CreateDailyTodo(ctx, text, position)
	})
	if err != nil {
		t.logger.Error("create daily todo failed", "err", err)
		return model.DailyTodo{}, err
	}
	return tmpl, nil
}

// DeleteDailyTodo removes the template at index i.
func (t *Tracker) DeleteDailyTodo(ctx context.Context, i int) (bool, error) {
	_, ok, err := t.daily.Remove(ctx, i)
	if err != nil {
		t.logger.Error("delete daily todo failed", "index", i, "err", err)
		return false, err
	}
	return ok, nil
}

// MoveDailyTodo swaps the templates at from and to.
func (t *Tracker) MoveDailyTodo(ctx context.Context, from, to int) error {
	if err := t.daily.Swap(ctx, from, to); err != nil {
		t.logger.Error("reorder daily todos failed", "from", from, "to", to, "err", err)
		return err
	}
	return nil
}

// LoadDay reads a day for browsing. The active day is served from memory.
func (t *Tracker) LoadDay(ctx context.Context, id int64) (model.Day, error) {
	if id == t.day.ID {
		return t.Day(), nil
	}
	day, err := t.store.GetDay(ctx, id)
	if err != nil {
		return model.Day{}, fmt.Errorf("load day %d: %w", id, err)
	}
	day.Recount()
	return day, nil
}

// DeleteDay removes a stored day and its todos. The active day cannot be
// deleted.
func (t *Tracker) DeleteDay(ctx context.Context, id int64) error {
	if id == t.day.ID {
		return ErrActiveDay
	}
	if err := t.store.DeleteDay(ctx, id); err != nil {
		t.logger.Error("delete day failed", "day_id", id, "err", err)
		return fmt.Errorf("%w: delete day %d: %w", ErrWriteFailed, id, err)
	}
	t.logger.Info("day deleted", "day_id", id)
	t.refreshIndex(ctx)
	return nil
}

// RefreshIndex regenerates the day index from the store.
func (t *Tracker) RefreshIndex(ctx context.Context) error {
	entries, err := t.store.ListDayIndex(ctx)
	if err != nil {
		return fmt.Errorf("list days: %w", err)
	}
	model.SortDayIndex(entries)
	t.index = entries
	return nil
}

func (t *Tracker) refreshIndex(ctx context.Context) {
	if err := t.RefreshIndex(ctx); err != nil {
		t.logger.Warn("day index refresh failed", "err", err)
	}
}

// todosChanged recomputes the active day aggregates after a committed
// todo mutation and regenerates the index.
func (t *Tracker) todosChanged(ctx context.Context) {
	t.day.CountTodos, t.day.DoneTodos = model.Counts(t.todos.items)
	t.refreshIndex(ctx)
}
