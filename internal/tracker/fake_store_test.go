package tracker

import (
	"context"
	"errors"
	"slices"

	"tododay/internal/model"
)

var errInjected = errors.New("injected failure")

// fakeStore is an in-memory Store with per-operation failure injection.
type fakeStore struct {
	nextID int64
	days   map[int64]model.Day
	todos  map[int64]model.Todo
	daily  map[int64]model.DailyTodo
	fail   map[string]error
	calls  map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		days:  map[int64]model.Day{},
		todos: map[int64]model.Todo{},
		daily: map[int64]model.DailyTodo{},
		fail:  map[string]error{},
		calls: map[string]int{},
	}
}

func (f *fakeStore) hit(op string) error {
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) dayTodos(dayID int64) []model.Todo {
	var out []model.Todo
	for _, t := range f.todos {
		if t.DayID == dayID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b model.Todo) int { return a.Position - b.Position })
	return out
}

func (f *fakeStore) recount(dayID int64) {
	d := f.days[dayID]
	d.CountTodos, d.DoneTodos = model.Counts(f.dayTodos(dayID))
	f.days[dayID] = d
}

func (f *fakeStore) CreateDay(_ context.Context, date string) (model.Day, error) {
	if err := f.hit("CreateDay"); err != nil {
		return model.Day{}, err
	}
	d := model.Day{ID: f.id(), Date: date}
	f.days[d.ID] = d
	return d, nil
}

// CreateDayWithTodos counts one CreateTodo per text and, like the real
// store, leaves nothing behind when any step fails.
func (f *fakeStore) CreateDayWithTodos(_ context.Context, date string, texts []string) (model.Day, error) {
	if err := f.hit("CreateDay"); err != nil {
		return model.Day{}, err
	}
	for range texts {
		if err := f.hit("CreateTodo"); err != nil {
			return model.Day{}, err
		}
	}
	d := model.Day{ID: f.id(), Date: date}
	f.days[d.ID] = d
	for i, text := range texts {
		t := model.Todo{ID: f.id(), DayID: d.ID, Text: text, Position: i}
		f.todos[t.ID] = t
	}
	f.recount(d.ID)
	d = f.days[d.ID]
	d.Todos = f.dayTodos(d.ID)
	return d, nil
}

func (f *fakeStore) GetDay(_ context.Context, id int64) (model.Day, error) {
	if err := f.hit("GetDay"); err != nil {
		return model.Day{}, err
	}
	d, ok := f.days[id]
	if !ok {
		return model.Day{}, ErrNotFound
	}
	d.Todos = f.dayTodos(id)
	return d, nil
}

func (f *fakeStore) DeleteDay(_ context.Context, id int64) error {
	if err := f.hit("DeleteDay"); err != nil {
		return err
	}
	if _, ok := f.days[id]; !ok {
		return ErrNotFound
	}
	for tid, t := range f.todos {
		if t.DayID == id {
			delete(f.todos, tid)
		}
	}
	delete(f.days, id)
	return nil
}

func (f *fakeStore) ListDayIndex(_ context.Context) ([]model.DayIndexEntry, error) {
	if err := f.hit("ListDayIndex"); err != nil {
		return nil, err
	}
	out := make([]model.DayIndexEntry, 0, len(f.days))
	for _, d := range f.days {
		out = append(out, model.DayIndexEntry{ID: d.ID, Date: d.Date, Total: d.CountTodos, Done: d.DoneTodos})
	}
	// Insertion order, like a table scan by rowid.
	slices.SortFunc(out, func(a, b model.DayIndexEntry) int { return int(a.ID - b.ID) })
	return out, nil
}

func (f *fakeStore) SetDayNotes(_ context.Context, id int64, notes string) error {
	if err := f.hit("SetDayNotes"); err != nil {
		return err
	}
	d, ok := f.days[id]
	if !ok {
		return ErrNotFound
	}
	d.Notes = notes
	f.days[id] = d
	return nil
}

func (f *fakeStore) SetDayCounts(_ context.Context, id int64, total, done int) error {
	if err := f.hit("SetDayCounts"); err != nil {
		return err
	}
	d, ok := f.days[id]
	if !ok {
		return ErrNotFound
	}
	d.CountTodos, d.DoneTodos = total, done
	f.days[id] = d
	return nil
}

func (f *fakeStore) CreateTodo(_ context.Context, dayID int64, text string, position int) (model.Todo, error) {
	if err := f.hit("CreateTodo"); err != nil {
		return model.Todo{}, err
	}
	if _, ok := f.days[dayID]; !ok {
		return model.Todo{}, ErrNotFound
	}
	t := model.Todo{ID: f.id(), DayID: dayID, Position: position, Text: text}
	f.todos[t.ID] = t
	f.recount(dayID)
	return t, nil
}

func (f *fakeStore) ToggleTodo(_ context.Context, id int64) error {
	if err := f.hit("ToggleTodo"); err != nil {
		return err
	}
	t, ok := f.todos[id]
	if !ok {
		return ErrNotFound
	}
	t.Toggle()
	f.todos[id] = t
	f.recount(t.DayID)
	return nil
}

func (f *fakeStore) DeleteTodo(_ context.Context, id int64) error {
	if err := f.hit("DeleteTodo"); err != nil {
		return err
	}
	t, ok := f.todos[id]
	if !ok {
		return ErrNotFound
	}
	delete(f.todos, id)
	for i, rest := range f.dayTodos(t.DayID) {
		rest.Position = i
		f.todos[rest.ID] = rest
	}
	f.recount(t.DayID)
	return nil
}

func (f *fakeStore) ReorderTodos(_ context.Context, dayID int64, ids []int64) error {
	if err := f.hit("ReorderTodos"); err != nil {
		return err
	}
	for _, id := range ids {
		if t, ok := f.todos[id]; !ok || t.DayID != dayID {
			return ErrNotFound
		}
	}
	for i, id := range ids {
		t := f.todos[id]
		t.Position = i
		f.todos[id] = t
	}
	return nil
}

func (f *fakeStore) ListDailyTodos(_ context.Context) ([]model.DailyTodo, error) {
	if err := f.hit("ListDailyTodos"); err != nil {
		return nil, err
	}
	out := make([]model.DailyTodo, 0, len(f.daily))
	for _, d := range f.daily {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b model.DailyTodo) int { return a.Position - b.Position })
	return out, nil
}

func (f *fakeStore) CreateDailyTodo(_ context.Context, text string, position int) (model.DailyTodo, error) {
	if err := f.hit("CreateDailyTodo"); err != nil {
		return model.DailyTodo{}, err
	}
	d := model.DailyTodo{ID: f.id(), Position: position, Text: text}
	f.daily[d.ID] = d
	return d, nil
}

func (f *fakeStore) DeleteDailyTodo(_ context.Context, id int64) error {
	if err := f.hit("DeleteDailyTodo"); err != nil {
		return err
	}
	if _, ok := f.daily[id]; !ok {
		return ErrNotFound
	}
	delete(f.daily, id)
	rest, _ := f.ListDailyTodos(context.Background())
	for i, d := range rest {
		d.Position = i
		f.daily[d.ID] = d
	}
	return nil
}

func (f *fakeStore) ReorderDailyTodos(_ context.Context, ids []int64) error {
	if err := f.hit("ReorderDailyTodos"); err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := f.daily[id]; !ok {
			return ErrNotFound
		}
	}
	for i, id := range ids {
		d := f.daily[id]
		d.Position = i
		f.daily[id] = d
	}
	return nil
}
