package tracker

import (
	"context"

	"tododay/internal/model"
)

// Store is the persistence capability the tracker drives. A call that
// returns an error must be treated as having had no effect.
type Store interface {
	CreateDay(context.Context, string) (model.Day, error)
	// CreateDayWithTodos creates a day already holding one todo per text,
	// positioned in order. It is all or nothing.
	CreateDayWithTodos(ctx context.Context, date string, texts []string) (model.Day, error)
	GetDay(context.Context, int64) (model.Day, error)
	DeleteDay(context.Context, int64) error
	ListDayIndex(context.Context) ([]model.DayIndexEntry, error)
	SetDayNotes(context.Context, int64, string) error
	SetDayCounts(context.Context, int64, int, int) error

	CreateTodo(ctx context.Context, dayID int64, text string, position int) (model.Todo, error)
	ToggleTodo(context.Context, int64) error
	DeleteTodo(context.Context, int64) error
	ReorderTodos(ctx context.Context, dayID int64, orderedIDs []int64) error

	ListDailyTodos(context.Context) ([]model.DailyTodo, error)
	CreateDailyTodo(ctx context.Context, text string, position int) (model.DailyTodo, error)
	DeleteDailyTodo(context.Context, int64) error
	ReorderDailyTodos(ctx context.Context, orderedIDs []int64) error
}
