package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tododay/internal/model"
	"tododay/internal/tracker"
)

const selectTodos = `SELECT id, day_id, COALESCE(position, 0) AS position, text, completed FROM todos`

func listTodos(ctx context.Context, q sqlx.QueryerContext, dayID int64) ([]model.Todo, error) {
	var todos []model.Todo
	err := sqlx.SelectContext(ctx, q, &todos, selectTodos+` WHERE day_id = ? ORDER BY position, id;`, dayID)
	if err != nil {
		return nil, fmt.Errorf("list todos of day %d: %w", dayID, err)
	}
	return todos, nil
}

// CreateTodo inserts a pending todo at position and refreshes the day counts.
func (s *Store) CreateTodo(ctx context.Context, dayID int64, text string, position int) (model.Todo, error) {
	text, err := model.NormalizeText(text)
	if err != nil {
		return model.Todo{}, err
	}
	todo := model.Todo{DayID: dayID, Position: position, Text: text}
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM days WHERE id = ?;`, dayID); err != nil {
			return fmt.Errorf("check day %d: %w", dayID, err)
		}
		if exists == 0 {
			return fmt.Errorf("day %d: %w", dayID, tracker.ErrNotFound)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO todos (day_id, position, text, completed) VALUES (?, ?, ?, 0);`,
			dayID, position, text)
		if err != nil {
			return fmt.Errorf("create todo: %w", err)
		}
		if todo.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("create todo: %w", err)
		}
		return recountDay(ctx, tx, dayID)
	})
	if err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// ToggleTodo flips the completed flag and refreshes the day counts.
func (s *Store) ToggleTodo(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		dayID, err := todoDay(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE todos SET completed = 1 - completed WHERE id = ?;`, id); err != nil {
			return fmt.Errorf("toggle todo %d: %w", id, err)
		}
		return recountDay(ctx, tx, dayID)
	})
}

// DeleteTodo removes a todo, closes the position gap it leaves and
// refreshes the day counts.
func (s *Store) DeleteTodo(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		dayID, err := todoDay(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?;`, id); err != nil {
			return fmt.Errorf("delete todo %d: %w", id, err)
		}
		rest, err := listTodos(ctx, tx, dayID)
		if err != nil {
			return err
		}
		for i, t := range rest {
			if t.Position == i {
				continue
			}
			if _, err := tx.ExecContext(ctx, `UPDATE todos SET position = ? WHERE id = ?;`, i, t.ID); err != nil {
				return fmt.Errorf("renumber todo %d: %w", t.ID, err)
			}
		}
		return recountDay(ctx, tx, dayID)
	})
}

// ReorderTodos writes index i as the position of orderedIDs[i]. Every id
// must belong to dayID or nothing is written.
func (s *Store) ReorderTodos(ctx context.Context, dayID int64, orderedIDs []int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for i, id := range orderedIDs {
			res, err := tx.ExecContext(ctx,
				`UPDATE todos SET position = ? WHERE id = ? AND day_id = ?;`, i, id, dayID)
			if err != nil {
				return fmt.Errorf("reorder todo %d: %w", id, err)
			}
			if err := affected(res, "reorder todo", id); err != nil {
				return err
			}
		}
		return nil
	})
}

func todoDay(ctx context.Context, tx *sqlx.Tx, id int64) (int64, error) {
	var dayID int64
	if err := tx.GetContext(ctx, &dayID, `SELECT day_id FROM todos WHERE id = ?;`, id); err != nil {
		return 0, notFound(err, "todo", id)
	}
	return dayID, nil
}
