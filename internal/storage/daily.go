package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tododay/internal/model"
)

func (s *Store) ListDailyTodos(ctx context.Context) ([]model.DailyTodo, error) {
	return listDailyTodos(ctx, s.db)
}

func listDailyTodos(ctx context.Context, q sqlx.QueryerContext) ([]model.DailyTodo, error) {
	var out []model.DailyTodo
	err := sqlx.SelectContext(ctx, q, &out, `SELECT id, position, text FROM daily_todos ORDER BY position, id;`)
	if err != nil {
		return nil, fmt.Errorf("list daily todos: %w", err)
	}
	return out, nil
}

func (s *Store) CreateDailyTodo(ctx context.Context, text string, position int) (model.DailyTodo, error) {
	text, err := model.NormalizeText(text)
	if err != nil {
		return model.DailyTodo{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_todos (position, text) VALUES (?, ?);`, position, text)
	if err != nil {
		return model.DailyTodo{}, fmt.Errorf("create daily todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.DailyTodo{}, fmt.Errorf("create daily todo: %w", err)
	}
	return model.DailyTodo{ID: id, Position: position, Text: text}, nil
}

// DeleteDailyTodo removes a template and closes the position gap.
func (s *Store) DeleteDailyTodo(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM daily_todos WHERE id = ?;`, id)
		if err != nil {
			return fmt.Errorf("delete daily todo %d: %w", id, err)
		}
		if err := affected(res, "delete daily todo", id); err != nil {
			return err
		}
		rest, err := listDailyTodos(ctx, tx)
		if err != nil {
			return err
		}
		for i, d := range rest {
			if d.Position == i {
				continue
			}
			if _, err := tx.ExecContext(ctx, `UPDATE daily_todos SET position = ? WHERE id = ?;`, i, d.ID); err != nil {
				return fmt.Errorf("renumber daily todo %d: %w", d.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) ReorderDailyTodos(ctx context.Context, orderedIDs []int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for i, id := range orderedIDs {
			res, err := tx.ExecContext(ctx, `UPDATE daily_todos SET position = ? WHERE id = ?;`, i, id)
			if err != nil {
				return fmt.Errorf("reorder daily todo %d: %w", id, err)
			}
			if err := affected(res, "reorder daily todo", id); err != nil {
				return err
			}
		}
		return nil
	})
}
