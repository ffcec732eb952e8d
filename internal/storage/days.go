package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tododay/internal/model"
)

func (s *Store) CreateDay(ctx context.Context, date string) (model.Day, error) {
	return s.CreateDayWithTodos(ctx, date, nil)
}

// CreateDayWithTodos inserts a day and one pending todo per text, in order,
// in a single transaction. Either the whole day exists afterwards or none
// of it does.
func (s *Store) CreateDayWithTodos(ctx context.Context, date string, texts []string) (model.Day, error) {
	if err := model.ValidateDate(date); err != nil {
		return model.Day{}, err
	}
	var day model.Day
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO days (date, notes, count_todos, done_todos) VALUES (?, '', 0, 0);`, date)
		if err != nil {
			return fmt.Errorf("create day %s: %w", date, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create day %s: %w", date, err)
		}
		for i, text := range texts {
			text, err := model.NormalizeText(text)
			if err != nil {
				return fmt.Errorf("seed todo %d of day %s: %w", i, date, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO todos (day_id, position, text, completed) VALUES (?, ?, ?, 0);`,
				id, i, text); err != nil {
				return fmt.Errorf("seed todo %d of day %s: %w", i, date, err)
			}
		}
		if err := recountDay(ctx, tx, id); err != nil {
			return err
		}
		todos, err := listTodos(ctx, tx, id)
		if err != nil {
			return err
		}
		day = model.Day{ID: id, Date: date, Todos: todos}
		day.Recount()
		return nil
	})
	if err != nil {
		return model.Day{}, err
	}
	return day, nil
}

// GetDay loads a day together with its todos in position order.
func (s *Store) GetDay(ctx context.Context, id int64) (model.Day, error) {
	var day model.Day
	err := s.db.GetContext(ctx, &day,
		`SELECT id, date, notes, count_todos, done_todos FROM days WHERE id = ?;`, id)
	if err != nil {
		return model.Day{}, notFound(err, "get day", id)
	}
	todos, err := listTodos(ctx, s.db, id)
	if err != nil {
		return model.Day{}, err
	}
	day.Todos = todos
	return day, nil
}

// DeleteDay removes a day; its todos go with it.
func (s *Store) DeleteDay(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE day_id = ?;`, id); err != nil {
			return fmt.Errorf("delete todos of day %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM days WHERE id = ?;`, id)
		if err != nil {
			return fmt.Errorf("delete day %d: %w", id, err)
		}
		return affected(res, "delete day", id)
	})
}

// ListDayIndex returns every day summary in storage order.
func (s *Store) ListDayIndex(ctx context.Context) ([]model.DayIndexEntry, error) {
	var entries []model.DayIndexEntry
	err := s.db.SelectContext(ctx, &entries,
		`SELECT id, date, count_todos, done_todos FROM days ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	return entries, nil
}

func (s *Store) SetDayNotes(ctx context.Context, id int64, notes string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE days SET notes = ? WHERE id = ?;`, notes, id)
	if err != nil {
		return fmt.Errorf("set notes of day %d: %w", id, err)
	}
	return affected(res, "set notes of day", id)
}

func (s *Store) SetDayCounts(ctx context.Context, id int64, total, done int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE days SET count_todos = ?, done_todos = ? WHERE id = ?;`, total, done, id)
	if err != nil {
		return fmt.Errorf("set counts of day %d: %w", id, err)
	}
	return affected(res, "set counts of day", id)
}

// recountDay refreshes the cached aggregates of a day from its todo rows.
func recountDay(ctx context.Context, tx *sqlx.Tx, dayID int64) error {
	_, err := tx.ExecContext(ctx, `
UPDATE days SET
	count_todos = (SELECT COUNT(*) FROM todos WHERE day_id = days.id),
	done_todos = (SELECT COUNT(*) FROM todos WHERE day_id = days.id AND completed = 1)
WHERE id = ?;`, dayID)
	if err != nil {
		return fmt.Errorf("recount day %d: %w", dayID, err)
	}
	return nil
}
