package tracker

import (
	"context"
	"fmt"

	"tododay/internal/model"
)

// ResumeOrCreate activates the most recent stored day, or creates an empty
// day for today when the store has none. Daily todos are not copied here.
func (t *Tracker) ResumeOrCreate(ctx context.Context) error {
	entries, err := t.store.ListDayIndex(ctx)
	if err != nil {
		return fmt.Errorf("list days: %w", err)
	}
	model.SortDayIndex(entries)

	if len(entries) > 0 {
		latest := entries[len(entries)-1]
		day, err := t.store.GetDay(ctx, latest.ID)
		if err != nil {
			return fmt.Errorf("load day %d: %w", latest.ID, err)
		}
		t.activate(ctx, day)
		t.index = entries
		t.logger.Info("resumed day", "day_id", day.ID, "date", day.Date, "todos", t.todos.Len())
		return nil
	}

	day, err := t.store.CreateDay(ctx, t.Today())
	if err != nil {
		return fmt.Errorf("%w: create day: %w", ErrWriteFailed, err)
	}
	t.activate(ctx, day)
	t.refreshIndex(ctx)
	t.logger.Info("created first day", "day_id", day.ID, "date", day.Date)
	return nil
}

// RolloverIfNeeded switches the active day to date when it differs from the
// active day's date. A new day is created together with one todo per daily
// todo, in template order; a stored day for date is activated as is. It reports
// whether the active day changed. On error the previous day stays active.
func (t *Tracker) RolloverIfNeeded(ctx context.Context, date string) (bool, error) {
	if err := model.ValidateDate(date); err != nil {
		return false, err
	}
	if date == t.day.Date {
		return false, nil
	}

	entries, err := t.store.ListDayIndex(ctx)
	if err != nil {
		return false, fmt.Errorf("list days: %w", err)
	}
	for _, e := range entries {
		if e.Date != date {
			continue
		}
		day, err := t.store.GetDay(ctx, e.ID)
		if err != nil {
			return false, fmt.Errorf("load day %d: %w", e.ID, err)
		}
		t.activate(ctx, day)
		t.refreshIndex(ctx)
		t.logger.Info("switched to stored day", "day_id", day.ID, "date", date)
		return true, nil
	}

	templates := t.daily.Items()
	texts := make([]string, len(templates))
	for i, tmpl := range templates {
		texts[i] = tmpl.Text
	}
	day, err := t.store.CreateDayWithTodos(ctx, date, texts)
	if err != nil {
		t.logger.Error("create day failed", "date", date, "templates", len(texts), "err", err)
		return false, fmt.Errorf("%w: create day %s: %w", ErrWriteFailed, date, err)
	}
	t.activate(ctx, day)
	t.refreshIndex(ctx)
	t.logger.Info("rolled over to new day", "day_id", day.ID, "date", date, "seeded", len(day.Todos))
	return true, nil
}

// Rollover runs RolloverIfNeeded for today.
func (t *Tracker) Rollover(ctx context.Context) (bool, error) {
	return t.RolloverIfNeeded(ctx, t.Today())
}

// activate makes day the active day. Gapped positions are rewritten and
// stale stored counts repaired; failures there are logged, not fatal.
func (t *Tracker) activate(ctx context.Context, day model.Day) {
	seq := newSequence(day.Todos, dayTodos{store: t.store, dayID: day.ID}, todoAccessor)
	if fixed, err := seq.Normalize(ctx); err != nil {
		t.logger.Warn("todo positions not normalized", "day_id", day.ID, "err", err)
	} else if fixed {
		t.logger.Info("todo positions normalized", "day_id", day.ID)
	}
	if day.CountsStale() {
		day.Recount()
		if err := t.store.SetDayCounts(ctx, day.ID, day.CountTodos, day.DoneTodos); err != nil {
			t.logger.Warn("repair day counts failed", "day_id", day.ID, "err", err)
		}
	}
	day.Todos = nil
	t.day = day
	t.todos = seq
}
