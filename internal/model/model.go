// Package model holds the in-memory shapes of the rows tododay persists:
// days, the todos they own, recurring daily todo templates and the
// lightweight day index used for cross-day browsing.
package model

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for Day.Date.
const DateLayout = "2006-01-02"

var (
	ErrEmptyText   = errors.New("text is empty")
	ErrInvalidDate = errors.New("invalid date")
)

// Todo is a single item owned by exactly one Day.
type Todo struct {
	ID        int64  `db:"id"`
	DayID     int64  `db:"day_id"`
	Position  int    `db:"position"`
	Text      string `db:"text"`
	Completed bool   `db:"completed"`
}

// Label renders the todo the way list views show it.
func (t Todo) Label() string {
	if t.Completed {
		return "[x] " + t.Text
	}
	return "[ ] " + t.Text
}

func (t *Todo) Toggle() {
	t.Completed = !t.Completed
}

// DailyTodo is a recurring template whose text is copied into new days.
type DailyTodo struct {
	ID       int64  `db:"id"`
	Position int    `db:"position"`
	Text     string `db:"text"`
}

func (d DailyTodo) Label() string {
	return "- " + d.Text
}

// Day is the aggregate root for one calendar date.
type Day struct {
	ID         int64  `db:"id"`
	Date       string `db:"date"`
	Notes      string `db:"notes"`
	CountTodos int    `db:"count_todos"`
	DoneTodos  int    `db:"done_todos"`
	Todos      []Todo `db:"-"`
}

// Recount recomputes the cached aggregates from Todos.
func (d *Day) Recount() {
	d.CountTodos, d.DoneTodos = Counts(d.Todos)
}

// CountsStale reports whether the cached aggregates disagree with Todos.
func (d Day) CountsStale() bool {
	total, done := Counts(d.Todos)
	return total != d.CountTodos || done != d.DoneTodos
}

// Counts returns the total and completed number of todos.
func Counts(todos []Todo) (total, done int) {
	for _, t := range todos {
		if t.Completed {
			done++
		}
	}
	return len(todos), done
}

// DayIndexEntry is a read-only summary of a stored day.
type DayIndexEntry struct {
	ID    int64  `db:"id"`
	Date  string `db:"date"`
	Total int    `db:"count_todos"`
	Done  int    `db:"done_todos"`
}

// Progress renders "<done>/<total>".
func (e DayIndexEntry) Progress() string {
	return fmt.Sprintf("%d/%d", e.Done, e.Total)
}

// SortDayIndex orders entries by calendar date, oldest first. Entries whose
// date does not parse sort by their raw string; ties break on ID.
func SortDayIndex(entries []DayIndexEntry) {
	slices.SortStableFunc(entries, func(a, b DayIndexEntry) int {
		ta, errA := time.Parse(DateLayout, a.Date)
		tb, errB := time.Parse(DateLayout, b.Date)
		var c int
		if errA == nil && errB == nil {
			c = ta.Compare(tb)
		} else {
			c = strings.Compare(a.Date, b.Date)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// DateOf formats t as a Day date.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateDate checks that s is a Day date.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}

// NormalizeText trims s and rejects empty input.
func NormalizeText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyText
	}
	return s, nil
}
