package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"tododay/internal/model"
)

// Backend persists one ordered list. Delete must close the gap it leaves
// in stored positions; Reorder writes index i as the position of
// orderedIDs[i] for every element, all or nothing.
type Backend interface {
	Reorder(ctx context.Context, orderedIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// accessor reads and writes the identity and position of a list element.
type accessor[T any] struct {
	id          func(T) int64
	position    func(T) int
	setPosition func(*T, int)
}

var todoAccessor = accessor[model.Todo]{
	id:          func(t model.Todo) int64 { return t.ID },
	position:    func(t model.Todo) int { return t.Position },
	setPosition: func(t *model.Todo, p int) { t.Position = p },
}

var dailyAccessor = accessor[model.DailyTodo]{
	id:          func(d model.DailyTodo) int64 { return d.ID },
	position:    func(d model.DailyTodo) int { return d.Position },
	setPosition: func(d *model.DailyTodo, p int) { d.Position = p },
}

// Sequence keeps items in a dense zero-based position order. Every change
// is written to the backend first and only committed in memory once the
// write succeeded, so positions always read 0..len-1.
type Sequence[T any] struct {
	items   []T
	backend Backend
	acc     accessor[T]
}

func newSequence[T any](items []T, backend Backend, acc accessor[T]) *Sequence[T] {
	return &Sequence[T]{
		items:   slices.Clone(items),
		backend: backend,
		acc:     acc,
	}
}

func (s *Sequence[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the ordered elements.
func (s *Sequence[T]) Items() []T {
	return slices.Clone(s.items)
}

func (s *Sequence[T]) At(i int) (T, bool) {
	if !s.inBounds(i) {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Positions returns the stored position of every element in index order.
func (s *Sequence[T]) Positions() []int {
	out := make([]int, len(s.items))
	for i, item := range s.items {
		out[i] = s.acc.position(item)
	}
	return out
}

// Normalize rewrites positions to 0..len-1 when the loaded values have
// gaps or duplicates. It reports whether a write happened.
func (s *Sequence[T]) Normalize(ctx context.Context) (bool, error) {
	dense := true
	for i, item := range s.items {
		if s.acc.position(item) != i {
			dense = false
			break
		}
	}
	if dense {
		return false, nil
	}
	next := slices.Clone(s.items)
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.items = next
	return true, nil
}

// Swap exchanges the elements at i and j and persists the whole ordering.
// Out of range indices are a no-op.
func (s *Sequence[T]) Swap(ctx context.Context, i, j int) error {
	if !s.inBounds(i) || !s.inBounds(j) || i == j {
		return nil
	}
	next := slices.Clone(s.items)
	next[i], next[j] = next[j], next[i]
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// Append creates an element at position len and adds it to the end.
func (s *Sequence[T]) Append(ctx context.Context, create func(ctx context.Context, position int) (T, error)) (T, error) {
	position := len(s.items)
	item, err := create(ctx, position)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: create at position %d: %w", ErrWriteFailed, position, err)
	}
	s.acc.setPosition(&item, position)
	s.items = append(s.items, item)
	return item, nil
}

// Remove deletes the element at i from the backend and the sequence, then
// renumbers what is left. A stale element the backend no longer knows is
// dropped locally and the remaining order rewritten. Out of range indices
// are a no-op.
func (s *Sequence[T]) Remove(ctx context.Context, i int) (T, bool, error) {
	var zero T
	if !s.inBounds(i) {
		return zero, false, nil
	}
	removed := s.items[i]
	next := slices.Delete(slices.Clone(s.items), i, i+1)

	err := s.backend.Delete(ctx, s.acc.id(removed))
	switch {
	case err == nil:
		for idx := range next {
			s.acc.setPosition(&next[idx], idx)
		}
	case errors.Is(err, ErrNotFound):
		if err := s.persist(ctx, next); err != nil {
			return zero, false, err
		}
	default:
		return zero, false, fmt.Errorf("%w: delete %d: %w", ErrWriteFailed, s.acc.id(removed), err)
	}
	s.items = next
	return removed, true, nil
}

// Update applies fn to the element at i in memory only.
func (s *Sequence[T]) Update(i int, fn func(*T)) bool {
	if !s.inBounds(i) {
		return false
	}
	fn(&s.items[i])
	return true
}

// persist writes index order to the backend and, on success, stamps the
// new positions onto next.
func (s *Sequence[T]) persist(ctx context.Context, next []T) error {
	ids := make([]int64, len(next))
	for idx, item := range next {
		ids[idx] = s.acc.id(item)
	}
	if err := s.backend.Reorder(ctx, ids); err != nil {
		return fmt.Errorf("%w: reorder: %w", ErrWriteFailed, err)
	}
	for idx := range next {
		s.acc.setPosition(&next[idx], idx)
	}
	return nil
}

func (s *Sequence[T]) inBounds(i int) bool {
	return i >= 0 && i < len(s.items)
}

// dayTodos binds the todo list of one day to the store.
type dayTodos struct {
	store Store
	dayID int64
}

func (b dayTodos) Reorder(ctx context.Context, ids []int64) error {
	return b.store.ReorderTodos(ctx, b.dayID, ids)
}

func (b dayTodos) Delete(ctx context.Context, id int64) error {
	return b.store.DeleteTodo(ctx, id)
}

// dailyTemplates binds the global daily todo list to the store.
type dailyTemplates struct {
	store Store
}

func (b dailyTemplates) Reorder(ctx context.Context, ids []int64) error {
	return b.store.ReorderDailyTodos(ctx, ids)
}

func (b dailyTemplates) Delete(ctx context.Context, id int64) error {
	return b.store.DeleteDailyTodo(ctx, id)
}
