package memory

import (
	"context"
	"fmt"
	"sync"

	"expensetracker/internal/core"
)

// Store keeps expenses in process memory. Ids start at 1 and are never reused.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.StoredExpense
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Insert(_ context.Context, date string, e core.Expense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.items = append(s.items, core.StoredExpense{ID: id, Date: date, Expense: e.Clone()})
	return id, nil
}

func (s *Store) ListByDate(_ context.Context, date string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0)
	for _, it := range s.items {
		if it.Date == date {
			out = append(out, it.Expense.Clone())
		}
	}
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.StoredExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			it.Expense = it.Expense.Clone()
			return it, nil
		}
	}
	return core.StoredExpense{}, fmt.Errorf("get expense %d: %w", id, core.ErrExpenseNotFound)
}

func (s *Store) Ping(context.Context) error { return nil }
