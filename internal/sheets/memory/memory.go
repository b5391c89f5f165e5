package memory

import (
	"context"
	"fmt"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/sheets"
)

var _ sheets.ExpenseExporter = (*Sheet)(nil)

// Sheet collects exported rows in memory. The worker uses it for dry runs.
type Sheet struct {
	mu   sync.Mutex
	name string
	rows [][]any
}

func New(name string) *Sheet {
	return &Sheet{name: name}
}

func (s *Sheet) Export(_ context.Context, e core.StoredExpense) (string, error) {
	row, err := sheets.Row(e)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	n := len(s.rows)
	return fmt.Sprintf("%s!A%d:E%d", s.name, n, n), nil
}

// Rows returns a copy of everything exported so far.
func (s *Sheet) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	copy(out, s.rows)
	return out
}
