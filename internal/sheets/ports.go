package sheets

import (
	"context"

	"expensetracker/internal/core"
)

// ExpenseExporter copies a stored expense to an external sheet and returns
// a reference to the row it wrote.
type ExpenseExporter interface {
	Export(ctx context.Context, e core.StoredExpense) (rowRef string, err error)
}
