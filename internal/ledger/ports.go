package ledger

import (
	"context"

	"expensetracker/internal/core"
)

// Ports used and offered by the ledger.
type (
	// Ledger records expenses and looks them up by date. Failures are
	// reported through the result values, never as errors.
	Ledger interface {
		Record(ctx context.Context, e core.Expense) core.RecordResult
		ExpensesOn(ctx context.Context, date string) core.GetResult
	}

	// Store is the persistence collaborator. Insert must return the id
	// assigned by the insert itself.
	Store interface {
		Insert(ctx context.Context, date string, e core.Expense) (int64, error)
		ListByDate(ctx context.Context, date string) ([]core.Expense, error)
	}

	// ExpenseReader loads one stored expense by id.
	ExpenseReader interface {
		GetExpense(ctx context.Context, id int64) (core.StoredExpense, error)
	}

	// Validator decides whether an expense is complete enough to store.
	Validator interface {
		Validate(e core.Expense) error
	}

	// Publisher announces recorded expenses to other processes.
	Publisher interface {
		PublishExpenseRecorded(ctx context.Context, id int64, date string) error
	}
)
