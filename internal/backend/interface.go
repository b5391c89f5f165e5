package backend

import (
	"context"

	"expensetracker/internal/ledger"
)

// Store is what a backend must offer: persistence for the ledger, lookups
// by id for the export worker, and a health check.
type Store interface {
	ledger.Store
	ledger.ExpenseReader
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the wired ledger, the store behind it, and the
// cleanup that releases both.
type BackendResult struct {
	Ledger  *ledger.Service
	Store   Store
	Cleanup CleanupFunc
}

// Close runs the cleanup when there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
