package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
	applog "expensetracker/internal/log"
	"expensetracker/internal/sheets"
)

// ExportWorker copies recorded expenses to a spreadsheet as their
// expense.recorded messages arrive.
type ExportWorker struct {
	reader   ledger.ExpenseReader
	exporter sheets.ExpenseExporter
	logger   *applog.Logger

	exported atomic.Int64
	skipped  atomic.Int64
}

func NewExportWorker(reader ledger.ExpenseReader, exporter sheets.ExpenseExporter, logger *applog.Logger) *ExportWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExportWorker{
		reader:   reader,
		exporter: exporter,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleRecordedMessage exports the expense named by msg. An expense that no
// longer exists is skipped; any other failure is returned so the message is
// redelivered.
func (w *ExportWorker) HandleRecordedMessage(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error {
	w.logger.DebugContext(ctx, "Processing expense recorded message",
		applog.FieldExpenseID, msg.ID,
		applog.FieldDate, msg.Date)

	expense, err := w.reader.GetExpense(ctx, msg.ID)
	if errors.Is(err, core.ErrExpenseNotFound) {
		w.skipped.Add(1)
		w.logger.WarnContext(ctx, "Expense no longer stored, skipping export", applog.FieldExpenseID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	ref, err := w.exporter.Export(ctx, expense)
	if err != nil {
		return fmt.Errorf("export expense %d: %w", msg.ID, err)
	}

	w.exported.Add(1)
	w.logger.InfoContext(ctx, "Exported expense",
		applog.FieldExpenseID, expense.ID,
		applog.FieldDate, expense.Date,
		applog.FieldOperation, applog.OpExport,
		"sheets_ref", ref)
	return nil
}

// Stats reports how many messages were exported and skipped.
func (w *ExportWorker) Stats() (exported, skipped int64) {
	return w.exported.Load(), w.skipped.Load()
}
