package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	sheetsmem "expensetracker/internal/sheets/memory"
	"expensetracker/internal/storage/memory"
)

type failingReader struct{ err error }

func (f failingReader) GetExpense(context.Context, int64) (core.StoredExpense, error) {
	return core.StoredExpense{}, f.err
}

type failingExporter struct{}

func (failingExporter) Export(context.Context, core.StoredExpense) (string, error) {
	return "", errors.New("quota exceeded")
}

func quiet() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard})
}

func TestHandleRecordedMessageExports(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	id, err := store.Insert(ctx, "2017-06-10", core.Expense{"payee": "Starbucks", "amount": json.Number("5.75"), "date": "2017-06-10"})
	require.NoError(t, err)

	sheet := sheetsmem.New("Expenses")
	w := NewExportWorker(store, sheet, quiet())

	require.NoError(t, w.HandleRecordedMessage(ctx, amqp.NewExpenseRecordedMessage(id, "2017-06-10")))

	rows := sheet.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0][0])
	assert.Equal(t, "Starbucks", rows[0][2])

	exported, skipped := w.Stats()
	assert.Equal(t, int64(1), exported)
	assert.Equal(t, int64(0), skipped)
}

func TestHandleRecordedMessageSkipsMissingExpense(t *testing.T) {
	sheet := sheetsmem.New("Expenses")
	w := NewExportWorker(memory.New(), sheet, quiet())

	require.NoError(t, w.HandleRecordedMessage(context.Background(), amqp.NewExpenseRecordedMessage(99, "2017-06-10")))
	assert.Empty(t, sheet.Rows())

	_, skipped := w.Stats()
	assert.Equal(t, int64(1), skipped)
}

func TestHandleRecordedMessageRetriesOnFailure(t *testing.T) {
	ctx := context.Background()
	msg := amqp.NewExpenseRecordedMessage(1, "2017-06-10")

	w := NewExportWorker(failingReader{err: errors.New("database is locked")}, sheetsmem.New("Expenses"), quiet())
	assert.ErrorContains(t, w.HandleRecordedMessage(ctx, msg), "database is locked")

	store := memory.New()
	_, err := store.Insert(ctx, "2017-06-10", core.Expense{"payee": "Amazon", "amount": json.Number("1"), "date": "2017-06-10"})
	require.NoError(t, err)

	w = NewExportWorker(store, failingExporter{}, quiet())
	assert.ErrorContains(t, w.HandleRecordedMessage(ctx, msg), "quota exceeded")
}
