package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/memory"
)

type fakeStore struct {
	insertID  int64
	insertErr error
	listErr   error
	listed    []core.Expense

	inserted []core.Expense
	dates    []string
}

func (f *fakeStore) Insert(_ context.Context, date string, e core.Expense) (int64, error) {
	f.inserted = append(f.inserted, e)
	f.dates = append(f.dates, date)
	return f.insertID, f.insertErr
}

func (f *fakeStore) ListByDate(_ context.Context, date string) ([]core.Expense, error) {
	f.dates = append(f.dates, date)
	return f.listed, f.listErr
}

type fakeValidator struct{ err error }

func (f fakeValidator) Validate(core.Expense) error { return f.err }

type fakePublisher struct {
	mu    sync.Mutex
	ids   []int64
	dates []string
	err   error
}

func (f *fakePublisher) PublishExpenseRecorded(_ context.Context, id int64, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	f.dates = append(f.dates, date)
	return f.err
}

func coffee() core.Expense {
	return core.Expense{"payee": "Starbucks", "amount": json.Number("5.75"), "date": "2017-06-10"}
}

func TestRecordSuccessReturnsStoreID(t *testing.T) {
	store := &fakeStore{insertID: 417}
	pub := &fakePublisher{}
	svc := NewService(store, nil, pub)

	res := svc.Record(context.Background(), coffee())

	id, ok := res.ExpenseID()
	require.True(t, ok)
	assert.Equal(t, int64(417), id)
	assert.Equal(t, []string{"2017-06-10"}, store.dates)
	assert.Equal(t, []int64{417}, pub.ids)
}

func TestRecordValidationFailureNeverStores(t *testing.T) {
	store := &fakeStore{insertID: 1}
	pub := &fakePublisher{}
	svc := NewService(store, fakeValidator{err: errors.New("Expense incomplete")}, pub)

	res := svc.Record(context.Background(), core.Expense{"some": "data"})

	msg, failed := res.ErrorMessage()
	require.True(t, failed)
	assert.Equal(t, "Expense incomplete", msg)
	assert.Empty(t, store.inserted)
	assert.Empty(t, pub.ids)
}

func TestRecordDefaultValidatorMessage(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil)
	e := coffee()
	delete(e, "payee")

	msg, failed := svc.Record(context.Background(), e).ErrorMessage()
	require.True(t, failed)
	assert.Equal(t, "Invalid expense: `payee` is required", msg)
}

func TestRecordStorageFailureMapsToErr(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk I/O error")}
	pub := &fakePublisher{}
	svc := NewService(store, nil, pub)

	res := svc.Record(context.Background(), coffee())

	msg, failed := res.ErrorMessage()
	require.True(t, failed)
	assert.Equal(t, msgRecordFailed, msg)
	assert.NotContains(t, msg, "disk")
	assert.Empty(t, pub.ids)
}

func TestRecordPublishFailureStillSucceeds(t *testing.T) {
	svc := NewService(&fakeStore{insertID: 3}, nil, &fakePublisher{err: errors.New("broker down")})

	res := svc.Record(context.Background(), coffee())
	assert.True(t, res.Success())
}

func TestExpensesOn(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		xs := []core.Expense{{"some": "data"}, {"some": "data"}}
		res := NewService(&fakeStore{listed: xs}, nil, nil).ExpensesOn(ctx, "2017-06-12")
		assert.True(t, res.Success())
		assert.Equal(t, xs, res.Expenses())
	})

	t.Run("none", func(t *testing.T) {
		res := NewService(&fakeStore{listed: []core.Expense{}}, nil, nil).ExpensesOn(ctx, "2017-06-12")
		assert.False(t, res.Success())
		assert.Equal(t, []core.Expense{}, res.Expenses())
	})

	t.Run("storage error", func(t *testing.T) {
		store := &fakeStore{listed: []core.Expense{{"leak": true}}, listErr: errors.New("boom")}
		res := NewService(store, nil, nil).ExpensesOn(ctx, "2017-06-12")
		assert.False(t, res.Success())
		assert.Empty(t, res.Expenses())
	})

	t.Run("malformed date skips the store", func(t *testing.T) {
		store := &fakeStore{}
		res := NewService(store, nil, nil).ExpensesOn(ctx, "June 12th")
		assert.False(t, res.Success())
		assert.Empty(t, store.dates)
	})
}

func TestLedgerRoundTripWithSQLite(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer repo.Close()

	svc := NewService(repo, nil, nil)
	testLedgerRoundTrip(ctx, t, svc)
}

func TestLedgerRoundTripWithMemory(t *testing.T) {
	testLedgerRoundTrip(context.Background(), t, NewService(memory.New(), nil, nil))
}

func testLedgerRoundTrip(ctx context.Context, t *testing.T, svc *Service) {
	t.Helper()

	zoo := core.Expense{"payee": "Zoo", "amount": json.Number("15.25"), "date": "2017-06-10"}
	groceries := core.Expense{"payee": "Whole Foods", "amount": json.Number("95.2"), "date": "2017-06-11"}

	first := svc.Record(ctx, coffee())
	second := svc.Record(ctx, zoo)
	third := svc.Record(ctx, groceries)
	for _, r := range []core.RecordResult{first, second, third} {
		require.True(t, r.Success())
	}
	id1, _ := first.ExpenseID()
	id2, _ := second.ExpenseID()
	assert.Greater(t, id2, id1)

	got := svc.ExpensesOn(ctx, "2017-06-10")
	require.True(t, got.Success())
	assert.ElementsMatch(t, []core.Expense{coffee(), zoo}, got.Expenses())

	assert.False(t, svc.ExpensesOn(ctx, "2017-06-12").Success())
}

func TestRecordLogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := applog.NewContext(context.Background(), applog.New(applog.Config{Component: applog.ComponentHTTP, Output: &buf}))

	svc := NewService(&fakeStore{insertErr: errors.New("disk full")}, nil, nil)
	res := svc.Record(ctx, core.Expense{"payee": "Starbucks", "amount": json.Number("5.75"), "date": "2017-06-10"})
	assert.False(t, res.Success())

	out := buf.String()
	assert.Contains(t, out, "component=ledger")
	assert.Contains(t, out, "operation=create")
	assert.Contains(t, out, "disk full")

	buf.Reset()
	svc.Record(ctx, core.Expense{"payee": "Starbucks"})
	assert.Contains(t, buf.String(), "operation=validate")
}
