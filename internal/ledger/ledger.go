package ledger

import (
	"context"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/metrics"
)

// msgRecordFailed is returned when storage fails; the cause is only logged.
const msgRecordFailed = "Unable to record expense"

// Service is the Ledger backed by a Store. It validates, persists, and
// then publishes a recorded event when a publisher is configured.
type Service struct {
	store     Store
	validator Validator
	publisher Publisher
}

var _ Ledger = (*Service)(nil)

// NewService builds a ledger. A nil validator defaults to the expense
// validator; a nil publisher disables events.
func NewService(store Store, validator Validator, publisher Publisher) *Service {
	if validator == nil {
		validator = core.NewExpenseValidator()
	}
	return &Service{
		store:     store,
		validator: validator,
		publisher: publisher,
	}
}

// Record validates and stores e.
func (s *Service) Record(ctx context.Context, e core.Expense) core.RecordResult {
	if err := s.validator.Validate(e); err != nil {
		metrics.ObserveRecord(metrics.ResultInvalid)
		logger(ctx).InfoContext(ctx, "Expense rejected",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpValidate)
		// validator errors are worded for clients
		return core.RecordErr(err.Error())
	}

	date, _ := e.Date()
	date, err := core.ParseDate(date)
	if err != nil {
		// validators other than the default may let a bad date through
		metrics.ObserveRecord(metrics.ResultInvalid)
		return core.RecordErr("Invalid expense: `date` must be a date formatted as YYYY-MM-DD")
	}

	id, err := s.store.Insert(ctx, date, e)
	if err != nil {
		metrics.ObserveRecord(metrics.ResultError)
		logger(ctx).ErrorContext(ctx, "Failed to save expense",
			applog.FieldError, err,
			applog.FieldDate, date,
			applog.FieldOperation, applog.OpCreate)
		return core.RecordErr(msgRecordFailed)
	}

	metrics.ObserveRecord(metrics.ResultOK)
	s.publishRecorded(ctx, id, date)

	return core.RecordOK(id)
}

// ExpensesOn returns the expenses stored for date. Malformed dates and
// storage failures both yield Empty.
func (s *Service) ExpensesOn(ctx context.Context, date string) core.GetResult {
	day, err := core.ParseDate(date)
	if err != nil {
		metrics.ObserveLookup(metrics.ResultNotFound)
		logger(ctx).DebugContext(ctx, "Lookup with malformed date",
			applog.FieldDate, date,
			applog.FieldOperation, applog.OpList)
		return core.Empty()
	}

	expenses, err := s.store.ListByDate(ctx, day)
	if err != nil {
		metrics.ObserveLookup(metrics.ResultError)
		logger(ctx).ErrorContext(ctx, "Failed to list expenses",
			applog.FieldError, err,
			applog.FieldDate, day,
			applog.FieldOperation, applog.OpList)
		return core.Empty()
	}

	result := core.Found(expenses)
	if result.Success() {
		metrics.ObserveLookup(metrics.ResultFound)
	} else {
		metrics.ObserveLookup(metrics.ResultNotFound)
	}
	return result
}

func (s *Service) publishRecorded(ctx context.Context, id int64, date string) {
	if s.publisher == nil {
		return
	}
	// The expense is stored; a lost event only delays the export.
	if err := s.publisher.PublishExpenseRecorded(ctx, id, date); err != nil {
		logger(ctx).ErrorContext(ctx, "Failed to publish expense recorded message",
			applog.FieldExpenseID, id,
			applog.FieldError, err,
			applog.FieldOperation, applog.OpCreate)
	}
}

func logger(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentLedger)
}
