package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format used in expense payloads and URLs.
const DateLayout = "2006-01-02"

const (
	FieldPayee  = "payee"
	FieldAmount = "amount"
	FieldDate   = "date"
)

type (
	// Expense is the client supplied JSON object. Fields other than the
	// validated ones are stored and returned untouched.
	Expense map[string]any

	// StoredExpense is an expense as persisted, with its server assigned id.
	StoredExpense struct {
		ID        int64
		Date      string
		Expense   Expense
		CreatedAt time.Time
	}
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrInvalidPayee  = errors.New("invalid payee")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")

	// ErrExpenseNotFound is returned by stores when no expense has the requested id.
	ErrExpenseNotFound = errors.New("expense not found")
)

var requiredFields = []string{FieldPayee, FieldAmount, FieldDate}

// ValidationError describes why an expense was rejected. Its message is
// safe to return to API clients.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Invalid expense: `%s` %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Date returns the expense date field when it is a string.
func (e Expense) Date() (string, bool) {
	s, ok := e[FieldDate].(string)
	return s, ok
}

// Clone returns a shallow copy so callers cannot mutate stored maps.
func (e Expense) Clone() Expense {
	out := make(Expense, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ParseDate parses a YYYY-MM-DD date and returns it in canonical form.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DateLayout), nil
}

// ExpenseValidator checks that an expense carries a payee, a positive amount
// and a calendar date.
type ExpenseValidator struct {
	v *validator.Validate
}

func NewExpenseValidator() *ExpenseValidator {
	return &ExpenseValidator{v: validator.New()}
}

func (ev *ExpenseValidator) Validate(e Expense) error {
	for _, field := range requiredFields {
		if v, ok := e[field]; !ok || v == nil {
			return &ValidationError{Field: field, Reason: "is required", Err: ErrMissingField}
		}
	}

	payee, ok := e[FieldPayee].(string)
	if !ok || ev.v.Var(strings.TrimSpace(payee), "required") != nil {
		return &ValidationError{Field: FieldPayee, Reason: "must be a non-empty string", Err: ErrInvalidPayee}
	}

	amount, ok := numeric(e[FieldAmount])
	if !ok || ev.v.Var(amount, "gt=0") != nil {
		return &ValidationError{Field: FieldAmount, Reason: "must be a number greater than zero", Err: ErrInvalidAmount}
	}

	date, ok := e.Date()
	if !ok || ev.v.Var(date, "datetime="+DateLayout) != nil {
		return &ValidationError{Field: FieldDate, Reason: "must be a date formatted as YYYY-MM-DD", Err: ErrInvalidDate}
	}

	return nil
}

// numeric accepts the shapes a decoded JSON number can take.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
