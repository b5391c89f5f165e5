package sheets

import (
	"encoding/json"
	"fmt"
	"strconv"

	"expensetracker/internal/core"
)

// Columns written for every exported expense.
var Header = []any{"id", "date", "payee", "amount", "raw"}

// Row lays out an expense as id, date, payee, amount, raw JSON. Fields the
// client sent beyond the three known ones only appear in the raw column.
func Row(e core.StoredExpense) ([]any, error) {
	raw, err := json.Marshal(e.Expense)
	if err != nil {
		return nil, fmt.Errorf("encode expense %d: %w", e.ID, err)
	}

	return []any{
		e.ID,
		e.Date,
		cell(e.Expense[core.FieldPayee]),
		cell(e.Expense[core.FieldAmount]),
		string(raw),
	}, nil
}

func cell(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case float64, float32, int, int64:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
