package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"expensetracker/internal/core"
)

var errNotObject = errors.New("body is not a JSON object")

// decodeExpense reads exactly one JSON object from body. Numbers are kept
// as json.Number so amounts round-trip without float conversion.
func decodeExpense(body io.Reader) (core.Expense, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("decode body: trailing data")
		}
		return nil, fmt.Errorf("decode body: %w", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return core.Expense(obj), nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
