package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	applog "expensetracker/internal/log"
)

const (
	maxBodyBytes = 1 << 20

	msgNotObject    = "Expense must be a JSON object"
	msgBodyTooLarge = "Request body too large"
)

type recordResponse struct {
	ExpenseID int64 `json:"expense_id"`
}

// handleRecordExpense stores the posted expense and answers with its id.
func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	expense, err := decodeExpense(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		logger.Warn("Rejected request body", applog.FieldError, err.Error())
		writeError(w, http.StatusUnprocessableEntity, msgNotObject)
		return
	}

	result := s.ledger.Record(r.Context(), expense)
	if id, ok := result.ExpenseID(); ok {
		writeJSON(w, http.StatusOK, recordResponse{ExpenseID: id})
		return
	}

	msg, _ := result.ErrorMessage()
	writeError(w, http.StatusUnprocessableEntity, msg)
}

// handleExpensesOn lists the expenses recorded on the date in the path.
// A lookup that finds nothing is not an error: it answers with [].
func (s *Server) handleExpensesOn(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	result := s.ledger.ExpensesOn(r.Context(), date)
	writeJSON(w, http.StatusOK, result.Expenses())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the store when it can be pinged.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.pinger.Ping(ctx); err != nil {
			applog.FromContext(r.Context()).Error("Readiness check failed", applog.FieldError, err.Error())
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"error":  "store unavailable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
