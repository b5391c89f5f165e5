package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"

	_ "modernc.org/sqlite"
)

const expensesTable = "expenses"

// ErrNotFound is returned when no expense has the requested id.
var ErrNotFound = core.ErrExpenseNotFound

// SQLiteRepository persists expenses in the expenses table. The payload
// column holds the client object verbatim.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// single writer: insert order matches id order
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert stores the expense under date and returns the id assigned by the
// insert itself.
func (r *SQLiteRepository) Insert(ctx context.Context, date string, e core.Expense) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("encode expense: %w", err)
	}

	var id int64
	err = sq.Insert(expensesTable).
		Columns("date", "payload").
		Values(date, string(payload)).
		Suffix("RETURNING id").
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).InfoContext(ctx, "Expense saved to SQLite",
		applog.FieldExpenseID, id,
		applog.FieldDate, date,
		applog.FieldOperation, applog.OpCreate)
	return id, nil
}

// ListByDate returns the expenses recorded for date in insertion order.
func (r *SQLiteRepository) ListByDate(ctx context.Context, date string) ([]core.Expense, error) {
	rows, err := sq.Select("payload").
		From(expensesTable).
		Where(sq.Eq{"date": date}).
		OrderBy("id").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query expenses on %s: %w", date, err)
	}
	defer rows.Close()

	expenses := make([]core.Expense, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := decodePayload(payload)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// GetExpense retrieves a single expense by id.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.StoredExpense, error) {
	var (
		stored    core.StoredExpense
		payload   string
		createdAt any
	)
	err := sq.Select("id", "date", "payload", "created_at").
		From(expensesTable).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&stored.ID, &stored.Date, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.StoredExpense{}, fmt.Errorf("get expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.StoredExpense{}, fmt.Errorf("get expense %d: %w", id, err)
	}

	stored.Expense, err = decodePayload(payload)
	if err != nil {
		return core.StoredExpense{}, err
	}
	stored.CreatedAt = parseTimestamp(createdAt)
	return stored, nil
}

func decodePayload(payload string) (core.Expense, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var e core.Expense
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("decode expense payload: %w", err)
	}
	return e, nil
}

// parseTimestamp accepts both driver-parsed times and raw SQLite text.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTimestampString(t)
	case []byte:
		return parseTimestampString(string(t))
	default:
		return time.Time{}
	}
}

func parseTimestampString(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
