package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentLedger, Output: &buf})

	logger.Info("Expense saved", FieldExpenseID, 417)
	out := buf.String()
	assert.Contains(t, out, "component=ledger")
	assert.Contains(t, out, "expense_id=417")

	buf.Reset()
	logger.WithComponent(ComponentHTTP).Warn("slow")
	assert.Contains(t, buf.String(), "component=http")

	buf.Reset()
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestContextRoundTrip(t *testing.T) {
	logger := New(DefaultConfig())
	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}
