package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordResult(t *testing.T) {
	ok := RecordOK(417)
	assert.True(t, ok.Success())
	id, has := ok.ExpenseID()
	assert.True(t, has)
	assert.Equal(t, int64(417), id)
	_, hasMsg := ok.ErrorMessage()
	assert.False(t, hasMsg)

	failed := RecordErr("Expense incomplete")
	assert.False(t, failed.Success())
	_, has = failed.ExpenseID()
	assert.False(t, has)
	msg, hasMsg := failed.ErrorMessage()
	assert.True(t, hasMsg)
	assert.Equal(t, "Expense incomplete", msg)
}

func TestGetResult(t *testing.T) {
	xs := []Expense{{"some": "data"}, {"some": "data"}}

	found := Found(xs)
	assert.True(t, found.Success())
	assert.Equal(t, xs, found.Expenses())

	empty := Empty()
	assert.False(t, empty.Success())
	assert.NotNil(t, empty.Expenses())
	assert.Empty(t, empty.Expenses())

	assert.False(t, Found(nil).Success())
}
