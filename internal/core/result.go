package core

// RecordResult is the outcome of recording an expense: either the id the
// store assigned, or a message explaining the rejection.
type RecordResult struct {
	ok        bool
	expenseID int64
	message   string
}

// RecordOK builds a successful result carrying the new expense id.
func RecordOK(id int64) RecordResult {
	return RecordResult{ok: true, expenseID: id}
}

// RecordErr builds a failed result carrying a client facing message.
func RecordErr(message string) RecordResult {
	return RecordResult{message: message}
}

func (r RecordResult) Success() bool { return r.ok }

// ExpenseID returns the id; the flag is false for failed results.
func (r RecordResult) ExpenseID() (int64, bool) {
	return r.expenseID, r.ok
}

// ErrorMessage returns the message; the flag is false for successful results.
func (r RecordResult) ErrorMessage() (string, bool) {
	return r.message, !r.ok
}

// GetResult is the outcome of a lookup by date: the expenses found, or
// nothing at all.
type GetResult struct {
	found    bool
	expenses []Expense
}

// Found wraps a non-empty list of expenses. An empty list yields Empty.
func Found(expenses []Expense) GetResult {
	if len(expenses) == 0 {
		return Empty()
	}
	return GetResult{found: true, expenses: expenses}
}

func Empty() GetResult {
	return GetResult{}
}

func (g GetResult) Success() bool { return g.found }

// Expenses returns the found expenses, or an empty non-nil slice so it
// always encodes as a JSON array.
func (g GetResult) Expenses() []Expense {
	if !g.found {
		return []Expense{}
	}
	return g.expenses
}
